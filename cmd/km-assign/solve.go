// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/someonegg/kmmatch"
	"github.com/someonegg/kmmatch/clinic"
	"github.com/someonegg/kmmatch/internal/logging"
	"github.com/someonegg/kmmatch/internal/metrics"
)

const envPrefix = "KM_ASSIGN"

type Problem struct {
	Patients []*clinic.Patient `mapstructure:"patients" yaml:"patients"`
	Doctors  []*clinic.Doctor  `mapstructure:"doctors" yaml:"doctors"`
	Matcher  Settings          `mapstructure:"matcher" yaml:"matcher,omitempty"`
}

type Settings struct {
	Strategy string `mapstructure:"strategy" yaml:"strategy,omitempty"`
	Strict   bool   `mapstructure:"strict" yaml:"strict,omitempty"`
}

type Output struct {
	Allocs       []*clinic.Alloc       `json:"allocs" yaml:"allocs"`
	Explanations []*clinic.Explanation `json:"explanations" yaml:"explanations"`
	Summary      clinic.Summary        `json:"summary" yaml:"summary"`
}

type solveOptions struct {
	problemFile string
	outFile     string
	metricsFile string

	// nil when not given on the command line
	strategy *string
	strict   *bool

	compare bool
	verbose bool
}

func doSolve(ctx context.Context, w io.Writer, opts solveOptions) error {
	problem, err := loadProblem(opts.problemFile, opts.strategy, opts.strict)
	if err != nil {
		return fmt.Errorf("load problem file failed: %w", err)
	}

	logger, err := logging.NewLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("create logger failed: %w", err)
	}

	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(reg)

	matcher := &clinic.Matcher{
		Strategy:    &problem.Matcher.Strategy,
		StrictPrefs: &problem.Matcher.Strict,
		Verbose:     opts.verbose,
		Logger:      logger,
		Observer:    recorder,
	}

	allocs, explains, summ, err := matcher.Match(problem.Patients, problem.Doctors)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	printReport(w, problem.Doctors, allocs, explains, summ)

	if opts.compare {
		other := kmmatch.StrategyGreedy
		if problem.Matcher.Strategy == kmmatch.StrategyGreedy {
			other = kmmatch.StrategyOptimal
		}
		baseline := &clinic.Matcher{
			Strategy:    &other,
			StrictPrefs: &problem.Matcher.Strict,
			Logger:      logger,
			Observer:    recorder,
		}
		_, _, bsumm, err := baseline.Match(problem.Patients, problem.Doctors)
		if err != nil {
			return fmt.Errorf("match with %s failed: %w", other, err)
		}
		fmt.Fprintf(w, "%s score: %d (difference: %d)\n", other, bsumm.Score, summ.Score-bsumm.Score)
	}

	if opts.outFile != "" {
		err = writeOutput(opts.outFile, Output{allocs, explains, summ})
		if err != nil {
			return fmt.Errorf("write output file failed: %w", err)
		}
	}

	if opts.metricsFile != "" {
		err = prometheus.WriteToTextfile(opts.metricsFile, reg)
		if err != nil {
			return fmt.Errorf("write metrics file failed: %w", err)
		}
	}

	return nil
}

// loadProblem reads the problem file. The matcher settings come from, in
// order of precedence: the command line, KM_ASSIGN_STRATEGY and
// KM_ASSIGN_STRICT, the file's matcher section, the defaults.
func loadProblem(file string, strategy *string, strict *bool) (*Problem, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetDefault("matcher.strategy", clinic.DefaultStrategy)
	v.SetDefault("matcher.strict", clinic.DefaultStrictPrefs)
	if err := v.BindEnv("matcher.strategy", envPrefix+"_STRATEGY"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("matcher.strict", envPrefix+"_STRICT"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	if strategy != nil {
		v.Set("matcher.strategy", *strategy)
	}
	if strict != nil {
		v.Set("matcher.strict", *strict)
	}

	var problem Problem
	if err := v.Unmarshal(&problem); err != nil {
		return nil, err
	}
	return &problem, nil
}

func printReport(w io.Writer, doctors []*clinic.Doctor, allocs []*clinic.Alloc, explains []*clinic.Explanation, summ clinic.Summary) {
	fmt.Fprintln(w, "--- Allocation Process ---")
	for _, e := range explains {
		choice := "an unranked choice"
		if e.Ranked {
			choice = "the " + humanize.Ordinal(e.Rank) + " choice"
		}
		fmt.Fprintf(w, "Assign patient '%s' to doctor '%s' (%s, score: %d)\n", e.Patient, e.Doctor, choice, e.Score)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Final allocation results ---")
	for _, alloc := range allocs {
		patients := "none"
		if len(alloc.Patients) > 0 {
			patients = strings.Join(alloc.Patients, ", ")
		}
		fmt.Fprintf(w, "%s (Capacity: %d): %s\n", alloc.Doctor, alloc.Capacity, patients)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total patient satisfaction score: %d (max %d)\n", summ.Score, summ.MaxScore)
}

func writeOutput(file string, out Output) error {
	var buf bytes.Buffer

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(out); err != nil {
			return err
		}
		if err := encoder.Close(); err != nil {
			return err
		}
	default:
		encoder := json.NewEncoder(&buf)
		encoder.SetIndent("", "   ")
		if err := encoder.Encode(out); err != nil {
			return err
		}
	}

	return os.WriteFile(file, buf.Bytes(), 0644)
}

func writeExample(w io.Writer) error {
	problem := Problem{
		Patients: []*clinic.Patient{
			{Name: "Sam", Prefs: []string{"Doctor1", "Doctor3", "Doctor4", "Doctor2"}},
			{Name: "Tom", Prefs: []string{"Doctor2", "Doctor1", "Doctor3", "Doctor4"}},
			{Name: "Stella", Prefs: []string{"Doctor1", "Doctor4", "Doctor2", "Doctor3"}},
			{Name: "Tim", Prefs: []string{"Doctor1", "Doctor4", "Doctor3", "Doctor2"}},
			{Name: "David", Prefs: []string{"Doctor3", "Doctor2", "Doctor1", "Doctor4"}},
		},
		Doctors: []*clinic.Doctor{
			{Name: "Doctor1", Capacity: 1},
			{Name: "Doctor2", Capacity: 1},
			{Name: "Doctor3", Capacity: 1},
			{Name: "Doctor4", Capacity: 2},
		},
		Matcher: Settings{Strategy: kmmatch.StrategyOptimal},
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(problem); err != nil {
		return err
	}
	return encoder.Close()
}
