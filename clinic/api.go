// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clinic uses kmmatch to assign patients to doctors.
package clinic

import (
	"errors"

	"github.com/go-logr/logr"

	"github.com/someonegg/kmmatch"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

type Patient struct {
	Name  string   `json:"name" yaml:"name" mapstructure:"name"`
	Prefs []string `json:"prefs" yaml:"prefs" mapstructure:"prefs"` // most preferred first
}

type Doctor struct {
	Name     string   `json:"name" yaml:"name" mapstructure:"name"`
	Capacity int      `json:"cap" yaml:"cap" mapstructure:"cap"`
	Aliases  []string `json:"aliases,omitempty" yaml:"aliases,omitempty" mapstructure:"aliases"`
}

type Alloc struct {
	Doctor   string   `json:"doctor" yaml:"doctor"`
	Capacity int      `json:"cap" yaml:"cap"`
	Patients []string `json:"patients" yaml:"patients"`
}

// Explanation tells how one patient was placed.
type Explanation struct {
	Patient string `json:"patient" yaml:"patient"`
	Doctor  string `json:"doctor" yaml:"doctor"`
	Rank    int    `json:"rank,omitempty" yaml:"rank,omitempty"` // 1-based, 0 if unranked
	Ranked  bool   `json:"ranked" yaml:"ranked"`
	Score   int    `json:"score" yaml:"score"`
}

const (
	DefaultStrategy    = kmmatch.StrategyOptimal
	DefaultStrictPrefs = false
)

type Matcher struct {
	Strategy    *string `json:"strategy"`
	StrictPrefs *bool   `json:"strict"`

	Verbose bool `json:"vv"`

	Logger   logr.Logger      `json:"-"`
	Observer kmmatch.Observer `json:"-"`

	strategy string
	strict   bool
}

type Summary struct {
	PatientsCount int `json:"patients" yaml:"patients"`
	DoctorsCount  int `json:"doctors" yaml:"doctors"`
	SlotsCount    int `json:"slots" yaml:"slots"`
	Score         int `json:"score" yaml:"score"`
	MaxScore      int `json:"max_score" yaml:"max_score"`
	FirstChoices  int `json:"first_choices" yaml:"first_choices"`
	Unranked      int `json:"unranked" yaml:"unranked"`
}
