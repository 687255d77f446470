// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clinic

import (
	"fmt"

	"github.com/someonegg/kmmatch"
	"github.com/someonegg/kmmatch/ident"
	"github.com/someonegg/kmmatch/internal/logging"
)

func (m *Matcher) init() {
	if m.Strategy == nil {
		m.strategy = DefaultStrategy
	} else {
		m.strategy = *m.Strategy
	}

	if m.StrictPrefs == nil {
		m.strict = DefaultStrictPrefs
	} else {
		m.strict = *m.StrictPrefs
	}
}

func (m *Matcher) matcher() (kmmatch.Matcher, error) {
	opts := kmmatch.Options{
		Strict:   m.strict,
		Logger:   m.Logger,
		Observer: m.Observer,
	}
	switch m.strategy {
	case kmmatch.StrategyOptimal:
		return kmmatch.OptimalMatcher(opts), nil
	case kmmatch.StrategyGreedy:
		return kmmatch.GreedyMatcher(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, m.strategy)
	}
}

// Match places every patient with a doctor. Preferences may spell doctors
// loosely: case and surrounding space are ignored and declared aliases
// are resolved.
func (m *Matcher) Match(patients []*Patient, doctors []*Doctor) (allocs []*Alloc, explains []*Explanation, summary Summary, err error) {
	m.init()

	km, err := m.matcher()
	if err != nil {
		return nil, nil, Summary{}, err
	}

	unifier, err := genUnifier(doctors)
	if err != nil {
		return nil, nil, Summary{}, err
	}

	resources, slots := genResources(doctors)
	requesters := m.genRequesters(unifier, patients, resources)

	if m.Verbose {
		m.Logger.Info("matching", "strategy", m.strategy,
			"patients", len(requesters), "doctors", len(resources), "slots", slots)
	}

	res, err := km.Match(requesters, resources)
	if err != nil {
		return nil, nil, Summary{}, err
	}

	summary = Summary{
		PatientsCount: len(requesters),
		DoctorsCount:  len(resources),
		SlotsCount:    slots,
		Score:         res.Score,
		MaxScore:      res.MaxScore,
	}

	explains = make([]*Explanation, len(res.Assignments))
	for i, a := range res.Assignments {
		explains[i] = &Explanation{
			Patient: a.RequesterID,
			Doctor:  a.ResourceID,
			Rank:    a.Rank,
			Ranked:  a.Ranked,
			Score:   a.Score,
		}
		switch {
		case !a.Ranked:
			summary.Unranked++
		case a.Rank == 1:
			summary.FirstChoices++
		}
		if m.Verbose {
			m.Logger.Info("assign", "patient", a.RequesterID, "doctor", a.ResourceID,
				"rank", a.Rank, "ranked", a.Ranked, "score", a.Score)
		}
	}

	return genAllocs(doctors, res), explains, summary, nil
}

func genUnifier(doctors []*Doctor) (ident.Unifier, error) {
	names := make([]string, len(doctors))
	folded := make(map[string]bool, len(doctors))
	for i, doctor := range doctors {
		names[i] = doctor.Name
		folded[ident.Fold(doctor.Name)] = true
	}

	var records []ident.AliasRecord
	for _, doctor := range doctors {
		for _, alias := range doctor.Aliases {
			// An alias must not shadow any doctor's own name.
			if folded[ident.Fold(alias)] {
				return nil, fmt.Errorf("%w: %q", ident.ErrRepeatedAlias, alias)
			}
			records = append(records, ident.AliasRecord{Alias: alias, Target: doctor.Name})
		}
	}
	return ident.NewAliasUnifier(ident.FoldUnifier(names), records)
}

func genResources(doctors []*Doctor) ([]kmmatch.Resource, int) {
	var slots int

	resources := make([]kmmatch.Resource, len(doctors))

	for i, doctor := range doctors {
		resources[i].ID = doctor.Name
		resources[i].Cap = doctor.Capacity
		resources[i].Info = doctor
		if doctor.Capacity > 0 {
			slots += doctor.Capacity
		}
	}

	return resources, slots
}

func (m *Matcher) genRequesters(unifier ident.Unifier, patients []*Patient, resources []kmmatch.Resource) []kmmatch.Requester {
	known := make(map[string]bool, len(resources))
	for _, r := range resources {
		known[r.ID] = true
	}

	requesters := make([]kmmatch.Requester, len(patients))

	for i, patient := range patients {
		requesters[i].ID = patient.Name
		requesters[i].Preferences = ident.UnifyAll(unifier, patient.Prefs)
		requesters[i].Info = patient
		for _, id := range requesters[i].Preferences {
			if !known[id] {
				m.Logger.V(logging.DEBUG).Info("unknown doctor in preferences", "patient", patient.Name, "doctor", id)
			}
		}
	}

	return requesters
}

func genAllocs(doctors []*Doctor, res *kmmatch.Result) []*Alloc {
	allocs := make([]*Alloc, len(doctors))

	for i, doctor := range doctors {
		allocs[i] = &Alloc{
			Doctor:   doctor.Name,
			Capacity: doctor.Capacity,
			Patients: res.Allocation[doctor.Name],
		}
	}

	return allocs
}
