// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kmmatch

import (
	"fmt"
	"sort"
	"time"

	"github.com/someonegg/kmmatch/internal/logging"
)

const (
	StrategyOptimal = "optimal"
	StrategyGreedy  = "greedy"
)

// problem is a validated input with its slots, per-requester rank tables
// and cost matrix.
type problem struct {
	requesters []Requester
	resources  []Resource
	slots      []Slot
	ranks      [][]int
	cost       CostMatrix
}

func prepare(requesters []Requester, resources []Resource, strict bool) (*problem, error) {
	seen := make(map[string]bool, len(requesters))
	for _, req := range requesters {
		if seen[req.ID] {
			return nil, fmt.Errorf("%w: requester %q", ErrDuplicateID, req.ID)
		}
		seen[req.ID] = true
	}
	index := make(map[string]bool, len(resources))
	for _, r := range resources {
		if index[r.ID] {
			return nil, fmt.Errorf("%w: resource %q", ErrDuplicateID, r.ID)
		}
		index[r.ID] = true
	}

	slots, err := ExpandSlots(resources)
	if err != nil {
		return nil, err
	}
	if len(slots) < len(requesters) {
		return nil, fmt.Errorf("%w: %d slots for %d requesters", ErrInfeasibleCapacity, len(slots), len(requesters))
	}

	if strict {
		for _, req := range requesters {
			for _, id := range req.Preferences {
				if !index[id] {
					return nil, fmt.Errorf("%w: requester %q prefers unknown resource %q", ErrMalformedPreference, req.ID, id)
				}
			}
		}
	}

	ranks := rankTables(requesters, resources)
	return &problem{
		requesters: requesters,
		resources:  resources,
		slots:      slots,
		ranks:      ranks,
		cost:       buildCostMatrix(ranks, len(resources), slots),
	}, nil
}

func (p *problem) extract(pairing Pairing) *Result {
	return extract(p.requesters, p.resources, p.slots, p.cost, p.ranks, pairing)
}

type optimalMatcher struct {
	opts Options
}

// OptimalMatcher returns a Matcher whose results have the highest
// possible total score.
func OptimalMatcher(opts Options) Matcher {
	return optimalMatcher{opts}
}

func (m optimalMatcher) Match(requesters []Requester, resources []Resource) (result *Result, err error) {
	start := time.Now()
	defer func() {
		if m.opts.Observer != nil {
			m.opts.Observer.ObserveMatch(StrategyOptimal, result, err, time.Since(start))
		}
	}()

	p, err := prepare(requesters, resources, m.opts.Strict)
	if err != nil {
		return nil, err
	}

	log := m.opts.Logger.WithValues("strategy", StrategyOptimal)
	log.V(logging.DEBUG).Info("solving", "requesters", len(requesters), "resources", len(resources), "slots", len(p.slots))

	pairing, err := Solve(p.cost)
	if err != nil {
		return nil, err
	}

	result = p.extract(pairing)
	log.V(logging.DEBUG).Info("solved", "score", result.Score, "maxScore", result.MaxScore, "elapsed", time.Since(start))
	return result, nil
}

// MatchMaps runs m over map-shaped input. IDs are sorted so that the
// outcome does not depend on map iteration order.
func MatchMaps(m Matcher, prefs map[string][]string, caps map[string]int) (*Result, error) {
	requesters := make([]Requester, 0, len(prefs))
	for id, p := range prefs {
		requesters = append(requesters, Requester{ID: id, Preferences: p})
	}
	sort.Slice(requesters, func(i, j int) bool {
		return requesters[i].ID < requesters[j].ID
	})

	resources := make([]Resource, 0, len(caps))
	for id, c := range caps {
		resources = append(resources, Resource{ID: id, Cap: c})
	}
	sort.Slice(resources, func(i, j int) bool {
		return resources[i].ID < resources[j].ID
	})

	return m.Match(requesters, resources)
}
