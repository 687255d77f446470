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

type greedyMatcher struct {
	opts Options
}

// GreedyMatcher returns a Matcher that hands out the cheapest
// (requester, resource) pairs first. It is fast but not optimal; its score
// never exceeds OptimalMatcher's on the same input.
func GreedyMatcher(opts Options) Matcher {
	return greedyMatcher{opts}
}

type greedyAffinity struct {
	requester int
	resource  int
	cost      int
}

func (m greedyMatcher) Match(requesters []Requester, resources []Resource) (result *Result, err error) {
	start := time.Now()
	defer func() {
		if m.opts.Observer != nil {
			m.opts.Observer.ObserveMatch(StrategyGreedy, result, err, time.Since(start))
		}
	}()

	p, err := prepare(requesters, resources, m.opts.Strict)
	if err != nil {
		return nil, err
	}

	log := m.opts.Logger.WithValues("strategy", StrategyGreedy)

	// first slot column of each resource
	offset := make([]int, len(resources))
	for j := len(p.slots) - 1; j >= 0; j-- {
		offset[p.slots[j].Resource] = j
	}

	al := make([]greedyAffinity, 0, len(requesters)*len(resources))
	for i := range requesters {
		for r := range resources {
			if resources[r].Cap == 0 {
				continue
			}
			al = append(al, greedyAffinity{
				requester: i,
				resource:  r,
				cost:      p.cost.At(i, offset[r]),
			})
		}
	}

	sort.SliceStable(al, func(i, j int) bool {
		return al[i].cost < al[j].cost ||
			al[i].cost == al[j].cost && al[i].requester < al[j].requester
	})

	pairing := make(Pairing, len(requesters))
	for i := range pairing {
		pairing[i] = -1
	}
	taken := make([]int, len(resources))
	done := 0

	for _, a := range al {
		if done == len(requesters) {
			break
		}
		if pairing[a.requester] >= 0 || taken[a.resource] >= resources[a.resource].Cap {
			continue
		}
		pairing[a.requester] = offset[a.resource] + taken[a.resource]
		taken[a.resource]++
		done++

		log.V(logging.TRACE).Info("assign",
			"requester", requesters[a.requester].ID,
			"resource", resources[a.resource].ID,
			"cost", a.cost)
	}

	if done < len(requesters) {
		return nil, fmt.Errorf("%w: %d of %d requesters placed", ErrInfeasibleCapacity, done, len(requesters))
	}

	result = p.extract(pairing)
	log.V(logging.DEBUG).Info("solved", "score", result.Score, "maxScore", result.MaxScore, "elapsed", time.Since(start))
	return result, nil
}
