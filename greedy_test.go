// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kmmatch

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1. basic placement
func TestGreedyMatcher_Basic(t *testing.T) {
	t.Run("OneResourceOneRequester", func(t *testing.T) {
		requesters := []Requester{makeRequester("p1", "d1")}
		resources := []Resource{makeResource("d1", 1)}

		res, err := GreedyMatcher(Options{}).Match(requesters, resources)
		require.NoError(t, err)
		assert.Equal(t, Allocation{"d1": {"p1"}}, res.Allocation)
		assert.Equal(t, 1, res.Score)
	})

	t.Run("FirstChoicesFirst", func(t *testing.T) {
		requesters := []Requester{
			makeRequester("p1", "d1", "d2"),
			makeRequester("p2", "d2", "d1"),
		}
		resources := []Resource{makeResource("d1", 1), makeResource("d2", 1)}

		res, err := GreedyMatcher(Options{}).Match(requesters, resources)
		require.NoError(t, err)
		assert.Equal(t, Allocation{"d1": {"p1"}, "d2": {"p2"}}, res.Allocation)
		assert.Equal(t, 4, res.Score)
	})

	t.Run("EarlierRequesterWinsTie", func(t *testing.T) {
		requesters := []Requester{
			makeRequester("p1", "d1", "d2"),
			makeRequester("p2", "d1", "d2"),
		}
		resources := []Resource{makeResource("d1", 1), makeResource("d2", 1)}

		res, err := GreedyMatcher(Options{}).Match(requesters, resources)
		require.NoError(t, err)
		assert.Equal(t, Allocation{"d1": {"p1"}, "d2": {"p2"}}, res.Allocation)
	})

	t.Run("SharedCapacity", func(t *testing.T) {
		requesters := []Requester{
			makeRequester("p1", "d1"),
			makeRequester("p2", "d1"),
			makeRequester("p3", "d1"),
		}
		resources := []Resource{makeResource("d1", 2), makeResource("d2", 1)}

		res, err := GreedyMatcher(Options{}).Match(requesters, resources)
		require.NoError(t, err)
		if diff := cmp.Diff(Allocation{"d1": {"p1", "p2"}, "d2": {"p3"}}, res.Allocation); diff != "" {
			t.Errorf("allocation mismatch (-want +got):\n%s", diff)
		}
		assert.False(t, res.Assignments[2].Ranked)
	})
}

// 2. greedy is a lower bound of the optimum
func TestGreedyMatcher_NotBetterThanOptimal(t *testing.T) {
	t.Run("Known", func(t *testing.T) {
		// Greedy gives d1 to p1 at cost 0 and strands p2 on d2 unranked.
		requesters := []Requester{
			makeRequester("p1", "d1", "d2"),
			makeRequester("p2", "d1"),
		}
		resources := []Resource{makeResource("d1", 1), makeResource("d2", 1)}

		greedy, err := GreedyMatcher(Options{}).Match(requesters, resources)
		require.NoError(t, err)
		optimal, err := OptimalMatcher(Options{}).Match(requesters, resources)
		require.NoError(t, err)

		assert.Equal(t, 2+(2-6), greedy.Score)
		assert.Equal(t, 1+2, optimal.Score)
		assert.Equal(t, Allocation{"d1": {"p2"}, "d2": {"p1"}}, optimal.Allocation)
	})

	t.Run("Random", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		for round := 0; round < 200; round++ {
			requesters, resources := randomProblem(rng, 8)

			greedy, err := GreedyMatcher(Options{}).Match(requesters, resources)
			require.NoError(t, err)
			checkResult(t, requesters, resources, greedy)

			optimal, err := OptimalMatcher(Options{}).Match(requesters, resources)
			require.NoError(t, err)
			assert.LessOrEqual(t, greedy.Score, optimal.Score, "round %d", round)
		}
	})
}

// 3. shared validation
func TestGreedyMatcher_Errors(t *testing.T) {
	_, err := GreedyMatcher(Options{}).Match(
		[]Requester{makeRequester("p1"), makeRequester("p2")},
		[]Resource{makeResource("d1", 1), makeResource("d2", 0)})
	assert.True(t, errors.Is(err, ErrInfeasibleCapacity))

	obs := &recordingObserver{}
	_, err = GreedyMatcher(Options{Strict: true, Observer: obs}).Match(
		[]Requester{makeRequester("p1", "d9")},
		[]Resource{makeResource("d1", 1)})
	assert.True(t, errors.Is(err, ErrMalformedPreference))
	assert.Equal(t, []string{StrategyGreedy}, obs.strategies)
}
