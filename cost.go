// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kmmatch

// CostMatrix is a dense row-major matrix, rows are requesters and
// columns are slots.
type CostMatrix struct {
	Rows int
	Cols int
	data []int
}

func NewCostMatrix(rows, cols int) CostMatrix {
	return CostMatrix{Rows: rows, Cols: cols, data: make([]int, rows*cols)}
}

func (c CostMatrix) At(i, j int) int {
	return c.data[i*c.Cols+j]
}

func (c CostMatrix) Set(i, j, v int) {
	c.data[i*c.Cols+j] = v
}

// UnrankedCost is the cost of a resource absent from a preference list.
// Ranks never exceed resourceCount-1, so it is never reachable by a rank.
func UnrankedCost(resourceCount int) int {
	return 3 * resourceCount
}

// rankTable maps resource index to zero-based rank, -1 if unranked.
// Duplicates keep their first position, unknown IDs are skipped.
func rankTable(prefs []string, index map[string]int, count int) []int {
	ranks := make([]int, count)
	for i := range ranks {
		ranks[i] = -1
	}
	for rank, id := range prefs {
		if r, ok := index[id]; ok && ranks[r] < 0 {
			ranks[r] = rank
		}
	}
	return ranks
}

func resourceIndex(resources []Resource) map[string]int {
	index := make(map[string]int, len(resources))
	for i, r := range resources {
		if _, ok := index[r.ID]; !ok {
			index[r.ID] = i
		}
	}
	return index
}

// rankTables holds one rankTable per requester.
func rankTables(requesters []Requester, resources []Resource) [][]int {
	index := resourceIndex(resources)
	tables := make([][]int, len(requesters))
	for i, req := range requesters {
		tables[i] = rankTable(req.Preferences, index, len(resources))
	}
	return tables
}

// BuildCostMatrix prices every (requester, slot) cell with the rank of the
// slot's resource in the requester's preferences, or UnrankedCost.
func BuildCostMatrix(requesters []Requester, resources []Resource, slots []Slot) CostMatrix {
	return buildCostMatrix(rankTables(requesters, resources), len(resources), slots)
}

func buildCostMatrix(ranks [][]int, resourceCount int, slots []Slot) CostMatrix {
	unranked := UnrankedCost(resourceCount)

	cost := NewCostMatrix(len(ranks), len(slots))
	for i, table := range ranks {
		for j, slot := range slots {
			c := unranked
			if rank := table[slot.Resource]; rank >= 0 {
				c = rank
			}
			cost.Set(i, j, c)
		}
	}
	return cost
}
