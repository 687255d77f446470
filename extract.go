// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kmmatch

// Extract maps a pairing back onto resource identities. Each pair scores
// len(resources) minus its cost; the result's Score is their sum.
func Extract(requesters []Requester, resources []Resource, slots []Slot, cost CostMatrix, pairing Pairing) *Result {
	return extract(requesters, resources, slots, cost, rankTables(requesters, resources), pairing)
}

// extract is Extract over rank tables the caller already built.
func extract(requesters []Requester, resources []Resource, slots []Slot, cost CostMatrix, ranks [][]int, pairing Pairing) *Result {
	top := len(resources)

	res := &Result{
		Allocation:  make(Allocation, len(resources)),
		MaxScore:    top * len(requesters),
		Assignments: make([]Assignment, len(pairing)),
	}
	for _, r := range resources {
		res.Allocation[r.ID] = []string{}
	}

	for i, j := range pairing {
		req := &requesters[i]
		slot := slots[j]
		resource := resources[slot.Resource].ID

		res.Allocation[resource] = append(res.Allocation[resource], req.ID)

		c := cost.At(i, j)
		a := Assignment{
			RequesterID: req.ID,
			ResourceID:  resource,
			Slot:        slot,
			Cost:        c,
			Score:       top - c,
		}
		if rank := ranks[i][slot.Resource]; rank >= 0 {
			a.Rank, a.Ranked = rank+1, true
		}
		res.Assignments[i] = a
		res.Score += a.Score
	}

	return res
}
