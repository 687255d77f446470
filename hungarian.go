// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kmmatch

import (
	"fmt"
	"math"
)

// Solve finds a minimum-cost pairing that matches every row of cost to a
// distinct column. It needs at least as many columns as rows.
//
// This is the shortest augmenting path form of Kuhn-Munkres with row and
// column potentials, O(rows²·cols). Rows are added one at a time; columns
// are scanned in index order, so among equally cheap columns the lowest
// index wins and the result is reproducible.
func Solve(cost CostMatrix) (Pairing, error) {
	n, m := cost.Rows, cost.Cols
	if m < n {
		return nil, fmt.Errorf("%w: %d slots for %d requesters", ErrInfeasibleCapacity, m, n)
	}
	if n == 0 {
		return Pairing{}, nil
	}

	// 1-indexed; column 0 is the virtual root of each search.
	const inf = math.MaxInt
	u := make([]int, n+1)    // row potentials
	v := make([]int, m+1)    // column potentials
	p := make([]int, m+1)    // p[j] = row matched to column j, 0 if free
	way := make([]int, m+1)  // way[j] = previous column on the path
	minv := make([]int, m+1) // cheapest reduced cost reaching column j
	used := make([]bool, m+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := 0; j <= m; j++ {
			minv[j] = inf
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta, j1 := inf, 0

			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost.At(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		// Flip the alternating path back to the root.
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	pairing := make(Pairing, n)
	for j := 1; j <= m; j++ {
		if p[j] != 0 {
			pairing[p[j]-1] = j - 1
		}
	}
	return pairing, nil
}

// Cost sums the cost of every matched cell.
func (p Pairing) Cost(cost CostMatrix) int {
	sum := 0
	for i, j := range p {
		sum += cost.At(i, j)
	}
	return sum
}
