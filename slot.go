// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kmmatch

import "fmt"

// ExpandSlots emits one slot per unit of capacity, in resource order.
// Zero-capacity resources emit nothing.
func ExpandSlots(resources []Resource) ([]Slot, error) {
	total := 0
	for _, r := range resources {
		if r.Cap < 0 {
			return nil, fmt.Errorf("%w: resource %q has capacity %d", ErrInvalidCapacity, r.ID, r.Cap)
		}
		total += r.Cap
	}

	slots := make([]Slot, 0, total)
	for i, r := range resources {
		for k := 1; k <= r.Cap; k++ {
			slots = append(slots, Slot{Resource: i, Index: k})
		}
	}
	return slots, nil
}
