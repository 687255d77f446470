// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ident

import "strings"

type foldUnifier struct {
	exact     map[string]bool
	canonical map[string]string
}

// FoldUnifier matches IDs to canonical ones ignoring case and surrounding
// space. An exact canonical spelling always resolves to itself; when
// several canonical IDs fold alike, other spellings go to the first.
// Unknown IDs come back trimmed but otherwise untouched.
func FoldUnifier(canonical []string) Unifier {
	u := foldUnifier{
		exact:     make(map[string]bool, len(canonical)),
		canonical: make(map[string]string, len(canonical)),
	}
	for _, id := range canonical {
		u.exact[id] = true
		if _, ok := u.canonical[Fold(id)]; !ok {
			u.canonical[Fold(id)] = id
		}
	}
	return u
}

func (u foldUnifier) Unify(id string) string {
	trimmed := strings.TrimSpace(id)
	if u.exact[trimmed] {
		return trimmed
	}
	if c, ok := u.canonical[Fold(id)]; ok {
		return c
	}
	return trimmed
}

// Fold is the key two IDs share when they differ only in case or
// surrounding space.
func Fold(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// UnifyAll maps every ID through u.
func UnifyAll(u Unifier, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = u.Unify(id)
	}
	return out
}
