// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ident

import "fmt"

type aliasUnifier struct {
	orig Unifier
	recs map[string]string
}

// NewAliasUnifier consults records before falling back to orig. Aliases
// are matched after orig's folding, so "DR1" and "dr1" hit the same
// record when orig folds case.
func NewAliasUnifier(orig Unifier, records []AliasRecord) (Unifier, error) {
	recs := make(map[string]string, len(records))
	for _, rec := range records {
		key := Fold(rec.Alias)
		if _, ok := recs[key]; ok {
			return nil, fmt.Errorf("%w: %q", ErrRepeatedAlias, rec.Alias)
		}
		recs[key] = rec.Target
	}
	return &aliasUnifier{
		orig: orig,
		recs: recs,
	}, nil
}

func (u *aliasUnifier) Unify(id string) string {
	if target, ok := u.recs[Fold(id)]; ok {
		return target
	}
	return u.orig.Unify(id)
}
