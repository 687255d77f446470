// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ident resolves the many spellings of a resource name found in
// hand-written preference lists to one canonical ID.
package ident

import "errors"

var ErrRepeatedAlias = errors.New("repeated alias")

type Unifier interface {
	Unify(id string) string
}

type AliasRecord struct {
	Alias  string
	Target string
}
