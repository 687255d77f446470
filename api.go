// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kmmatch assigns requesters to capacity-bearing resources so that
// the total preference satisfaction is maximal.
//
// Each resource's capacity is expanded into unit slots, the requesters'
// ranked preferences become a cost matrix over those slots, and the
// rectangular assignment problem is solved with the Kuhn-Munkres
// (Hungarian) algorithm.
package kmmatch

import (
	"errors"
	"time"

	"github.com/go-logr/logr"
)

var (
	// ErrInvalidCapacity is returned when a resource declares a negative capacity.
	ErrInvalidCapacity = errors.New("invalid capacity")
	// ErrInfeasibleCapacity is returned when there are fewer slots than requesters.
	ErrInfeasibleCapacity = errors.New("infeasible capacity")
	// ErrMalformedPreference is returned in strict mode when a preference
	// names an unknown resource.
	ErrMalformedPreference = errors.New("malformed preference")
	// ErrDuplicateID is returned when two requesters or two resources share an ID.
	ErrDuplicateID = errors.New("duplicate id")
)

type Matcher interface {
	Match(requesters []Requester, resources []Resource) (*Result, error)
}

type Requester struct {
	ID          string
	Preferences []string // most preferred first
	Info        interface{}
}

type Resource struct {
	ID   string
	Cap  int
	Info interface{}
}

// Slot is one unit of a resource's capacity.
type Slot struct {
	Resource int // index into the resources
	Index    int // 1-based, diagnostics only
}

// Pairing maps each requester row to its slot column.
type Pairing []int

type Allocation map[string][]string // resourceID

type Result struct {
	Allocation Allocation
	Score      int
	MaxScore   int // every requester on its first choice

	// Assignments is in requester order.
	Assignments []Assignment
}

type Assignment struct {
	RequesterID string
	ResourceID  string
	Slot        Slot
	Cost        int
	Score       int

	// Rank is the 1-based position of the resource in the requester's
	// preferences, valid only when Ranked is set.
	Rank   int
	Ranked bool
}

// Observer is notified once per Match call.
type Observer interface {
	ObserveMatch(strategy string, result *Result, err error, elapsed time.Duration)
}

type Options struct {
	// Strict rejects preferences naming unknown resources instead of
	// treating them as absent.
	Strict bool

	Logger   logr.Logger
	Observer Observer
}
