// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package random provides the injectable pseudo-random source used for
// template choice, title phrases, and slug suffixes.
package random

import (
	"math/rand/v2"
)

// Source draws integers in [0, n). Implementations are not required to be
// safe for concurrent use.
type Source interface {
	IntN(n int) int
}

// New returns a Source. A zero seed draws from the process-wide generator,
// so runs are not reproducible; any other seed yields a deterministic PCG
// stream.
func New(seed uint64) Source {
	if seed == 0 {
		return global{}
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type global struct{}

func (global) IntN(n int) int { return rand.IntN(n) }

// Scripted replays a fixed list of values, cycling when exhausted. Each
// value is reduced modulo n so a script can be shared across draws with
// different bounds. It is meant for tests that need to force specific
// choices.
type Scripted struct {
	Values []int
	next   int
}

// NewScripted returns a Scripted source over values.
func NewScripted(values ...int) *Scripted {
	return &Scripted{Values: values}
}

// IntN returns the next scripted value modulo n.
func (s *Scripted) IntN(n int) int {
	if n <= 0 {
		panic("random: IntN called with n <= 0")
	}
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Draws returns how many values have been consumed.
func (s *Scripted) Draws() int {
	return s.next
}
