// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSeededIsDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.IntN(1000), b.IntN(1000), "draw %d", i)
	}
}

func TestNewZeroSeedStaysInRange(t *testing.T) {
	src := New(0)
	for i := 0; i < 100; i++ {
		v := src.IntN(7)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
	}
}

func TestScripted(t *testing.T) {
	s := NewScripted(0, 5, 12)
	assert.Equal(t, 0, s.IntN(10))
	assert.Equal(t, 5, s.IntN(10))
	assert.Equal(t, 2, s.IntN(10), "values are reduced modulo n")
	assert.Equal(t, 0, s.IntN(3), "script cycles")
	assert.Equal(t, 4, s.Draws())
}

func TestScriptedEmpty(t *testing.T) {
	s := NewScripted()
	assert.Equal(t, 0, s.IntN(900))
}

func TestScriptedPanicsOnNonPositive(t *testing.T) {
	assert.Panics(t, func() { NewScripted(1).IntN(0) })
}
