package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovementTypeValid(t *testing.T) {
	assert.True(t, MovementIn.Valid())
	assert.True(t, MovementOut.Valid())
	assert.False(t, MovementType("sideways").Valid())
	assert.False(t, MovementType("").Valid())
}

func TestMovementDelta(t *testing.T) {
	testCases := []struct {
		name     string
		movement MovementType
		quantity int64
		delta    int64
	}{
		{"in adds", MovementIn, 10, 10},
		{"out subtracts", MovementOut, 10, -10},
		{"in single unit", MovementIn, 1, 1},
		{"out single unit", MovementOut, 1, -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.delta, tc.movement.Delta(tc.quantity))
			assert.Equal(t, -tc.delta, tc.movement.ReverseDelta(tc.quantity))
		})
	}
}

// Replaying any sequence of movements and reversals must leave the stock
// equal to the signed sum of the entries still present.
func TestLedgerReplayConsistency(t *testing.T) {
	type step struct {
		movement MovementType
		quantity int64
	}

	steps := []step{
		{MovementIn, 5},
		{MovementOut, 2},
		{MovementIn, 7},
		{MovementOut, 3},
		{MovementIn, 1},
	}

	var stock int64
	var entries []step
	for _, s := range steps {
		stock += s.movement.Delta(s.quantity)
		entries = append(entries, s)
	}
	assert.Equal(t, int64(8), stock)

	// Reverse the entries one by one, newest first.
	for len(entries) > 0 {
		last := entries[len(entries)-1]
		stock += last.movement.ReverseDelta(last.quantity)
		entries = entries[:len(entries)-1]

		var expected int64
		for _, e := range entries {
			expected += e.movement.Delta(e.quantity)
		}
		assert.Equal(t, expected, stock)
	}

	assert.Equal(t, int64(0), stock)
}
