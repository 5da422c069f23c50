package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryStatusHasTransitionEntry(t *testing.T) {
	require.Len(t, AllowedTransitions, len(AllStatuses))
	for _, status := range AllStatuses {
		_, ok := AllowedTransitions[status]
		assert.True(t, ok, "status %s missing from transition table", status)
	}
}

func TestTransitionTargetsAreValidStatuses(t *testing.T) {
	for from, targets := range AllowedTransitions {
		for _, to := range targets {
			assert.True(t, IsValidStatus(to), "transition %s -> %s targets unknown status", from, to)
			assert.NotEqual(t, from, to, "transition %s -> %s is a self-loop", from, to)
		}
	}
}

func TestCanTransition(t *testing.T) {
	// Spot-check the business-critical paths
	assert.True(t, CanTransition(StatusAvailable, StatusSold))
	assert.True(t, CanTransition(StatusAvailable, StatusReserved))
	assert.True(t, CanTransition(StatusReserved, StatusAvailable))
	assert.True(t, CanTransition(StatusSold, StatusClaimed))
	assert.True(t, CanTransition(StatusSold, StatusReturned))
	assert.True(t, CanTransition(StatusInstallment, StatusSold))
	assert.True(t, CanTransition(StatusClaimed, StatusAvailable))
	assert.True(t, CanTransition(StatusDamaged, StatusMaintenance))
	assert.True(t, CanTransition(StatusMaintenance, StatusAvailable))
	assert.True(t, CanTransition(StatusTransferred, StatusAvailable))
	assert.True(t, CanTransition(StatusReturned, StatusDamaged))

	// Sold stock cannot silently reappear on the shelf
	assert.False(t, CanTransition(StatusSold, StatusAvailable))
	assert.False(t, CanTransition(StatusSold, StatusSold))
	assert.False(t, CanTransition(StatusReserved, StatusTransferred))
	assert.False(t, CanTransition(StatusTransferred, StatusSold))
}

func TestDisposedIsTerminal(t *testing.T) {
	require.True(t, IsTerminal(StatusDisposed))
	for _, to := range AllStatuses {
		assert.False(t, CanTransition(StatusDisposed, to), "disposed must not transition to %s", to)
	}

	for _, from := range AllStatuses {
		if from == StatusDisposed {
			continue
		}
		assert.False(t, IsTerminal(from), "%s should not be terminal", from)
	}
}

func TestParseUnitStatus(t *testing.T) {
	status, ok := ParseUnitStatus("available")
	require.True(t, ok)
	assert.Equal(t, StatusAvailable, status)

	_, ok = ParseUnitStatus("melted")
	assert.False(t, ok)

	_, ok = ParseUnitStatus("")
	assert.False(t, ok)

	// Status values are case sensitive on the wire
	_, ok = ParseUnitStatus("Available")
	assert.False(t, ok)
}

func TestNewStatusStatisticsZeroFilled(t *testing.T) {
	stats := NewStatusStatistics()
	require.Len(t, stats.Counts, len(AllStatuses))
	assert.Zero(t, stats.Total)
	for _, status := range AllStatuses {
		count, ok := stats.Counts[status]
		require.True(t, ok)
		assert.Zero(t, count)
	}
}
