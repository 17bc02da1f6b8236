package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{
		"Placed":      StatusPlaced,
		"in progress": StatusInProgress,
		" COMPLETED ": StatusCompleted,
		"Cancelled":   StatusCancelled,
	} {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "shipped", "canceled", "New"} {
		_, err := ParseStatus(in)
		assert.ErrorIs(t, err, ErrInvalidStatus, in)
	}
}

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]Status{
		"New":         StatusPlaced,
		"pending":     StatusPlaced,
		"open":        StatusPlaced,
		"Placed":      StatusPlaced,
		"in_progress": StatusInProgress,
		"In-Progress": StatusInProgress,
		"processing":  StatusInProgress,
		"Resolved":    StatusCompleted,
		"done":        StatusCompleted,
		"closed":      StatusCompleted,
		"canceled":    StatusCancelled,
		"Rejected":    StatusCancelled,
		"":            StatusPlaced,
		"whatever":    StatusPlaced,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeStatus(in), in)
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusPlaced.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestShortRef(t *testing.T) {
	assert.Equal(t, "89ABCDEF", ShortRef("0123456789ABCDEF"))
	assert.Equal(t, "abc", ShortRef("abc"))
	assert.Len(t, NewID(), 26)
}

func TestProductReprice(t *testing.T) {
	p := Product{Price: 1000, Discount: 10, Cost: 600}
	require.NoError(t, p.BeforeSave(nil))
	assert.InDelta(t, 900, p.FinalPrice, 0.001)
	assert.InDelta(t, 300, p.Profit, 0.001)
}
