package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAge(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("nil purchase date", func(t *testing.T) {
		assert.Zero(t, Age(nil, now))
	})

	t.Run("future purchase date", func(t *testing.T) {
		future := now.Add(24 * time.Hour)
		assert.Zero(t, Age(&future, now))
	})

	t.Run("five years old", func(t *testing.T) {
		purchased := now.AddDate(-5, 0, 0)
		got := Age(&purchased, now)
		assert.InDelta(t, 5.0, got, 0.01)
	})

	t.Run("rounded to two decimals", func(t *testing.T) {
		purchased := now.Add(-400 * 24 * time.Hour)
		got := Age(&purchased, now)
		assert.Equal(t, 1.1, got)
	})

	t.Run("monotonically non-decreasing over time", func(t *testing.T) {
		purchased := now.AddDate(-2, 0, 0)
		prev := Age(&purchased, now)
		for i := 1; i <= 10; i++ {
			cur := Age(&purchased, now.AddDate(0, i, 0))
			assert.GreaterOrEqual(t, cur, prev)
			prev = cur
		}
	})
}

func TestServiceCostRatio(t *testing.T) {
	assert.Zero(t, ServiceCostRatio(1000, 0))
	assert.Zero(t, ServiceCostRatio(1000, -5))
	assert.Equal(t, 0.5, ServiceCostRatio(500, 1000))
	assert.Equal(t, 2.0, ServiceCostRatio(2000, 1000))
}
