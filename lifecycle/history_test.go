package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bmeams/models"
)

func TestTrackUpdatePerFieldFanOut(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	changes := map[string]FieldChange{
		"status":   {Old: "Active", New: "Breakdown"},
		"location": {Old: "R1", New: "R2"},
	}

	events := TrackUpdate("BME-001", changes, "jdoe", now)
	require.Len(t, events, 2)

	byField := map[string]models.AssetHistory{}
	for _, e := range events {
		byField[e.Field] = e
	}

	status := byField["status"]
	assert.Equal(t, models.EventStatusChange, status.EventType)
	assert.Equal(t, "Active", status.OldValue)
	assert.Equal(t, "Breakdown", status.NewValue)
	assert.Equal(t, "jdoe", status.PerformedBy)
	assert.Equal(t, now, status.CreatedAt)

	move := byField["location"]
	assert.Equal(t, models.EventMove, move.EventType)
	assert.Equal(t, "R1", move.OldValue)
	assert.Equal(t, "R2", move.NewValue)
}

func TestTrackUpdateSkipsUnchangedFields(t *testing.T) {
	changes := map[string]FieldChange{
		"status":     {Old: "Active", New: "Active"},
		"department": {Old: "ICU", New: "OT"},
	}

	events := TrackUpdate("BME-002", changes, "jdoe", time.Now())
	require.Len(t, events, 1)
	assert.Equal(t, "department", events[0].Field)
	assert.Equal(t, models.EventMove, events[0].EventType)
}

func TestEventTypeForField(t *testing.T) {
	assert.Equal(t, models.EventMove, EventTypeForField("location"))
	assert.Equal(t, models.EventMove, EventTypeForField("department"))
	assert.Equal(t, models.EventStatusChange, EventTypeForField("status"))
	assert.Equal(t, models.EventStatusChange, EventTypeForField("lifecycleState"))
	assert.Equal(t, models.EventStatusChange, EventTypeForField("value"))
}

func TestTransitionEvent(t *testing.T) {
	now := time.Now()
	e := TransitionEvent("BME-003", StateActive, StateInService, "tech01", now)

	assert.Equal(t, "BME-003", e.AssetID)
	assert.Equal(t, models.EventStatusChange, e.EventType)
	assert.Equal(t, StateActive, e.OldValue)
	assert.Equal(t, StateInService, e.NewValue)
	assert.Equal(t, "tech01", e.PerformedBy)
	assert.Contains(t, e.Description, "Active")
	assert.Contains(t, e.Description, "In-Service")
}
