// lifecycle/history.go
package lifecycle

import (
	"fmt"
	"reflect"
	"time"

	"bmeams/models"
)

// FieldChange is one field's before/after pair inside an update.
type FieldChange struct {
	Old interface{}
	New interface{}
}

// EventTypeForField classifies a changed field into a history event type:
// location and department moves are Move, everything else (including status
// and lifecycleState) is StatusChange.
func EventTypeForField(field string) string {
	switch field {
	case "location", "department":
		return models.EventMove
	default:
		return models.EventStatusChange
	}
}

// TrackUpdate builds one history event per genuinely changed field. Fields
// whose old and new values are equal produce nothing. The per-field fan-out
// is deliberate: timeline views group and filter by individual event, not by
// update transaction.
func TrackUpdate(assetID string, changes map[string]FieldChange, actor string, now time.Time) []models.AssetHistory {
	var events []models.AssetHistory
	for field, ch := range changes {
		if reflect.DeepEqual(ch.Old, ch.New) {
			continue
		}
		events = append(events, models.AssetHistory{
			AssetID:     assetID,
			EventType:   EventTypeForField(field),
			Field:       field,
			OldValue:    ch.Old,
			NewValue:    ch.New,
			Description: fmt.Sprintf("%s changed from %v to %v", field, ch.Old, ch.New),
			PerformedBy: actor,
			CreatedAt:   now,
		})
	}
	return events
}

// TransitionEvent is the single StatusChange event emitted by a successful
// lifecycle transition.
func TransitionEvent(assetID, from, to, actor string, now time.Time) models.AssetHistory {
	return models.AssetHistory{
		AssetID:     assetID,
		EventType:   models.EventStatusChange,
		Field:       "lifecycleState",
		OldValue:    from,
		NewValue:    to,
		Description: fmt.Sprintf("lifecycleState changed from %s to %s", from, to),
		PerformedBy: actor,
		CreatedAt:   now,
	}
}
