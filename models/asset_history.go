// models/asset_history.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// History event types. One event is written per changed field, never one
// combined event per update: timeline views filter by individual event.
const (
	EventRepair       = "Repair"
	EventMove         = "Move"
	EventCalibration  = "Calibration"
	EventStatusChange = "StatusChange"
	EventPM           = "PM"
	EventComplaint    = "Complaint"
)

// AssetHistory is append-only: events are never mutated or deleted.
type AssetHistory struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID     string             `bson:"assetId" json:"assetId"`
	EventType   string             `bson:"eventType" json:"eventType"`
	Field       string             `bson:"field,omitempty" json:"field,omitempty"`
	OldValue    interface{}        `bson:"oldValue,omitempty" json:"oldValue,omitempty"`
	NewValue    interface{}        `bson:"newValue,omitempty" json:"newValue,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	PerformedBy string             `bson:"performedBy,omitempty" json:"performedBy,omitempty"`
	Metadata    bson.M             `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
