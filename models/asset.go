// models/asset.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Operational status values (day-to-day), distinct from LifecycleState.
const (
	StatusActive       = "Active"
	StatusMaintenance  = "Maintenance"
	StatusBreakdown    = "Breakdown"
	StatusCondemned    = "Condemned"
	StatusStandby      = "Standby"
	StatusInService    = "In-Service"
	StatusSpare        = "Spare"
	StatusDisposed     = "Disposed"
	StatusDemo         = "Demo"
	StatusUnderService = "Under-Service"
)

type Asset struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID      string             `bson:"assetId" json:"assetId"` // external id, unique
	Name         string             `bson:"name" json:"name"`
	Model        string             `bson:"model,omitempty" json:"model,omitempty"`
	Manufacturer string             `bson:"manufacturer,omitempty" json:"manufacturer,omitempty"`
	// SerialNumber must be fully unset when unknown: the unique index is
	// partial and ignores absent values but not null or "".
	SerialNumber string `bson:"serialNumber,omitempty" json:"serialNumber,omitempty"`
	FARNumber    string `bson:"farNumber,omitempty" json:"farNumber,omitempty"`
	Department   string `bson:"department,omitempty" json:"department,omitempty"`
	Location     string `bson:"location,omitempty" json:"location,omitempty"`
	Status       string `bson:"status" json:"status"`

	LifecycleState         string  `bson:"lifecycleState" json:"lifecycleState"`
	AgeYears               float64 `bson:"ageYears,omitempty" json:"ageYears,omitempty"`
	TotalDowntimeHours     float64 `bson:"totalDowntimeHours,omitempty" json:"totalDowntimeHours,omitempty"`
	TotalServiceCost       float64 `bson:"totalServiceCost,omitempty" json:"totalServiceCost,omitempty"`
	UtilizationPercentage  float64 `bson:"utilizationPercentage,omitempty" json:"utilizationPercentage,omitempty"`
	ReplacementRecommended bool    `bson:"replacementRecommended,omitempty" json:"replacementRecommended"`
	ReplacementReason      string  `bson:"replacementReason,omitempty" json:"replacementReason,omitempty"`

	Value          float64                `bson:"value,omitempty" json:"value,omitempty"`
	Specifications map[string]interface{} `bson:"specifications,omitempty" json:"specifications,omitempty"`

	PurchaseDate        *time.Time `bson:"purchaseDate,omitempty" json:"purchaseDate,omitempty"`
	InstallationDate    *time.Time `bson:"installationDate,omitempty" json:"installationDate,omitempty"`
	CommissioningDate   *time.Time `bson:"commissioningDate,omitempty" json:"commissioningDate,omitempty"`
	WarrantyExpiry      *time.Time `bson:"warrantyExpiry,omitempty" json:"warrantyExpiry,omitempty"`
	AMCExpiry           *time.Time `bson:"amcExpiry,omitempty" json:"amcExpiry,omitempty"`
	NextPMDate          *time.Time `bson:"nextPmDate,omitempty" json:"nextPmDate,omitempty"`
	NextCalibrationDate *time.Time `bson:"nextCalibrationDate,omitempty" json:"nextCalibrationDate,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AssetRef is the fixed read-only projection merged onto relational records
// by cross-store enrichment.
type AssetRef struct {
	AssetID      string `bson:"assetId" json:"assetId"`
	Name         string `bson:"name" json:"name"`
	Model        string `bson:"model,omitempty" json:"model,omitempty"`
	Manufacturer string `bson:"manufacturer,omitempty" json:"manufacturer,omitempty"`
	Department   string `bson:"department,omitempty" json:"department,omitempty"`
	Location     string `bson:"location,omitempty" json:"location,omitempty"`
	Status       string `bson:"status" json:"status"`
}
