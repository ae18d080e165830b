// models/contract.go
package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ContractTypeAMC      = "AMC"
	ContractTypeCMC      = "CMC"
	ContractTypeWarranty = "Warranty"
	ContractTypeService  = "Service"

	ContractActive    = "Active"
	ContractExpired   = "Expired"
	ContractRenewed   = "Renewed"
	ContractCancelled = "Cancelled"
)

type Contract struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Vendor      string             `bson:"vendor" json:"vendor"`
	Type        string             `bson:"type" json:"type"`
	AssetIDs    []string           `bson:"assetIds,omitempty" json:"assetIds"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	EndDate     time.Time          `bson:"endDate" json:"endDate"`
	RenewalDate time.Time          `bson:"renewalDate" json:"renewalDate"`
	Value       float64            `bson:"value,omitempty" json:"value,omitempty"`
	Status      string             `bson:"status" json:"status"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

var ErrContractDates = errors.New("contract end date must be after start date")

// Validate enforces the date-range invariant and a known contract type.
func (c *Contract) Validate() error {
	if c.Vendor == "" {
		return errors.New("contract vendor is required")
	}
	switch c.Type {
	case ContractTypeAMC, ContractTypeCMC, ContractTypeWarranty, ContractTypeService:
	default:
		return errors.New("unknown contract type: " + c.Type)
	}
	if !c.EndDate.After(c.StartDate) {
		return ErrContractDates
	}
	if c.Value < 0 {
		return errors.New("contract value cannot be negative")
	}
	return nil
}

// ApplyDefaults fills the renewal date (30 days before end) and initial
// status when the caller left them empty.
func (c *Contract) ApplyDefaults() {
	if c.RenewalDate.IsZero() {
		c.RenewalDate = c.EndDate.AddDate(0, 0, -30)
	}
	if c.Status == "" {
		c.Status = ContractActive
	}
	if c.AssetIDs == nil {
		c.AssetIDs = []string{}
	}
}

// EffectiveStatus degrades Active to Expired once the end date has passed.
func (c *Contract) EffectiveStatus(now time.Time) string {
	if c.Status == ContractActive && now.After(c.EndDate) {
		return ContractExpired
	}
	return c.Status
}

