package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContractValidateDates(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		end     time.Time
		wantErr error
	}{
		{"end after start", start.AddDate(1, 0, 0), nil},
		{"end equals start", start, ErrContractDates},
		{"end before start", start.AddDate(0, 0, -1), ErrContractDates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Contract{Vendor: "Medtronic", Type: ContractTypeAMC, StartDate: start, EndDate: tt.end}
			err := c.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestContractValidateTypeAndVendor(t *testing.T) {
	start := time.Now()
	end := start.AddDate(1, 0, 0)

	c := Contract{Vendor: "", Type: ContractTypeCMC, StartDate: start, EndDate: end}
	assert.Error(t, c.Validate())

	c = Contract{Vendor: "GE Healthcare", Type: "Lease", StartDate: start, EndDate: end}
	assert.Error(t, c.Validate())

	c = Contract{Vendor: "GE Healthcare", Type: ContractTypeWarranty, StartDate: start, EndDate: end, Value: -1}
	assert.Error(t, c.Validate())
}

func TestContractApplyDefaults(t *testing.T) {
	end := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	c := Contract{EndDate: end}
	c.ApplyDefaults()

	assert.Equal(t, end.AddDate(0, 0, -30), c.RenewalDate)
	assert.Equal(t, ContractActive, c.Status)
	assert.NotNil(t, c.AssetIDs)

	// explicit values survive
	explicit := Contract{EndDate: end, RenewalDate: end.AddDate(0, -2, 0), Status: ContractRenewed}
	explicit.ApplyDefaults()
	assert.Equal(t, end.AddDate(0, -2, 0), explicit.RenewalDate)
	assert.Equal(t, ContractRenewed, explicit.Status)
}

func TestContractEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	active := Contract{Status: ContractActive, EndDate: now.AddDate(0, 1, 0)}
	assert.Equal(t, ContractActive, active.EffectiveStatus(now))

	lapsed := Contract{Status: ContractActive, EndDate: now.AddDate(0, -1, 0)}
	assert.Equal(t, ContractExpired, lapsed.EffectiveStatus(now))

	// only Active degrades
	cancelled := Contract{Status: ContractCancelled, EndDate: now.AddDate(0, -1, 0)}
	assert.Equal(t, ContractCancelled, cancelled.EffectiveStatus(now))
}
