package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bmeams/models"
)

type fakeLookup struct {
	refs    map[string]models.AssetRef
	err     error
	queries int
}

func (f *fakeLookup) FindRefs(_ context.Context, assetIDs []string) (map[string]models.AssetRef, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]models.AssetRef{}
	for _, id := range assetIDs {
		if ref, ok := f.refs[id]; ok {
			out[id] = ref
		}
	}
	return out, nil
}

func TestEnrichComplaintsBatchesLookup(t *testing.T) {
	lookup := &fakeLookup{refs: map[string]models.AssetRef{}}
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("BME-%03d", i)
		lookup.refs[id] = models.AssetRef{AssetID: id, Name: "Infusion Pump " + id, Status: "Active"}
	}

	// 50 complaints over 10 distinct assets must cost exactly one query
	complaints := make([]models.Complaint, 50)
	for i := range complaints {
		complaints[i] = models.Complaint{ID: int64(i), AssetID: fmt.Sprintf("BME-%03d", i%10)}
	}

	NewEnricher(lookup).EnrichComplaints(context.Background(), complaints)

	assert.Equal(t, 1, lookup.queries)
	for i := range complaints {
		require.NotNil(t, complaints[i].Asset, "complaint %d", i)
		assert.Equal(t, complaints[i].AssetID, complaints[i].Asset.AssetID)
	}
}

func TestEnrichMissingAssetIsNil(t *testing.T) {
	lookup := &fakeLookup{refs: map[string]models.AssetRef{
		"BME-001": {AssetID: "BME-001", Name: "Defibrillator"},
	}}

	complaints := []models.Complaint{
		{ID: 1, AssetID: "BME-001"},
		{ID: 2, AssetID: "BME-999"},
	}
	NewEnricher(lookup).EnrichComplaints(context.Background(), complaints)

	require.NotNil(t, complaints[0].Asset)
	assert.Equal(t, "Defibrillator", complaints[0].Asset.Name)
	assert.Nil(t, complaints[1].Asset)
}

func TestEnrichLookupFailureDegradesGracefully(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("mongo unreachable")}

	complaints := []models.Complaint{{ID: 1, AssetID: "BME-001"}}
	e := NewEnricher(lookup)

	assert.NotPanics(t, func() {
		e.EnrichComplaints(context.Background(), complaints)
	})
	assert.Nil(t, complaints[0].Asset)

	w := &models.WorkOrder{ID: 1, AssetID: "BME-001"}
	assert.NotPanics(t, func() {
		e.EnrichWorkOrder(context.Background(), w)
	})
	assert.Nil(t, w.Asset)
}

func TestEnrichSingleWorkOrder(t *testing.T) {
	lookup := &fakeLookup{refs: map[string]models.AssetRef{
		"BME-007": {AssetID: "BME-007", Name: "X-Ray Unit", Department: "Radiology"},
	}}

	w := &models.WorkOrder{ID: 9, AssetID: "BME-007"}
	NewEnricher(lookup).EnrichWorkOrder(context.Background(), w)

	require.NotNil(t, w.Asset)
	assert.Equal(t, "Radiology", w.Asset.Department)
}

func TestEnrichSkipsEmptyAndDuplicateIDs(t *testing.T) {
	lookup := &fakeLookup{refs: map[string]models.AssetRef{
		"BME-001": {AssetID: "BME-001"},
	}}

	items := []models.PreventiveMaintenance{
		{ID: 1, AssetID: "BME-001"},
		{ID: 2, AssetID: "BME-001"},
		{ID: 3, AssetID: ""},
	}
	NewEnricher(lookup).EnrichMaintenance(context.Background(), items)

	assert.Equal(t, 1, lookup.queries)
	assert.NotNil(t, items[0].Asset)
	assert.NotNil(t, items[1].Asset)
	assert.Nil(t, items[2].Asset)
}

func TestEnrichEmptySliceNoQuery(t *testing.T) {
	lookup := &fakeLookup{}
	NewEnricher(lookup).EnrichComplaints(context.Background(), nil)
	assert.Zero(t, lookup.queries)
}
