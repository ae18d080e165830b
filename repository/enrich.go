// repository/enrich.go
//
// Cross-store enrichment: relational records reference document-store assets
// by external id only. The reference is weak, so a failed lookup is a normal
// path and never an error to the caller: the record ships with asset: null.
package repository

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bmeams/models"
)

// AssetLookup resolves external asset ids to their display projection.
type AssetLookup interface {
	FindRefs(ctx context.Context, assetIDs []string) (map[string]models.AssetRef, error)
}

// MongoAssetLookup resolves refs against the assets collection.
type MongoAssetLookup struct {
	col *mongo.Collection
}

func NewMongoAssetLookup(col *mongo.Collection) *MongoAssetLookup {
	return &MongoAssetLookup{col: col}
}

var _ AssetLookup = (*MongoAssetLookup)(nil)

func (l *MongoAssetLookup) FindRefs(ctx context.Context, assetIDs []string) (map[string]models.AssetRef, error) {
	if len(assetIDs) == 0 {
		return map[string]models.AssetRef{}, nil
	}

	projection := bson.M{
		"assetId": 1, "name": 1, "model": 1, "manufacturer": 1,
		"department": 1, "location": 1, "status": 1,
	}
	cur, err := l.col.Find(ctx,
		bson.M{"assetId": bson.M{"$in": assetIDs}},
		options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	refs := map[string]models.AssetRef{}
	for cur.Next(ctx) {
		var ref models.AssetRef
		if err := cur.Decode(&ref); err != nil {
			return nil, err
		}
		refs[ref.AssetID] = ref
	}
	return refs, cur.Err()
}

// Enricher merges asset projections onto relational records.
type Enricher struct {
	lookup AssetLookup
}

func NewEnricher(lookup AssetLookup) *Enricher {
	return &Enricher{lookup: lookup}
}

// refsFor performs the single batched lookup. Any failure degrades to an
// empty map so callers render their records with asset: null.
func (e *Enricher) refsFor(ctx context.Context, ids []string) map[string]models.AssetRef {
	distinct := make([]string, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		distinct = append(distinct, id)
	}
	if len(distinct) == 0 {
		return map[string]models.AssetRef{}
	}

	refs, err := e.lookup.FindRefs(ctx, distinct)
	if err != nil {
		log.Printf("asset enrichment lookup failed, returning records without asset data: %v", err)
		return map[string]models.AssetRef{}
	}
	return refs
}

// EnrichComplaints fills Asset on every complaint with one lookup query.
func (e *Enricher) EnrichComplaints(ctx context.Context, complaints []models.Complaint) {
	ids := make([]string, len(complaints))
	for i := range complaints {
		ids[i] = complaints[i].AssetID
	}
	refs := e.refsFor(ctx, ids)
	for i := range complaints {
		if ref, ok := refs[complaints[i].AssetID]; ok {
			r := ref
			complaints[i].Asset = &r
		} else {
			complaints[i].Asset = nil
		}
	}
}

// EnrichComplaint fills Asset on a single complaint.
func (e *Enricher) EnrichComplaint(ctx context.Context, c *models.Complaint) {
	if c == nil {
		return
	}
	refs := e.refsFor(ctx, []string{c.AssetID})
	if ref, ok := refs[c.AssetID]; ok {
		c.Asset = &ref
	} else {
		c.Asset = nil
	}
}

// EnrichWorkOrders fills Asset on every work order with one lookup query.
func (e *Enricher) EnrichWorkOrders(ctx context.Context, orders []models.WorkOrder) {
	ids := make([]string, len(orders))
	for i := range orders {
		ids[i] = orders[i].AssetID
	}
	refs := e.refsFor(ctx, ids)
	for i := range orders {
		if ref, ok := refs[orders[i].AssetID]; ok {
			r := ref
			orders[i].Asset = &r
		} else {
			orders[i].Asset = nil
		}
	}
}

// EnrichWorkOrder fills Asset on a single work order.
func (e *Enricher) EnrichWorkOrder(ctx context.Context, w *models.WorkOrder) {
	if w == nil {
		return
	}
	refs := e.refsFor(ctx, []string{w.AssetID})
	if ref, ok := refs[w.AssetID]; ok {
		w.Asset = &ref
	} else {
		w.Asset = nil
	}
}

// EnrichMaintenance fills Asset on every PM record with one lookup query.
func (e *Enricher) EnrichMaintenance(ctx context.Context, items []models.PreventiveMaintenance) {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].AssetID
	}
	refs := e.refsFor(ctx, ids)
	for i := range items {
		if ref, ok := refs[items[i].AssetID]; ok {
			r := ref
			items[i].Asset = &r
		} else {
			items[i].Asset = nil
		}
	}
}

// EnrichMaintenanceItem fills Asset on a single PM record.
func (e *Enricher) EnrichMaintenanceItem(ctx context.Context, m *models.PreventiveMaintenance) {
	if m == nil {
		return
	}
	refs := e.refsFor(ctx, []string{m.AssetID})
	if ref, ok := refs[m.AssetID]; ok {
		m.Asset = &ref
	} else {
		m.Asset = nil
	}
}
