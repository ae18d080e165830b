// handlers/dashboard_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"bmeams/database"
	"bmeams/models"
	"bmeams/utils"
)

const dashboardCacheKey = "bmeams:dashboard:overview"
const dashboardCacheTTL = 60 * time.Second

type DashboardOverview struct {
	TotalAssets        int64            `json:"totalAssets"`
	AssetsByStatus     map[string]int64 `json:"assetsByStatus"`
	AssetsByDepartment map[string]int64 `json:"assetsByDepartment"`
	AssetsByLifecycle  map[string]int64 `json:"assetsByLifecycle"`
	ReplacementFlagged int64            `json:"replacementFlagged"`

	OpenComplaints     int64            `json:"openComplaints"`
	ComplaintsByStatus map[string]int64 `json:"complaintsByStatus"`
	OpenWorkOrders     int64            `json:"openWorkOrders"`
	WorkOrdersByStatus map[string]int64 `json:"workOrdersByStatus"`

	MaintenanceDueIn30Days int64 `json:"maintenanceDueIn30Days"`
	ContractsExpiringIn30  int64 `json:"contractsExpiringIn30Days"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// GetDashboard aggregates the headline numbers across both stores. Results
// are cached in Redis for a minute when a cache is configured.
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if database.Redis != nil {
		if cached, err := database.Redis.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var overview DashboardOverview
			if json.Unmarshal(cached, &overview) == nil {
				utils.RespondWithJSON(w, http.StatusOK, overview)
				return
			}
		}
	}

	overview, err := buildDashboard(ctx)
	if err != nil {
		log.Printf("GetDashboard aggregation failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}

	if database.Redis != nil {
		if data, err := json.Marshal(overview); err == nil {
			if err := database.Redis.Set(ctx, dashboardCacheKey, data, dashboardCacheTTL).Err(); err != nil {
				log.Printf("dashboard cache write failed: %v", err)
			}
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, overview)
}

func buildDashboard(ctx context.Context) (*DashboardOverview, error) {
	overview := &DashboardOverview{
		AssetsByStatus:     map[string]int64{},
		AssetsByDepartment: map[string]int64{},
		AssetsByLifecycle:  map[string]int64{},
		GeneratedAt:        time.Now(),
	}

	total, err := assetCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	overview.TotalAssets = total

	flagged, err := assetCollection.CountDocuments(ctx, bson.M{"replacementRecommended": true})
	if err != nil {
		return nil, err
	}
	overview.ReplacementFlagged = flagged

	if err := groupCounts(ctx, "$status", overview.AssetsByStatus); err != nil {
		return nil, err
	}
	if err := groupCounts(ctx, "$department", overview.AssetsByDepartment); err != nil {
		return nil, err
	}
	if err := groupCounts(ctx, "$lifecycleState", overview.AssetsByLifecycle); err != nil {
		return nil, err
	}

	complaintCounts, err := complaintsRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	overview.ComplaintsByStatus = complaintCounts
	overview.OpenComplaints = complaintCounts[models.ComplaintOpen] + complaintCounts[models.ComplaintInProgress]

	orderCounts, err := workOrdersRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	overview.WorkOrdersByStatus = orderCounts
	overview.OpenWorkOrders = orderCounts[models.WorkOrderOpen] +
		orderCounts[models.WorkOrderAssigned] + orderCounts[models.WorkOrderInProgress]

	due, err := maintenanceRepo.CountDueWithin(ctx, 30*24*time.Hour)
	if err != nil {
		return nil, err
	}
	overview.MaintenanceDueIn30Days = due

	now := time.Now()
	expiring, err := contractCollection.CountDocuments(ctx, bson.M{
		"status":  models.ContractActive,
		"endDate": bson.M{"$gte": now, "$lte": now.AddDate(0, 0, 30)},
	})
	if err != nil {
		return nil, err
	}
	overview.ContractsExpiringIn30 = expiring

	return overview, nil
}

// groupCounts runs a $group count aggregation over the assets collection.
func groupCounts(ctx context.Context, field string, into map[string]int64) error {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": field, "count": bson.M{"$sum": 1}}},
	}
	cursor, err := assetCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return err
		}
		key := row.ID
		if key == "" {
			key = "Unassigned"
		}
		into[key] = row.Count
	}
	return cursor.Err()
}

// invalidateDashboardCache drops the cached overview after bulk mutations.
func invalidateDashboardCache(ctx context.Context) {
	if database.Redis == nil {
		return
	}
	if err := database.Redis.Del(ctx, dashboardCacheKey).Err(); err != nil {
		log.Printf("dashboard cache invalidation failed: %v", err)
	}
}
