// handlers/lifecycle_handler.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bmeams/lifecycle"
	"bmeams/models"
	"bmeams/utils"
)

type lifecycleView struct {
	AssetID            string   `json:"assetId"`
	LifecycleState     string   `json:"lifecycleState"`
	AllowedTransitions []string `json:"allowedTransitions"`
	AgeYears           float64  `json:"ageYears"`
	ServiceCostRatio   float64  `json:"serviceCostRatio"`
	TotalDowntimeHours float64  `json:"totalDowntimeHours"`
	Utilization        float64  `json:"utilizationPercentage"`
	ReplacementFlagged bool     `json:"replacementRecommended"`
	ReplacementReason  string   `json:"replacementReason,omitempty"`
}

// GetAssetLifecycle returns the current lifecycle state plus the derived
// metrics the scoring engine would see.
func GetAssetLifecycle(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var asset models.Asset
	err := assetCollection.FindOne(ctx, bson.M{"assetId": assetID}).Decode(&asset)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Asset not found")
		return
	}
	if err != nil {
		log.Printf("GetAssetLifecycle lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch asset")
		return
	}

	view := lifecycleView{
		AssetID:            asset.AssetID,
		LifecycleState:     asset.LifecycleState,
		AllowedTransitions: lifecycle.AllowedTransitions(asset.LifecycleState),
		AgeYears:           lifecycle.Age(asset.PurchaseDate, time.Now()),
		ServiceCostRatio:   lifecycle.ServiceCostRatio(asset.TotalServiceCost, asset.Value),
		TotalDowntimeHours: asset.TotalDowntimeHours,
		Utilization:        asset.UtilizationPercentage,
		ReplacementFlagged: asset.ReplacementRecommended,
		ReplacementReason:  asset.ReplacementReason,
	}
	utils.RespondWithJSON(w, http.StatusOK, view)
}

type lifecycleUpdateRequest struct {
	LifecycleState        *string  `json:"lifecycleState,omitempty"`
	TotalDowntimeHours    *float64 `json:"totalDowntimeHours,omitempty"`
	TotalServiceCost      *float64 `json:"totalServiceCost,omitempty"`
	UtilizationPercentage *float64 `json:"utilizationPercentage,omitempty"`
	PerformedBy           string   `json:"performedBy,omitempty"`
}

// UpdateAssetLifecycle applies a lifecycle transition and/or updates the
// lifecycle counters. Invalid transitions are rejected loudly: silently
// coercing one would corrupt the audit trail. History is tracked only when
// performedBy is supplied.
func UpdateAssetLifecycle(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["id"]

	var req lifecycleUpdateRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var asset models.Asset
	err := assetCollection.FindOne(ctx, bson.M{"assetId": assetID}).Decode(&asset)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Asset not found")
		return
	}
	if err != nil {
		log.Printf("UpdateAssetLifecycle lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch asset")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	var events []models.AssetHistory
	now := time.Now()

	if req.LifecycleState != nil && *req.LifecycleState != asset.LifecycleState {
		target := *req.LifecycleState
		if !lifecycle.IsValidState(target) {
			utils.RespondWithError(w, http.StatusBadRequest, "Unknown lifecycle state: "+target)
			return
		}
		if err := lifecycle.ValidateTransition(asset.LifecycleState, target); err != nil {
			var invalid *lifecycle.ErrInvalidTransition
			if errors.As(err, &invalid) {
				utils.RespondWithError(w, http.StatusConflict, invalid.Error())
				return
			}
			utils.RespondWithError(w, http.StatusInternalServerError, "Transition check failed")
			return
		}
		set["lifecycleState"] = target
		if req.PerformedBy != "" {
			events = append(events, lifecycle.TransitionEvent(assetID, asset.LifecycleState, target, req.PerformedBy, now))
		}
	}

	counters := map[string]lifecycle.FieldChange{}
	if req.TotalDowntimeHours != nil {
		set["totalDowntimeHours"] = *req.TotalDowntimeHours
		counters["totalDowntimeHours"] = lifecycle.FieldChange{Old: asset.TotalDowntimeHours, New: *req.TotalDowntimeHours}
	}
	if req.TotalServiceCost != nil {
		set["totalServiceCost"] = *req.TotalServiceCost
		counters["totalServiceCost"] = lifecycle.FieldChange{Old: asset.TotalServiceCost, New: *req.TotalServiceCost}
	}
	if req.UtilizationPercentage != nil {
		set["utilizationPercentage"] = *req.UtilizationPercentage
		counters["utilizationPercentage"] = lifecycle.FieldChange{Old: asset.UtilizationPercentage, New: *req.UtilizationPercentage}
	}
	if req.PerformedBy != "" {
		events = append(events, lifecycle.TrackUpdate(assetID, counters, req.PerformedBy, now)...)
	}

	if _, err := assetCollection.UpdateOne(ctx, bson.M{"assetId": assetID}, bson.M{"$set": set}); err != nil {
		log.Printf("UpdateAssetLifecycle write failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update lifecycle")
		return
	}

	writeHistoryEvents(ctx, events)

	var updated models.Asset
	if err := assetCollection.FindOne(ctx, bson.M{"assetId": assetID}).Decode(&updated); err != nil {
		log.Printf("UpdateAssetLifecycle re-read failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch updated asset")
		return
	}

	if state, ok := set["lifecycleState"].(string); ok {
		BroadcastAssetEvent(updated.Department, AssetEvent{
			Type:    "LIFECYCLE_CHANGED",
			AssetID: assetID,
			Data: map[string]string{
				"oldState": asset.LifecycleState,
				"newState": state,
			},
			Timestamp: now,
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, lifecycleView{
		AssetID:            updated.AssetID,
		LifecycleState:     updated.LifecycleState,
		AllowedTransitions: lifecycle.AllowedTransitions(updated.LifecycleState),
		AgeYears:           lifecycle.Age(updated.PurchaseDate, time.Now()),
		ServiceCostRatio:   lifecycle.ServiceCostRatio(updated.TotalServiceCost, updated.Value),
		TotalDowntimeHours: updated.TotalDowntimeHours,
		Utilization:        updated.UtilizationPercentage,
		ReplacementFlagged: updated.ReplacementRecommended,
		ReplacementReason:  updated.ReplacementReason,
	})
}
