// handlers/recommendation_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"bmeams/lifecycle"
	"bmeams/models"
	"bmeams/utils"
)

func thresholdsFromQuery(r *http.Request) lifecycle.Thresholds {
	t := lifecycle.DefaultThresholds()
	if v := r.URL.Query().Get("minAge"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			t.MinAge = f
		}
	}
	if v := r.URL.Query().Get("maxServiceCostRatio"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			t.MaxServiceCostRatio = f
		}
	}
	if v := r.URL.Query().Get("minDowntimeHours"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			t.MinDowntimeHours = f
		}
	}
	if v := r.URL.Query().Get("minUtilization"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			t.MinUtilization = f
		}
	}
	return t
}

func loadScoringCandidates(ctx context.Context) ([]models.Asset, error) {
	// Disposed and already-flagged assets are excluded again inside the
	// scoring engine; filtering here just keeps the working set small.
	filter := bson.M{
		"lifecycleState":         bson.M{"$ne": lifecycle.StateDisposed},
		"replacementRecommended": bson.M{"$ne": true},
	}
	cursor, err := assetCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assets []models.Asset
	if err := cursor.All(ctx, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// GetReplacementInsights scores the fleet and returns the ranked
// recommendations without mutating anything.
func GetReplacementInsights(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	assets, err := loadScoringCandidates(ctx)
	if err != nil {
		log.Printf("GetReplacementInsights query failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch assets")
		return
	}

	thresholds := thresholdsFromQuery(r)
	recommendations := lifecycle.Score(assets, thresholds, time.Now())
	if recommendations == nil {
		recommendations = []lifecycle.Recommendation{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"thresholds":      thresholds,
		"count":           len(recommendations),
		"recommendations": recommendations,
	})
}

// ApplyReplacementRecommendations scores the fleet and writes the
// replacementRecommended flag and reason back onto each scored asset. The
// operation is idempotent: already-flagged assets are skipped by the engine,
// so a re-run leaves the same flags in place.
func ApplyReplacementRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	assets, err := loadScoringCandidates(ctx)
	if err != nil {
		log.Printf("ApplyReplacementRecommendations query failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch assets")
		return
	}

	thresholds := thresholdsFromQuery(r)
	recommendations := lifecycle.Score(assets, thresholds, time.Now())

	applied := 0
	for _, rec := range recommendations {
		reason := strings.Join(rec.Reasons, "; ")
		_, err := assetCollection.UpdateOne(ctx,
			bson.M{"assetId": rec.AssetID},
			bson.M{"$set": bson.M{
				"replacementRecommended": true,
				"replacementReason":      reason,
				"updatedAt":              time.Now(),
			}})
		if err != nil {
			log.Printf("ApplyReplacementRecommendations: flag write for %s failed: %v", rec.AssetID, err)
			continue
		}
		applied++

		BroadcastAssetEvent(rec.Department, AssetEvent{
			Type:      "REPLACEMENT_RECOMMENDED",
			AssetID:   rec.AssetID,
			Data:      rec,
			Timestamp: time.Now(),
		})
	}

	if applied > 0 {
		invalidateDashboardCache(ctx)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"scored":  len(recommendations),
		"applied": applied,
	})
}
