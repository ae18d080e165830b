// handlers/history_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bmeams/models"
	"bmeams/utils"
)

// GetAssetHistory returns the timeline for one asset, newest first,
// optionally filtered by event type.
func GetAssetHistory(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"assetId": assetID}
	if eventType := r.URL.Query().Get("eventType"); eventType != "" {
		filter["eventType"] = eventType
	}

	limit := int64(100)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := historyCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("GetAssetHistory query failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}
	defer cursor.Close(ctx)

	events := []models.AssetHistory{}
	if err := cursor.All(ctx, &events); err != nil {
		log.Printf("GetAssetHistory decode failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode history")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, events)
}
