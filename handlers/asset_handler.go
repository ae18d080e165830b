// handlers/asset_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bmeams/lifecycle"
	"bmeams/models"
	"bmeams/utils"
)

// ListAssets returns assets, optionally filtered by department, status,
// lifecycle state or a name/model/serial search term.
func ListAssets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if dept := r.URL.Query().Get("department"); dept != "" {
		filter["department"] = dept
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if state := r.URL.Query().Get("lifecycleState"); state != "" {
		filter["lifecycleState"] = state
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": search, "$options": "i"}},
			{"model": bson.M{"$regex": search, "$options": "i"}},
			{"serialNumber": bson.M{"$regex": search, "$options": "i"}},
			{"assetId": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := assetCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("ListAssets query failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch assets")
		return
	}
	defer cursor.Close(ctx)

	assets := []models.Asset{}
	if err := cursor.All(ctx, &assets); err != nil {
		log.Printf("ListAssets decode failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode assets")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, assets)
}

// CreateAsset inserts a new asset. The external id is generated when the
// caller does not supply one, and an empty serial number is dropped entirely
// so the partial unique index never sees "" or null.
func CreateAsset(w http.ResponseWriter, r *http.Request) {
	var asset models.Asset
	if err := utils.ParseJSON(r, &asset); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	asset.Name = strings.TrimSpace(asset.Name)
	if asset.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Asset name is required")
		return
	}
	if asset.Value < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Asset value cannot be negative")
		return
	}
	if asset.AssetID == "" {
		asset.AssetID = "BME-" + uuid.NewString()[:8]
	}
	if asset.Status == "" {
		asset.Status = models.StatusActive
	}
	if asset.LifecycleState == "" {
		asset.LifecycleState = lifecycle.StateActive
	} else if !lifecycle.IsValidState(asset.LifecycleState) {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown lifecycle state: "+asset.LifecycleState)
		return
	}

	// omitempty on the bson tag leaves an empty serial fully unset
	asset.SerialNumber = strings.TrimSpace(asset.SerialNumber)

	asset.CreatedAt = time.Now()
	asset.UpdatedAt = asset.CreatedAt

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := assetCollection.InsertOne(ctx, asset)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "Asset id or serial number already exists")
			return
		}
		log.Printf("CreateAsset insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create asset")
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		asset.ID = oid
	}

	BroadcastAssetEvent(asset.Department, AssetEvent{
		Type:      "ASSET_CREATED",
		AssetID:   asset.AssetID,
		Data:      asset,
		Timestamp: time.Now(),
	})

	utils.RespondWithJSON(w, http.StatusCreated, asset)
}

// assetUpdateRequest carries a partial update; nil pointers mean "unchanged".
type assetUpdateRequest struct {
	Name                  *string                `json:"name,omitempty"`
	Model                 *string                `json:"model,omitempty"`
	Manufacturer          *string                `json:"manufacturer,omitempty"`
	SerialNumber          *string                `json:"serialNumber,omitempty"`
	FARNumber             *string                `json:"farNumber,omitempty"`
	Department            *string                `json:"department,omitempty"`
	Location              *string                `json:"location,omitempty"`
	Status                *string                `json:"status,omitempty"`
	Value                 *float64               `json:"value,omitempty"`
	Specifications        map[string]interface{} `json:"specifications,omitempty"`
	TotalDowntimeHours    *float64               `json:"totalDowntimeHours,omitempty"`
	TotalServiceCost      *float64               `json:"totalServiceCost,omitempty"`
	UtilizationPercentage *float64               `json:"utilizationPercentage,omitempty"`
	NextPMDate            *time.Time             `json:"nextPmDate,omitempty"`
	NextCalibrationDate   *time.Time             `json:"nextCalibrationDate,omitempty"`
	WarrantyExpiry        *time.Time             `json:"warrantyExpiry,omitempty"`
	AMCExpiry             *time.Time             `json:"amcExpiry,omitempty"`
	PerformedBy           string                 `json:"performedBy,omitempty"`
}

// GetAsset returns one asset by its external id.
func GetAsset(w http.ResponseWriter, r *http.Request) {
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
		log.Printf("GetAsset lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch asset")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, asset)
}

// UpdateAsset applies a partial field update. Every genuinely changed
// tracked field produces its own history event when performedBy is present.
func UpdateAsset(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["id"]

	var req assetUpdateRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.Value != nil && *req.Value < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Asset value cannot be negative")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var existing models.Asset
	err := assetCollection.FindOne(ctx, bson.M{"assetId": assetID}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Asset not found")
		return
	}
	if err != nil {
		log.Printf("UpdateAsset lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch asset")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	unset := bson.M{}
	changes := map[string]lifecycle.FieldChange{}

	applyString := func(field string, ptr *string, old string) {
		if ptr == nil {
			return
		}
		set[field] = *ptr
		changes[field] = lifecycle.FieldChange{Old: old, New: *ptr}
	}
	applyFloat := func(field string, ptr *float64, old float64) {
		if ptr == nil {
			return
		}
		set[field] = *ptr
		changes[field] = lifecycle.FieldChange{Old: old, New: *ptr}
	}
	applyTime := func(field string, ptr *time.Time, old *time.Time) {
		if ptr == nil {
			return
		}
		set[field] = *ptr
		var oldVal interface{}
		if old != nil {
			oldVal = *old
		}
		changes[field] = lifecycle.FieldChange{Old: oldVal, New: *ptr}
	}

	applyString("name", req.Name, existing.Name)
	applyString("model", req.Model, existing.Model)
	applyString("manufacturer", req.Manufacturer, existing.Manufacturer)
	applyString("farNumber", req.FARNumber, existing.FARNumber)
	applyString("department", req.Department, existing.Department)
	applyString("location", req.Location, existing.Location)
	applyFloat("value", req.Value, existing.Value)
	applyFloat("totalDowntimeHours", req.TotalDowntimeHours, existing.TotalDowntimeHours)
	applyFloat("totalServiceCost", req.TotalServiceCost, existing.TotalServiceCost)
	applyFloat("utilizationPercentage", req.UtilizationPercentage, existing.UtilizationPercentage)
	applyTime("nextPmDate", req.NextPMDate, existing.NextPMDate)
	applyTime("nextCalibrationDate", req.NextCalibrationDate, existing.NextCalibrationDate)
	applyTime("warrantyExpiry", req.WarrantyExpiry, existing.WarrantyExpiry)
	applyTime("amcExpiry", req.AMCExpiry, existing.AMCExpiry)

	if req.Status != nil {
		set["status"] = *req.Status
		changes["status"] = lifecycle.FieldChange{Old: existing.Status, New: *req.Status}
	}
	if req.Specifications != nil {
		set["specifications"] = req.Specifications
	}
	if req.SerialNumber != nil {
		serial := strings.TrimSpace(*req.SerialNumber)
		if serial == "" {
			// the partial unique index tolerates absence but not "" or null
			unset["serialNumber"] = ""
		} else {
			set["serialNumber"] = serial
		}
		changes["serialNumber"] = lifecycle.FieldChange{Old: existing.SerialNumber, New: serial}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	if _, err := assetCollection.UpdateOne(ctx, bson.M{"assetId": assetID}, update); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "Serial number already exists")
			return
		}
		log.Printf("UpdateAsset write failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update asset")
		return
	}

	// History writes are best-effort: the asset update is not rolled back if
	// the audit write fails.
	if req.PerformedBy != "" {
		writeHistoryEvents(ctx, lifecycle.TrackUpdate(assetID, changes, req.PerformedBy, time.Now()))
	}

	var updated models.Asset
	if err := assetCollection.FindOne(ctx, bson.M{"assetId": assetID}).Decode(&updated); err != nil {
		log.Printf("UpdateAsset re-read failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch updated asset")
		return
	}

	BroadcastAssetEvent(updated.Department, AssetEvent{
		Type:      "ASSET_UPDATED",
		AssetID:   assetID,
		Data:      updated,
		Timestamp: time.Now(),
	})

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteAsset removes an asset. History events are kept: they are
// append-only and may still be referenced by timeline views.
func DeleteAsset(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := assetCollection.DeleteOne(ctx, bson.M{"assetId": assetID})
	if err != nil {
		log.Printf("DeleteAsset failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete asset")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Asset not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"assetId": assetID, "deleted": "true"})
}

// addServiceCost folds a completed work order's cost into the asset's
// running service total.
func addServiceCost(ctx context.Context, assetID string, cost float64) {
	_, err := assetCollection.UpdateOne(ctx,
		bson.M{"assetId": assetID},
		bson.M{
			"$inc": bson.M{"totalServiceCost": cost},
			"$set": bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		log.Printf("service cost rollup for %s failed: %v", assetID, err)
	}
}

func writeHistoryEvents(ctx context.Context, events []models.AssetHistory) {
	if len(events) == 0 {
		return
	}
	docs := make([]interface{}, len(events))
	for i := range events {
		docs[i] = events[i]
	}
	if _, err := historyCollection.InsertMany(ctx, docs); err != nil {
		log.Printf("history write failed (continuing, audit is best-effort): %v", err)
	}
}
