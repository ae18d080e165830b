// handlers/contract_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bmeams/models"
	"bmeams/utils"
)

// ListContracts returns all contracts, lazily degrading Active contracts
// whose end date has passed to Expired. The degrade is persisted best-effort.
func ListContracts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if ctype := r.URL.Query().Get("type"); ctype != "" {
		filter["type"] = ctype
	}
	if assetID := r.URL.Query().Get("assetId"); assetID != "" {
		filter["assetIds"] = assetID
	}

	opts := options.Find().SetSort(bson.D{{Key: "endDate", Value: 1}})
	cursor, err := contractCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("ListContracts query failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch contracts")
		return
	}
	defer cursor.Close(ctx)

	contracts := []models.Contract{}
	if err := cursor.All(ctx, &contracts); err != nil {
		log.Printf("ListContracts decode failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode contracts")
		return
	}

	now := time.Now()
	for i := range contracts {
		degradeContract(ctx, &contracts[i], now)
	}

	utils.RespondWithJSON(w, http.StatusOK, contracts)
}

func degradeContract(ctx context.Context, c *models.Contract, now time.Time) {
	effective := c.EffectiveStatus(now)
	if effective == c.Status {
		return
	}
	c.Status = effective
	_, err := contractCollection.UpdateOne(ctx,
		bson.M{"_id": c.ID},
		bson.M{"$set": bson.M{"status": effective, "updatedAt": now}})
	if err != nil {
		log.Printf("contract %s expiry degrade failed (serving degraded view anyway): %v", c.ID.Hex(), err)
	}
}

// CreateContract validates the date range and inserts a new contract.
func CreateContract(w http.ResponseWriter, r *http.Request) {
	var contract models.Contract
	if err := utils.ParseJSON(r, &contract); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if err := contract.Validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	contract.ApplyDefaults()
	contract.CreatedAt = time.Now()
	contract.UpdatedAt = contract.CreatedAt

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := contractCollection.InsertOne(ctx, contract)
	if err != nil {
		log.Printf("CreateContract insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create contract")
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		contract.ID = oid
	}

	utils.RespondWithJSON(w, http.StatusCreated, contract)
}

// GetContract returns one contract by object id.
func GetContract(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid contract id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var contract models.Contract
	err = contractCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&contract)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Contract not found")
		return
	}
	if err != nil {
		log.Printf("GetContract lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch contract")
		return
	}

	degradeContract(ctx, &contract, time.Now())
	utils.RespondWithJSON(w, http.StatusOK, contract)
}

// UpdateContract replaces the mutable fields after re-validating.
func UpdateContract(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid contract id")
		return
	}

	var contract models.Contract
	if err := utils.ParseJSON(r, &contract); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := contract.Validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	contract.ApplyDefaults()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"vendor":      contract.Vendor,
		"type":        contract.Type,
		"assetIds":    contract.AssetIDs,
		"startDate":   contract.StartDate,
		"endDate":     contract.EndDate,
		"renewalDate": contract.RenewalDate,
		"value":       contract.Value,
		"status":      contract.Status,
		"notes":       contract.Notes,
		"updatedAt":   time.Now(),
	}}

	result, err := contractCollection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		log.Printf("UpdateContract write failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update contract")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Contract not found")
		return
	}

	contract.ID = id
	utils.RespondWithJSON(w, http.StatusOK, contract)
}

// DeleteContract removes a contract.
func DeleteContract(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid contract id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := contractCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Printf("DeleteContract failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete contract")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Contract not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"id": id.Hex(), "deleted": "true"})
}

// GetExpiringContracts lists contracts whose end date falls inside the next
// N days (default 30), oldest expiry first.
func GetExpiringContracts(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{
		"endDate": bson.M{"$gte": now, "$lte": now.AddDate(0, 0, days)},
		"status":  models.ContractActive,
	}

	opts := options.Find().SetSort(bson.D{{Key: "endDate", Value: 1}})
	cursor, err := contractCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("GetExpiringContracts query failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch contracts")
		return
	}
	defer cursor.Close(ctx)

	contracts := []models.Contract{}
	if err := cursor.All(ctx, &contracts); err != nil {
		log.Printf("GetExpiringContracts decode failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode contracts")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, contracts)
}
