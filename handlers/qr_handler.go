// handlers/qr_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bmeams/models"
	"bmeams/utils"
)

// GetAssetQR renders a PNG QR label for an asset. The payload is a compact
// JSON document scanners resolve back against the API.
func GetAssetQR(w http.ResponseWriter, r *http.Request) {
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
		log.Printf("GetAssetQR lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch asset")
		return
	}

	payload, err := json.Marshal(map[string]string{
		"assetId":    asset.AssetID,
		"name":       asset.Name,
		"department": asset.Department,
		"serial":     asset.SerialNumber,
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build QR payload")
		return
	}

	size := 256
	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 64 && n <= 1024 {
			size = n
		}
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, size)
	if err != nil {
		log.Printf("GetAssetQR encode failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", "inline; filename="+assetID+".png")
	w.Write(png)
}
