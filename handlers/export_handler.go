// handlers/export_handler.go
package handlers

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bmeams/models"
	"bmeams/utils"
)

var assetExportHeader = []string{
	"Asset ID", "Name", "Model", "Manufacturer", "Serial Number", "FAR Number",
	"Department", "Location", "Status", "Lifecycle State", "Value",
	"Purchase Date", "Warranty Expiry", "Next PM Date",
	"Downtime Hours", "Service Cost", "Utilization %", "Replacement Recommended",
}

func assetExportRow(a *models.Asset) []string {
	formatDate := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	}
	return []string{
		a.AssetID, a.Name, a.Model, a.Manufacturer, a.SerialNumber, a.FARNumber,
		a.Department, a.Location, a.Status, a.LifecycleState,
		strconv.FormatFloat(a.Value, 'f', 2, 64),
		formatDate(a.PurchaseDate), formatDate(a.WarrantyExpiry), formatDate(a.NextPMDate),
		strconv.FormatFloat(a.TotalDowntimeHours, 'f', 1, 64),
		strconv.FormatFloat(a.TotalServiceCost, 'f', 2, 64),
		strconv.FormatFloat(a.UtilizationPercentage, 'f', 1, 64),
		strconv.FormatBool(a.ReplacementRecommended),
	}
}

// ExportAssets streams the asset register as CSV (default) or XLSX.
func ExportAssets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	filter := bson.M{}
	if dept := r.URL.Query().Get("department"); dept != "" {
		filter["department"] = dept
	}

	opts := options.Find().SetSort(bson.D{{Key: "assetId", Value: 1}})
	cursor, err := assetCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("ExportAssets query failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch assets")
		return
	}
	defer cursor.Close(ctx)

	assets := []models.Asset{}
	if err := cursor.All(ctx, &assets); err != nil {
		log.Printf("ExportAssets decode failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode assets")
		return
	}

	switch r.URL.Query().Get("format") {
	case "xlsx":
		exportAssetsXLSX(w, assets)
	default:
		exportAssetsCSV(w, assets)
	}
}

func exportAssetsCSV(w http.ResponseWriter, assets []models.Asset) {
	filename := fmt.Sprintf("assets-%s.csv", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(assetExportHeader); err != nil {
		log.Printf("ExportAssets csv header failed: %v", err)
		return
	}
	for i := range assets {
		if err := writer.Write(assetExportRow(&assets[i])); err != nil {
			log.Printf("ExportAssets csv row failed: %v", err)
			return
		}
	}
}

func exportAssetsXLSX(w http.ResponseWriter, assets []models.Asset) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Assets"
	index, err := f.NewSheet(sheet)
	if err != nil {
		log.Printf("ExportAssets sheet create failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build workbook")
		return
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err == nil {
		end, _ := excelize.CoordinatesToCellName(len(assetExportHeader), 1)
		f.SetCellStyle(sheet, "A1", end, headerStyle)
	}

	for col, title := range assetExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}
	for rowIdx := range assets {
		row := assetExportRow(&assets[rowIdx])
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	filename := fmt.Sprintf("assets-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	if err := f.Write(w); err != nil {
		log.Printf("ExportAssets xlsx write failed: %v", err)
	}
}
