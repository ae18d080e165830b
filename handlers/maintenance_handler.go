// handlers/maintenance_handler.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"bmeams/models"
	"bmeams/repository"
	"bmeams/utils"
)

var pmStatuses = map[string]bool{
	models.PMScheduled: true,
	models.PMDue:       true,
	models.PMOverdue:   true,
	models.PMCompleted: true,
	models.PMSkipped:   true,
}

// ListMaintenance returns PM schedules with asset projections. ?dueWithin=N
// narrows to open items scheduled inside the next N days.
func ListMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := repository.MaintenanceFilter{
		Status:  r.URL.Query().Get("status"),
		AssetID: r.URL.Query().Get("assetId"),
	}
	if v := r.URL.Query().Get("dueWithin"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			filter.DueWithin = time.Duration(days) * 24 * time.Hour
		}
	}

	items, err := maintenanceRepo.List(ctx, filter)
	if err != nil {
		log.Printf("ListMaintenance query failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch maintenance schedules")
		return
	}

	enricher.EnrichMaintenance(ctx, items)
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// CreateMaintenance schedules a PM task for an asset.
func CreateMaintenance(w http.ResponseWriter, r *http.Request) {
	var m models.PreventiveMaintenance
	if err := utils.ParseJSON(r, &m); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if m.AssetID == "" || m.Title == "" || m.ScheduledFor.IsZero() {
		utils.RespondWithError(w, http.StatusBadRequest, "assetId, title and scheduledFor are required")
		return
	}
	if m.Status == "" {
		m.Status = models.PMScheduled
	}
	if !pmStatuses[m.Status] {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown maintenance status: "+m.Status)
		return
	}
	if m.Frequency == "" {
		m.Frequency = "Monthly"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := maintenanceRepo.Create(ctx, &m); err != nil {
		log.Printf("CreateMaintenance failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create maintenance schedule")
		return
	}

	// keep the asset's nextPmDate in step, best-effort
	_, err := assetCollection.UpdateOne(ctx,
		bson.M{"assetId": m.AssetID, "$or": []bson.M{
			{"nextPmDate": bson.M{"$exists": false}},
			{"nextPmDate": bson.M{"$gt": m.ScheduledFor}},
		}},
		bson.M{"$set": bson.M{"nextPmDate": m.ScheduledFor, "updatedAt": time.Now()}})
	if err != nil {
		log.Printf("nextPmDate rollup for %s failed: %v", m.AssetID, err)
	}

	enricher.EnrichMaintenanceItem(ctx, &m)
	utils.RespondWithJSON(w, http.StatusCreated, m)
}

// GetMaintenance returns one PM record with its asset projection.
func GetMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid maintenance id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	m, err := maintenanceRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Maintenance schedule not found")
		return
	}
	if err != nil {
		log.Printf("GetMaintenance failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch maintenance schedule")
		return
	}

	enricher.EnrichMaintenanceItem(ctx, m)
	utils.RespondWithJSON(w, http.StatusOK, m)
}

// UpdateMaintenance applies field changes; completion stamps completedAt and
// writes a PM event into the asset's timeline.
func UpdateMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid maintenance id")
		return
	}

	var req struct {
		Title        *string    `json:"title,omitempty"`
		Description  *string    `json:"description,omitempty"`
		Status       *string    `json:"status,omitempty"`
		Frequency    *string    `json:"frequency,omitempty"`
		AssignedTo   *int64     `json:"assignedTo,omitempty"`
		ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
		Checklist    []string   `json:"checklist,omitempty"`
	}
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	m, err := maintenanceRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Maintenance schedule not found")
		return
	}
	if err != nil {
		log.Printf("UpdateMaintenance lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch maintenance schedule")
		return
	}

	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Frequency != nil {
		m.Frequency = *req.Frequency
	}
	if req.AssignedTo != nil {
		m.AssignedTo = req.AssignedTo
	}
	if req.ScheduledFor != nil {
		m.ScheduledFor = *req.ScheduledFor
	}
	if req.Checklist != nil {
		m.Checklist = req.Checklist
	}

	completedNow := false
	if req.Status != nil && *req.Status != m.Status {
		if !pmStatuses[*req.Status] {
			utils.RespondWithError(w, http.StatusBadRequest, "Unknown maintenance status: "+*req.Status)
			return
		}
		m.Status = *req.Status
		if m.Status == models.PMCompleted && m.CompletedAt == nil {
			now := time.Now()
			m.CompletedAt = &now
			completedNow = true
		}
	}

	if err := maintenanceRepo.Update(ctx, m); err != nil {
		log.Printf("UpdateMaintenance write failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update maintenance schedule")
		return
	}

	if completedNow {
		userName, _ := r.Context().Value("userName").(string)
		writeHistoryEvents(ctx, []models.AssetHistory{{
			AssetID:     m.AssetID,
			EventType:   models.EventPM,
			Description: "Preventive maintenance completed: " + m.Title,
			PerformedBy: userName,
			CreatedAt:   time.Now(),
		}})
	}

	enricher.EnrichMaintenanceItem(ctx, m)
	utils.RespondWithJSON(w, http.StatusOK, m)
}

// DeleteMaintenance removes a PM schedule.
func DeleteMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid maintenance id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = maintenanceRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Maintenance schedule not found")
		return
	}
	if err != nil {
		log.Printf("DeleteMaintenance failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete maintenance schedule")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{"id": id})
}
