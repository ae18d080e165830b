// handlers/complaint_handler.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"bmeams/models"
	"bmeams/repository"
	"bmeams/utils"
)

var complaintStatuses = map[string]bool{
	models.ComplaintOpen:       true,
	models.ComplaintInProgress: true,
	models.ComplaintResolved:   true,
	models.ComplaintClosed:     true,
	models.ComplaintCancelled:  true,
}

// ListComplaints returns complaints with their asset projections merged in.
// The asset join is one batched document-store query, never one per row.
func ListComplaints(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := repository.ComplaintFilter{
		Status:     r.URL.Query().Get("status"),
		AssetID:    r.URL.Query().Get("assetId"),
		Department: r.URL.Query().Get("department"),
	}

	complaints, err := complaintsRepo.List(ctx, filter)
	if err != nil {
		log.Printf("ListComplaints query failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch complaints")
		return
	}

	enricher.EnrichComplaints(ctx, complaints)
	utils.RespondWithJSON(w, http.StatusOK, complaints)
}

// CreateComplaint records a new complaint against an asset's external id.
func CreateComplaint(w http.ResponseWriter, r *http.Request) {
	var c models.Complaint
	if err := utils.ParseJSON(r, &c); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if c.AssetID == "" || c.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "assetId and title are required")
		return
	}
	if c.Status == "" {
		c.Status = models.ComplaintOpen
	}
	if !complaintStatuses[c.Status] {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown complaint status: "+c.Status)
		return
	}
	if c.Priority == "" {
		c.Priority = "Medium"
	}
	if userID, ok := r.Context().Value("userID").(int64); ok && c.ReportedBy == nil {
		c.ReportedBy = &userID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := complaintsRepo.Create(ctx, &c); err != nil {
		log.Printf("CreateComplaint failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create complaint")
		return
	}

	// Complaint filed against an asset shows up in its timeline too.
	userName, _ := r.Context().Value("userName").(string)
	writeHistoryEvents(ctx, []models.AssetHistory{{
		AssetID:     c.AssetID,
		EventType:   models.EventComplaint,
		Description: "Complaint filed: " + c.Title,
		PerformedBy: userName,
		CreatedAt:   time.Now(),
	}})

	enricher.EnrichComplaint(ctx, &c)

	department := c.Department
	if c.Asset != nil && department == "" {
		department = c.Asset.Department
	}
	BroadcastAssetEvent(department, AssetEvent{
		Type:      "COMPLAINT_CREATED",
		AssetID:   c.AssetID,
		Data:      c,
		Timestamp: time.Now(),
	})

	utils.RespondWithJSON(w, http.StatusCreated, c)
}

// GetComplaint returns one complaint with its asset projection.
func GetComplaint(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, err := complaintsRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Complaint not found")
		return
	}
	if err != nil {
		log.Printf("GetComplaint failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch complaint")
		return
	}

	enricher.EnrichComplaint(ctx, c)
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// UpdateComplaint applies field changes; moving to Resolved stamps resolvedAt.
func UpdateComplaint(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}

	var req struct {
		Title       *string    `json:"title,omitempty"`
		Description *string    `json:"description,omitempty"`
		Status      *string    `json:"status,omitempty"`
		Priority    *string    `json:"priority,omitempty"`
		AssignedTo  *int64     `json:"assignedTo,omitempty"`
		SLADueAt    *time.Time `json:"slaDueAt,omitempty"`
	}
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, err := complaintsRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Complaint not found")
		return
	}
	if err != nil {
		log.Printf("UpdateComplaint lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch complaint")
		return
	}

	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Priority != nil {
		c.Priority = *req.Priority
	}
	if req.AssignedTo != nil {
		c.AssignedTo = req.AssignedTo
	}
	if req.SLADueAt != nil {
		c.SLADueAt = req.SLADueAt
	}
	if req.Status != nil && *req.Status != c.Status {
		if !complaintStatuses[*req.Status] {
			utils.RespondWithError(w, http.StatusBadRequest, "Unknown complaint status: "+*req.Status)
			return
		}
		c.Status = *req.Status
		if c.Status == models.ComplaintResolved && c.ResolvedAt == nil {
			now := time.Now()
			c.ResolvedAt = &now
		}
	}

	if err := complaintsRepo.Update(ctx, c); err != nil {
		log.Printf("UpdateComplaint write failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update complaint")
		return
	}

	enricher.EnrichComplaint(ctx, c)
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// DeleteComplaint removes a complaint record.
func DeleteComplaint(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = complaintsRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Complaint not found")
		return
	}
	if err != nil {
		log.Printf("DeleteComplaint failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete complaint")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{"id": id})
}
