// handlers/workorder_handler.go
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

var workOrderStatuses = map[string]bool{
	models.WorkOrderOpen:       true,
	models.WorkOrderAssigned:   true,
	models.WorkOrderInProgress: true,
	models.WorkOrderOnHold:     true,
	models.WorkOrderCompleted:  true,
	models.WorkOrderCancelled:  true,
}

// ListWorkOrders returns work orders with asset projections, one batched
// lookup for the whole page.
func ListWorkOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := workOrdersRepo.List(ctx, repository.WorkOrderFilter{
		Status:  r.URL.Query().Get("status"),
		AssetID: r.URL.Query().Get("assetId"),
	})
	if err != nil {
		log.Printf("ListWorkOrders query failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch work orders")
		return
	}

	enricher.EnrichWorkOrders(ctx, orders)
	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// CreateWorkOrder opens a work order, optionally linked to a complaint.
func CreateWorkOrder(w http.ResponseWriter, r *http.Request) {
	var order models.WorkOrder
	if err := utils.ParseJSON(r, &order); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if order.AssetID == "" || order.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "assetId and title are required")
		return
	}
	if order.Status == "" {
		order.Status = models.WorkOrderOpen
	}
	if !workOrderStatuses[order.Status] {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown work order status: "+order.Status)
		return
	}
	if order.Priority == "" {
		order.Priority = "Medium"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := workOrdersRepo.Create(ctx, &order); err != nil {
		log.Printf("CreateWorkOrder failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create work order")
		return
	}

	userName, _ := r.Context().Value("userName").(string)
	writeHistoryEvents(ctx, []models.AssetHistory{{
		AssetID:     order.AssetID,
		EventType:   models.EventRepair,
		Description: "Work order opened: " + order.Title,
		PerformedBy: userName,
		CreatedAt:   time.Now(),
	}})

	enricher.EnrichWorkOrder(ctx, &order)
	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// GetWorkOrder returns one work order with its asset projection.
func GetWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid work order id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := workOrdersRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Work order not found")
		return
	}
	if err != nil {
		log.Printf("GetWorkOrder failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch work order")
		return
	}

	enricher.EnrichWorkOrder(ctx, order)
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// UpdateWorkOrder applies field changes; completion stamps completedAt and,
// when labor was booked, folds the cost into the asset's service totals.
func UpdateWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid work order id")
		return
	}

	var req struct {
		Title        *string    `json:"title,omitempty"`
		Description  *string    `json:"description,omitempty"`
		Status       *string    `json:"status,omitempty"`
		Priority     *string    `json:"priority,omitempty"`
		AssignedTo   *int64     `json:"assignedTo,omitempty"`
		LaborHours   *float64   `json:"laborHours,omitempty"`
		PartsCost    *float64   `json:"partsCost,omitempty"`
		ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
	}
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := workOrdersRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Work order not found")
		return
	}
	if err != nil {
		log.Printf("UpdateWorkOrder lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch work order")
		return
	}

	if req.Title != nil {
		order.Title = *req.Title
	}
	if req.Description != nil {
		order.Description = *req.Description
	}
	if req.Priority != nil {
		order.Priority = *req.Priority
	}
	if req.AssignedTo != nil {
		order.AssignedTo = req.AssignedTo
	}
	if req.LaborHours != nil {
		order.LaborHours = *req.LaborHours
	}
	if req.PartsCost != nil {
		order.PartsCost = *req.PartsCost
	}
	if req.ScheduledFor != nil {
		order.ScheduledFor = req.ScheduledFor
	}

	completedNow := false
	if req.Status != nil && *req.Status != order.Status {
		if !workOrderStatuses[*req.Status] {
			utils.RespondWithError(w, http.StatusBadRequest, "Unknown work order status: "+*req.Status)
			return
		}
		order.Status = *req.Status
		if order.Status == models.WorkOrderCompleted && order.CompletedAt == nil {
			now := time.Now()
			order.CompletedAt = &now
			completedNow = true
		}
	}

	if err := workOrdersRepo.Update(ctx, order); err != nil {
		log.Printf("UpdateWorkOrder write failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update work order")
		return
	}

	if completedNow && order.PartsCost > 0 {
		// Best-effort cross-store rollup: the two stores are not
		// transactionally linked, a failure here leaves the work order done.
		addServiceCost(ctx, order.AssetID, order.PartsCost)
	}

	enricher.EnrichWorkOrder(ctx, order)
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// DeleteWorkOrder removes a work order record.
func DeleteWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid work order id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = workOrdersRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Work order not found")
		return
	}
	if err != nil {
		log.Printf("DeleteWorkOrder failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete work order")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{"id": id})
}
