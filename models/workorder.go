// models/workorder.go
package models

import "time"

const (
	WorkOrderOpen       = "Open"
	WorkOrderAssigned   = "Assigned"
	WorkOrderInProgress = "In-Progress"
	WorkOrderOnHold     = "On-Hold"
	WorkOrderCompleted  = "Completed"
	WorkOrderCancelled  = "Cancelled"
)

type WorkOrder struct {
	ID           int64      `json:"id"`
	AssetID      string     `json:"assetId"`
	ComplaintID  *int64     `json:"complaintId,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	AssignedTo   *int64     `json:"assignedTo,omitempty"`
	LaborHours   float64    `json:"laborHours"`
	PartsCost    float64    `json:"partsCost"`
	ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	Asset *AssetRef `json:"asset"`
}
