// models/maintenance.go
package models

import "time"

const (
	PMScheduled = "Scheduled"
	PMDue       = "Due"
	PMOverdue   = "Overdue"
	PMCompleted = "Completed"
	PMSkipped   = "Skipped"
)

type PreventiveMaintenance struct {
	ID           int64      `json:"id"`
	AssetID      string     `json:"assetId"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	Frequency    string     `json:"frequency"`
	AssignedTo   *int64     `json:"assignedTo,omitempty"`
	ScheduledFor time.Time  `json:"scheduledFor"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	Checklist    []string   `json:"checklist,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	Asset *AssetRef `json:"asset"`
}
