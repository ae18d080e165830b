// models/complaint.go
package models

import "time"

const (
	ComplaintOpen       = "Open"
	ComplaintInProgress = "In-Progress"
	ComplaintResolved   = "Resolved"
	ComplaintClosed     = "Closed"
	ComplaintCancelled  = "Cancelled"
)

// Complaint references its asset by the document-store external id. The
// reference is weak: no foreign key, no cascade, enrichment may come back
// empty and the complaint still stands on its own.
type Complaint struct {
	ID          int64      `json:"id"`
	AssetID     string     `json:"assetId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	ReportedBy  *int64     `json:"reportedBy,omitempty"`
	AssignedTo  *int64     `json:"assignedTo,omitempty"`
	Department  string     `json:"department,omitempty"`
	SLADueAt    *time.Time `json:"slaDueAt,omitempty"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Asset *AssetRef `json:"asset"` // filled by enrichment, nil when lookup fails
}
