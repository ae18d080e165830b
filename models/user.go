// models/user.go
package models

import "time"

const (
	RoleAdmin      = "admin"
	RoleEngineer   = "engineer"
	RoleTechnician = "technician"
	RoleViewer     = "viewer"
)

// User lives in the relational store, not the document store.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Department   string    `json:"department,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
