// Package repository implements the relational-store access layer and the
// cross-store asset enrichment join.
package repository

import "errors"

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// pq unique_violation
const pqUniqueViolation = "23505"
