// repository/postgres_workorders.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"bmeams/models"
)

type WorkOrdersRepository struct {
	db *sql.DB
}

func NewWorkOrdersRepository(db *sql.DB) *WorkOrdersRepository {
	return &WorkOrdersRepository{db: db}
}

const workOrderColumns = `id, asset_id, complaint_id, title, description, status, priority,
	assigned_to, labor_hours, parts_cost, scheduled_for, completed_at, created_at, updated_at`

func scanWorkOrder(row interface{ Scan(...interface{}) error }) (*models.WorkOrder, error) {
	var w models.WorkOrder
	var complaintID, assignedTo sql.NullInt64
	var scheduled, completed sql.NullTime
	err := row.Scan(&w.ID, &w.AssetID, &complaintID, &w.Title, &w.Description,
		&w.Status, &w.Priority, &assignedTo, &w.LaborHours, &w.PartsCost,
		&scheduled, &completed, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if complaintID.Valid {
		w.ComplaintID = &complaintID.Int64
	}
	if assignedTo.Valid {
		w.AssignedTo = &assignedTo.Int64
	}
	if scheduled.Valid {
		w.ScheduledFor = &scheduled.Time
	}
	if completed.Valid {
		w.CompletedAt = &completed.Time
	}
	return &w, nil
}

type WorkOrderFilter struct {
	Status  string
	AssetID string
}

func (r *WorkOrdersRepository) List(ctx context.Context, f WorkOrderFilter) ([]models.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE 1=1`
	args := []interface{}{}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.AssetID != "" {
		args = append(args, f.AssetID)
		query += fmt.Sprintf(" AND asset_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()

	out := []models.WorkOrder{}
	for rows.Next() {
		w, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

func (r *WorkOrdersRepository) GetByID(ctx context.Context, id int64) (*models.WorkOrder, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+workOrderColumns+` FROM work_orders WHERE id = $1`, id)
	w, err := scanWorkOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get work order: %w", err)
	}
	return w, nil
}

func (r *WorkOrdersRepository) Create(ctx context.Context, w *models.WorkOrder) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO work_orders (asset_id, complaint_id, title, description, status,
		        priority, assigned_to, labor_hours, parts_cost, scheduled_for)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		w.AssetID, w.ComplaintID, w.Title, w.Description, w.Status,
		w.Priority, w.AssignedTo, w.LaborHours, w.PartsCost, w.ScheduledFor,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create work order: %w", err)
	}
	return nil
}

func (r *WorkOrdersRepository) Update(ctx context.Context, w *models.WorkOrder) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE work_orders SET title = $1, description = $2, status = $3, priority = $4,
		        assigned_to = $5, labor_hours = $6, parts_cost = $7,
		        scheduled_for = $8, completed_at = $9, updated_at = NOW()
		 WHERE id = $10`,
		w.Title, w.Description, w.Status, w.Priority,
		w.AssignedTo, w.LaborHours, w.PartsCost, w.ScheduledFor, w.CompletedAt, w.ID)
	if err != nil {
		return fmt.Errorf("update work order: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *WorkOrdersRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete work order: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *WorkOrdersRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM work_orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count work orders: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
