// repository/postgres_maintenance.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"bmeams/models"
)

type MaintenanceRepository struct {
	db *sql.DB
}

func NewMaintenanceRepository(db *sql.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

const pmColumns = `id, asset_id, title, description, status, frequency,
	assigned_to, scheduled_for, completed_at, checklist, created_at, updated_at`

func scanPM(row interface{ Scan(...interface{}) error }) (*models.PreventiveMaintenance, error) {
	var m models.PreventiveMaintenance
	var assignedTo sql.NullInt64
	var completed sql.NullTime
	var checklist []byte
	err := row.Scan(&m.ID, &m.AssetID, &m.Title, &m.Description, &m.Status, &m.Frequency,
		&assignedTo, &m.ScheduledFor, &completed, &checklist, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if assignedTo.Valid {
		m.AssignedTo = &assignedTo.Int64
	}
	if completed.Valid {
		m.CompletedAt = &completed.Time
	}
	if len(checklist) > 0 {
		_ = json.Unmarshal(checklist, &m.Checklist)
	}
	return &m, nil
}

type MaintenanceFilter struct {
	Status    string
	AssetID   string
	DueWithin time.Duration
}

func (r *MaintenanceRepository) List(ctx context.Context, f MaintenanceFilter) ([]models.PreventiveMaintenance, error) {
	query := `SELECT ` + pmColumns + ` FROM preventive_maintenance WHERE 1=1`
	args := []interface{}{}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.AssetID != "" {
		args = append(args, f.AssetID)
		query += fmt.Sprintf(" AND asset_id = $%d", len(args))
	}
	if f.DueWithin > 0 {
		args = append(args, time.Now().Add(f.DueWithin))
		query += fmt.Sprintf(" AND scheduled_for <= $%d AND completed_at IS NULL", len(args))
	}
	query += " ORDER BY scheduled_for ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list preventive maintenance: %w", err)
	}
	defer rows.Close()

	out := []models.PreventiveMaintenance{}
	for rows.Next() {
		m, err := scanPM(rows)
		if err != nil {
			return nil, fmt.Errorf("scan preventive maintenance: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *MaintenanceRepository) GetByID(ctx context.Context, id int64) (*models.PreventiveMaintenance, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+pmColumns+` FROM preventive_maintenance WHERE id = $1`, id)
	m, err := scanPM(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get preventive maintenance: %w", err)
	}
	return m, nil
}

func (r *MaintenanceRepository) Create(ctx context.Context, m *models.PreventiveMaintenance) error {
	checklist, err := json.Marshal(m.Checklist)
	if err != nil {
		return fmt.Errorf("marshal checklist: %w", err)
	}
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO preventive_maintenance (asset_id, title, description, status,
		        frequency, assigned_to, scheduled_for, checklist)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		m.AssetID, m.Title, m.Description, m.Status,
		m.Frequency, m.AssignedTo, m.ScheduledFor, checklist,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create preventive maintenance: %w", err)
	}
	return nil
}

func (r *MaintenanceRepository) Update(ctx context.Context, m *models.PreventiveMaintenance) error {
	checklist, err := json.Marshal(m.Checklist)
	if err != nil {
		return fmt.Errorf("marshal checklist: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE preventive_maintenance SET title = $1, description = $2, status = $3,
		        frequency = $4, assigned_to = $5, scheduled_for = $6,
		        completed_at = $7, checklist = $8, updated_at = NOW()
		 WHERE id = $9`,
		m.Title, m.Description, m.Status, m.Frequency,
		m.AssignedTo, m.ScheduledFor, m.CompletedAt, checklist, m.ID)
	if err != nil {
		return fmt.Errorf("update preventive maintenance: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MaintenanceRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM preventive_maintenance WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete preventive maintenance: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountDueWithin counts open PM rows scheduled inside the next window.
func (r *MaintenanceRepository) CountDueWithin(ctx context.Context, window time.Duration) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM preventive_maintenance
		 WHERE completed_at IS NULL AND scheduled_for <= $1`,
		time.Now().Add(window)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count due maintenance: %w", err)
	}
	return n, nil
}
