// repository/postgres_complaints.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"bmeams/models"
)

type ComplaintsRepository struct {
	db *sql.DB
}

func NewComplaintsRepository(db *sql.DB) *ComplaintsRepository {
	return &ComplaintsRepository{db: db}
}

const complaintColumns = `id, asset_id, title, description, status, priority,
	reported_by, assigned_to, department, sla_due_at, resolved_at, created_at, updated_at`

func scanComplaint(row interface{ Scan(...interface{}) error }) (*models.Complaint, error) {
	var c models.Complaint
	var reportedBy, assignedTo sql.NullInt64
	var slaDue, resolved sql.NullTime
	err := row.Scan(&c.ID, &c.AssetID, &c.Title, &c.Description, &c.Status, &c.Priority,
		&reportedBy, &assignedTo, &c.Department, &slaDue, &resolved, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if reportedBy.Valid {
		c.ReportedBy = &reportedBy.Int64
	}
	if assignedTo.Valid {
		c.AssignedTo = &assignedTo.Int64
	}
	if slaDue.Valid {
		c.SLADueAt = &slaDue.Time
	}
	if resolved.Valid {
		c.ResolvedAt = &resolved.Time
	}
	return &c, nil
}

// ComplaintFilter narrows List; zero values mean no constraint.
type ComplaintFilter struct {
	Status     string
	AssetID    string
	Department string
}

func (r *ComplaintsRepository) List(ctx context.Context, f ComplaintFilter) ([]models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE 1=1`
	args := []interface{}{}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.AssetID != "" {
		args = append(args, f.AssetID)
		query += fmt.Sprintf(" AND asset_id = $%d", len(args))
	}
	if f.Department != "" {
		args = append(args, f.Department)
		query += fmt.Sprintf(" AND department = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	out := []models.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *ComplaintsRepository) GetByID(ctx context.Context, id int64) (*models.Complaint, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, id)
	c, err := scanComplaint(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get complaint: %w", err)
	}
	return c, nil
}

func (r *ComplaintsRepository) Create(ctx context.Context, c *models.Complaint) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO complaints (asset_id, title, description, status, priority,
		        reported_by, assigned_to, department, sla_due_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		c.AssetID, c.Title, c.Description, c.Status, c.Priority,
		c.ReportedBy, c.AssignedTo, c.Department, c.SLADueAt,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create complaint: %w", err)
	}
	return nil
}

func (r *ComplaintsRepository) Update(ctx context.Context, c *models.Complaint) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE complaints SET title = $1, description = $2, status = $3, priority = $4,
		        assigned_to = $5, sla_due_at = $6, resolved_at = $7, updated_at = NOW()
		 WHERE id = $8`,
		c.Title, c.Description, c.Status, c.Priority,
		c.AssignedTo, c.SLADueAt, c.ResolvedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update complaint: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ComplaintsRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete complaint: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ComplaintsRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM complaints GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count complaints: %w", err)
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
