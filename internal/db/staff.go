package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"gontrel-admin/internal/models"
)

var ErrStaffNotFound = errors.New("staff user not found")

const staffColumns = "id, sub, email, name, picture, role, active, created_at, updated_at"

func scanStaff(row pgx.Row) (*models.StaffUser, error) {
	var u models.StaffUser
	err := row.Scan(&u.ID, &u.Sub, &u.Email, &u.Name, &u.Picture, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertStaffUser inserts or refreshes a staff user on OIDC login. New
// users start as viewers; role changes are an explicit admin action.
func (d *DB) UpsertStaffUser(ctx context.Context, sub, email, name, picture string) (*models.StaffUser, error) {
	query := `
		INSERT INTO staff_users (sub, email, name, picture, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sub) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			picture = EXCLUDED.picture,
			updated_at = NOW()
		RETURNING ` + staffColumns
	return scanStaff(d.Pool.QueryRow(ctx, query, sub, email, name, picture, models.RoleViewer))
}

// GetStaffBySub retrieves a staff user by OIDC subject.
func (d *DB) GetStaffBySub(ctx context.Context, sub string) (*models.StaffUser, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_users WHERE sub = $1 AND active`
	return scanStaff(d.Pool.QueryRow(ctx, query, sub))
}

// GetStaffByID retrieves a staff user by ID, active or not.
func (d *DB) GetStaffByID(ctx context.Context, id uuid.UUID) (*models.StaffUser, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_users WHERE id = $1`
	return scanStaff(d.Pool.QueryRow(ctx, query, id))
}

// ListStaff returns all staff users ordered by creation time.
func (d *DB) ListStaff(ctx context.Context) ([]models.StaffUser, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_users ORDER BY created_at ASC`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []models.StaffUser
	for rows.Next() {
		u, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		staff = append(staff, *u)
	}
	return staff, rows.Err()
}

// UpdateStaffRole changes a staff user's role.
func (d *DB) UpdateStaffRole(ctx context.Context, id uuid.UUID, role string) error {
	tag, err := d.Pool.Exec(ctx,
		`UPDATE staff_users SET role = $2, updated_at = NOW() WHERE id = $1`, id, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaffNotFound
	}
	return nil
}

// SetStaffActive activates or deactivates a staff account. Deactivated
// users keep their audit history but cannot log in.
func (d *DB) SetStaffActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := d.Pool.Exec(ctx,
		`UPDATE staff_users SET active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaffNotFound
	}
	return nil
}
