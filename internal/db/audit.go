package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gontrel-admin/internal/models"
)

// AuditEntry is one committed status change, attributed to the operator
// who saved it.
type AuditEntry struct {
	ID        uuid.UUID        `json:"id"`
	StaffID   uuid.UUID        `json:"staff_id"`
	TableKind models.TableKind `json:"table_kind"`
	ChangeKey string           `json:"change_key"`
	EntityID  string           `json:"entity_id"`
	NewStatus models.Status    `json:"new_status"`
	Comment   string           `json:"comment,omitempty"`
	CreatedAt time.Time        `json:"created_at"`

	// Populated via JOIN for display
	StaffName  string `json:"staff_name,omitempty"`
	StaffEmail string `json:"staff_email,omitempty"`
}

// RecordCommit writes one audit row per committed change, in a single
// transaction so a batch appears atomically in the trail.
func (d *DB) RecordCommit(ctx context.Context, staffID uuid.UUID, committed []models.CommittedChange) error {
	if len(committed) == 0 {
		return nil
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO moderation_audit (staff_id, table_kind, change_key, entity_id, new_status, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, ch := range committed {
		if _, err := tx.Exec(ctx, query,
			staffID, string(ch.Kind), ch.ChangeKey, ch.EntityID, string(ch.NewStatus), ch.Comment, ch.CommittedAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ListAuditEntries returns the most recent audit rows, optionally scoped
// to one entity.
func (d *DB) ListAuditEntries(ctx context.Context, entityID string, limit int) ([]AuditEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT a.id, a.staff_id, a.table_kind, a.change_key, a.entity_id, a.new_status,
			COALESCE(a.comment, ''), a.created_at,
			COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM moderation_audit a
		JOIN staff_users u ON u.id = a.staff_id
	`
	args := []any{limit}
	if entityID != "" {
		query += ` WHERE a.entity_id = $2`
		args = append(args, entityID)
	}
	query += ` ORDER BY a.created_at DESC LIMIT $1`

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(
			&e.ID, &e.StaffID, &e.TableKind, &e.ChangeKey, &e.EntityID, &e.NewStatus,
			&e.Comment, &e.CreatedAt, &e.StaffName, &e.StaffEmail,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
