package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"casamento/internal/database"
	"casamento/internal/models"
)

// ErrDuplicateCode is returned when an invitation code is already taken
var ErrDuplicateCode = errors.New("invitation code already exists")

// GuestRepository handles database operations for guests
type GuestRepository struct {
	db database.DBTX
}

// NewGuestRepository creates a new guest repository
func NewGuestRepository(db database.DBTX) *GuestRepository {
	return &GuestRepository{db: db}
}

const guestColumns = "id, name, email, phone, invitation_code, rsvp_status_first, rsvp_status_second, created_at, updated_at"

func scanGuest(row interface{ Scan(...any) error }) (*models.Guest, error) {
	g := &models.Guest{}
	var first, second string
	err := row.Scan(&g.ID, &g.Name, &g.Email, &g.Phone, &g.InvitationCode, &first, &second, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	g.RSVPStatusFirst = models.RSVPStatus(first)
	g.RSVPStatusSecond = models.RSVPStatus(second)
	return g, nil
}

// Create inserts a guest and fills in its ID
func (r *GuestRepository) Create(ctx context.Context, g *models.Guest) error {
	if g.RSVPStatusFirst == "" {
		g.RSVPStatusFirst = models.RSVPPending
	}
	if g.RSVPStatusSecond == "" {
		g.RSVPStatusSecond = models.RSVPPending
	}

	query := `INSERT INTO guests (name, email, phone, invitation_code, rsvp_status_first, rsvp_status_second)
		VALUES (?, ?, ?, ?, ?, ?)`
	id, err := r.db.ExecReturningID(ctx, query,
		g.Name, g.Email, g.Phone, g.InvitationCode, string(g.RSVPStatusFirst), string(g.RSVPStatusSecond))
	if err != nil {
		if r.db.GetDialect().IsUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("failed to create guest: %w", err)
	}

	now := time.Now()
	g.ID = id
	g.CreatedAt = now
	g.UpdatedAt = now
	return nil
}

// GetByCode retrieves a guest by invitation code. Unknown codes return nil, nil.
func (r *GuestRepository) GetByCode(ctx context.Context, code string) (*models.Guest, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+guestColumns+" FROM guests WHERE invitation_code = ?", code)
	g, err := scanGuest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}
	return g, nil
}

// List returns all guests ordered by name
func (r *GuestRepository) List(ctx context.Context) ([]models.Guest, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+guestColumns+" FROM guests ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query guests: %w", err)
	}
	defer rows.Close()

	var guests []models.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, *g)
	}
	return guests, rows.Err()
}

// Update writes the editable fields and statuses of g, matched by invitation code
func (r *GuestRepository) Update(ctx context.Context, g *models.Guest) error {
	query := `UPDATE guests SET name = ?, email = ?, phone = ?, rsvp_status_first = ?, rsvp_status_second = ?,
		updated_at = CURRENT_TIMESTAMP WHERE invitation_code = ?`
	res, err := r.db.ExecContext(ctx, query,
		g.Name, g.Email, g.Phone, string(g.RSVPStatusFirst), string(g.RSVPStatusSecond), g.InvitationCode)
	if err != nil {
		return fmt.Errorf("failed to update guest: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	g.UpdatedAt = time.Now()
	return nil
}

// Delete removes a guest by invitation code
func (r *GuestRepository) Delete(ctx context.Context, code string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM guests WHERE invitation_code = ?", code); err != nil {
		return fmt.Errorf("failed to delete guest: %w", err)
	}
	return nil
}

// CountByStatus tallies answers for one event
func (r *GuestRepository) CountByStatus(ctx context.Context, event models.Event) (map[models.RSVPStatus]int, error) {
	column := "rsvp_status_first"
	if event == models.EventSecond {
		column = "rsvp_status_second"
	}

	rows, err := r.db.QueryContext(ctx, "SELECT "+column+", COUNT(*) FROM guests GROUP BY "+column)
	if err != nil {
		return nil, fmt.Errorf("failed to count rsvp statuses: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.RSVPStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan rsvp count: %w", err)
		}
		counts[models.RSVPStatus(status)] = n
	}
	return counts, rows.Err()
}
