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

// GiftRepository handles database operations for the gift catalog
type GiftRepository struct {
	db database.DBTX
}

// NewGiftRepository creates a new gift repository
func NewGiftRepository(db database.DBTX) *GiftRepository {
	return &GiftRepository{db: db}
}

// Create inserts a gift and fills in its ID
func (r *GiftRepository) Create(ctx context.Context, g *models.Gift) error {
	query := "INSERT INTO gifts (name, price_cents, image, description) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(ctx, query, g.Name, int64(g.Price), g.Image, g.Description)
	if err != nil {
		return fmt.Errorf("failed to create gift: %w", err)
	}
	g.ID = id
	g.CreatedAt = time.Now()
	return nil
}

// List returns the catalog ordered by id
func (r *GiftRepository) List(ctx context.Context) ([]models.Gift, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, price_cents, image, description, created_at FROM gifts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query gifts: %w", err)
	}
	defer rows.Close()

	var gifts []models.Gift
	for rows.Next() {
		var g models.Gift
		var price int64
		if err := rows.Scan(&g.ID, &g.Name, &price, &g.Image, &g.Description, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gift: %w", err)
		}
		g.Price = models.Money(price)
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}

// GetByID retrieves a gift. Unknown ids return nil, nil.
func (r *GiftRepository) GetByID(ctx context.Context, id int64) (*models.Gift, error) {
	g := &models.Gift{}
	var price int64
	err := r.db.QueryRowContext(ctx, "SELECT id, name, price_cents, image, description, created_at FROM gifts WHERE id = ?", id).
		Scan(&g.ID, &g.Name, &price, &g.Image, &g.Description, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gift: %w", err)
	}
	g.Price = models.Money(price)
	return g, nil
}

// Delete removes a gift
func (r *GiftRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM gifts WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete gift: %w", err)
	}
	return nil
}
