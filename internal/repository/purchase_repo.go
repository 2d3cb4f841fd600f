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

// PurchaseRepository handles database operations for purchases and their items
type PurchaseRepository struct {
	db *database.DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *database.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// Create stores a purchase with all its items in one transaction
func (r *PurchaseRepository) Create(ctx context.Context, p *models.Purchase) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		id, err := tx.ExecReturningID(ctx,
			"INSERT INTO purchases (preference_id, total_cents) VALUES (?, ?)",
			p.PreferenceID, int64(p.Total))
		if err != nil {
			return fmt.Errorf("failed to create purchase: %w", err)
		}

		for _, it := range p.Items {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO purchase_items (purchase_id, item_ref, title, quantity, unit_price_cents) VALUES (?, ?, ?, ?, ?)",
				id, it.ID, it.Title, it.Quantity, int64(it.UnitPrice))
			if err != nil {
				return fmt.Errorf("failed to add purchase item: %w", err)
			}
		}

		p.ID = id
		p.CreatedAt = time.Now()
		return nil
	})
}

// GetByPreferenceID loads a purchase with its items. Unknown ids return nil, nil.
func (r *PurchaseRepository) GetByPreferenceID(ctx context.Context, prefID string) (*models.Purchase, error) {
	p := &models.Purchase{}
	var total int64
	err := r.db.QueryRowContext(ctx,
		"SELECT id, preference_id, total_cents, created_at FROM purchases WHERE preference_id = ?", prefID).
		Scan(&p.ID, &p.PreferenceID, &total, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	p.Total = models.Money(total)

	items, err := r.items(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Items = items
	return p, nil
}

// List returns all purchases, newest first, with their items
func (r *PurchaseRepository) List(ctx context.Context) ([]models.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, preference_id, total_cents, created_at FROM purchases ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}

	var purchases []models.Purchase
	for rows.Next() {
		var p models.Purchase
		var total int64
		if err := rows.Scan(&p.ID, &p.PreferenceID, &total, &p.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		p.Total = models.Money(total)
		purchases = append(purchases, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range purchases {
		items, err := r.items(ctx, purchases[i].ID)
		if err != nil {
			return nil, err
		}
		purchases[i].Items = items
	}
	return purchases, nil
}

func (r *PurchaseRepository) items(ctx context.Context, purchaseID int64) ([]models.PurchaseItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT item_ref, title, quantity, unit_price_cents FROM purchase_items WHERE purchase_id = ? ORDER BY id", purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase items: %w", err)
	}
	defer rows.Close()

	var items []models.PurchaseItem
	for rows.Next() {
		var it models.PurchaseItem
		var price int64
		if err := rows.Scan(&it.ID, &it.Title, &it.Quantity, &price); err != nil {
			return nil, fmt.Errorf("failed to scan purchase item: %w", err)
		}
		it.UnitPrice = models.Money(price)
		items = append(items, it)
	}
	return items, rows.Err()
}
