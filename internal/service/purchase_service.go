package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"casamento/internal/models"
	"casamento/internal/repository"
)

var ErrInvalidPurchase = errors.New("invalid purchase")

// PurchaseService records purchase intents and hands out payment preference ids
type PurchaseService struct {
	purchaseRepo *repository.PurchaseRepository
	log          zerolog.Logger
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(purchaseRepo *repository.PurchaseRepository, log zerolog.Logger) *PurchaseService {
	return &PurchaseService{purchaseRepo: purchaseRepo, log: log}
}

// Create stores the purchase and returns it with a new preference id
func (s *PurchaseService) Create(ctx context.Context, req models.PurchaseRequest) (*models.Purchase, error) {
	if err := validatePurchase(req); err != nil {
		return nil, err
	}

	p := &models.Purchase{
		PreferenceID: uuid.NewString(),
		Items:        req.Items,
		Total:        models.PurchaseTotal(req.Items),
	}
	if err := s.purchaseRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("preference_id", p.PreferenceID).
		Int("items", len(p.Items)).
		Str("total", p.Total.Decimal()).
		Msg("purchase created")
	return p, nil
}

func validatePurchase(req models.PurchaseRequest) error {
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidPurchase)
	}
	for _, it := range req.Items {
		if strings.TrimSpace(it.ID) == "" || strings.TrimSpace(it.Title) == "" {
			return fmt.Errorf("%w: item without id or title", ErrInvalidPurchase)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("%w: quantity of %q must be at least 1", ErrInvalidPurchase, it.ID)
		}
		if it.UnitPrice <= 0 {
			return fmt.Errorf("%w: price of %q must be positive", ErrInvalidPurchase, it.ID)
		}
	}
	return nil
}

// List returns all purchases, newest first
func (s *PurchaseService) List(ctx context.Context) ([]models.Purchase, error) {
	return s.purchaseRepo.List(ctx)
}
