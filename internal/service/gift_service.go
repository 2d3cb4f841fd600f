package service

import (
	"context"
	"errors"
	"strings"

	"casamento/internal/models"
	"casamento/internal/repository"
	"casamento/internal/validation"
)

var ErrGiftNotFound = errors.New("gift not found")

// GiftService manages the gift catalog
type GiftService struct {
	giftRepo *repository.GiftRepository
}

// NewGiftService creates a new gift service
func NewGiftService(giftRepo *repository.GiftRepository) *GiftService {
	return &GiftService{giftRepo: giftRepo}
}

// List returns the whole catalog ordered by id
func (s *GiftService) List(ctx context.Context) ([]models.Gift, error) {
	gifts, err := s.giftRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if gifts == nil {
		gifts = []models.Gift{}
	}
	return gifts, nil
}

// Create validates and stores a new catalog entry
func (s *GiftService) Create(ctx context.Context, g *models.Gift) error {
	g.Name = strings.TrimSpace(g.Name)
	if err := validation.ValidateGift(g.Name, int64(g.Price)); err != nil {
		return err
	}
	return s.giftRepo.Create(ctx, g)
}

// Delete removes a catalog entry
func (s *GiftService) Delete(ctx context.Context, id int64) error {
	g, err := s.giftRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return ErrGiftNotFound
	}
	return s.giftRepo.Delete(ctx, id)
}
