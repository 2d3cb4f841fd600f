package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"casamento/internal/credentials"
	"casamento/internal/models"
	"casamento/internal/repository"
	"casamento/internal/validation"
)

var (
	ErrGuestNotFound  = errors.New("guest not found")
	ErrInvalidStatus  = errors.New("invalid rsvp status")
	ErrEmptyUpdate    = errors.New("update changes nothing")
	ErrCodeExhaustion = errors.New("could not generate a unique invitation code")
)

// codeAttempts bounds retries when a generated invitation code collides
const codeAttempts = 10

// confirmationMailer is implemented by EmailService
type confirmationMailer interface {
	SendRSVPConfirmation(ctx context.Context, guest *models.Guest, event models.Event) error
}

// GuestService handles guest lookups, partial updates and invitations
type GuestService struct {
	guestRepo *repository.GuestRepository
	mailer    confirmationMailer
	log       zerolog.Logger
	newCode   func() (string, error)
}

// NewGuestService creates a new guest service. mailer may be nil.
func NewGuestService(guestRepo *repository.GuestRepository, mailer confirmationMailer, log zerolog.Logger) *GuestService {
	return &GuestService{
		guestRepo: guestRepo,
		mailer:    mailer,
		log:       log,
		newCode:   credentials.GenerateInvitationCode,
	}
}

// GetByCode finds a guest by invitation code
func (s *GuestService) GetByCode(ctx context.Context, code string) (*models.Guest, error) {
	code = strings.TrimSpace(code)
	if err := validation.ValidateInvitationCode(code); err != nil {
		return nil, ErrGuestNotFound
	}

	guest, err := s.guestRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, ErrGuestNotFound
	}
	return guest, nil
}

// Update applies a partial update and returns the stored guest. When an RSVP status
// changes, a confirmation email is sent; mail failures are logged, not returned.
func (s *GuestService) Update(ctx context.Context, u models.GuestUpdate) (*models.Guest, error) {
	if u.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	if err := validateUpdate(u); err != nil {
		return nil, err
	}

	guest, err := s.GetByCode(ctx, u.InvitationCode)
	if err != nil {
		return nil, err
	}

	before := *guest
	u.Apply(guest)
	if err := s.guestRepo.Update(ctx, guest); err != nil {
		return nil, fmt.Errorf("failed to update guest: %w", err)
	}

	for _, e := range models.Events {
		if guest.Status(e) == before.Status(e) {
			continue
		}
		s.log.Info().
			Str("code", guest.InvitationCode).
			Str("event", string(e)).
			Str("status", string(guest.Status(e))).
			Msg("rsvp answered")
		if s.mailer == nil {
			continue
		}
		if err := s.mailer.SendRSVPConfirmation(ctx, guest, e); err != nil {
			s.log.Error().Err(err).Str("code", guest.InvitationCode).Msg("failed to send rsvp confirmation")
		}
	}

	return guest, nil
}

func validateUpdate(u models.GuestUpdate) error {
	if u.Name != nil {
		if err := validation.ValidateName(*u.Name); err != nil {
			return err
		}
	}
	if u.Email != nil {
		if err := validation.ValidateEmail(*u.Email); err != nil {
			return err
		}
	}
	if u.Phone != nil {
		if err := validation.ValidatePhone(*u.Phone); err != nil {
			return err
		}
	}
	for _, s := range []*models.RSVPStatus{u.RSVPStatusFirst, u.RSVPStatusSecond} {
		if s != nil && !s.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, *s)
		}
	}
	return nil
}

// Invite creates a guest with a freshly generated invitation code. Only the name is
// required; email and phone are validated when present.
func (s *GuestService) Invite(ctx context.Context, name, email, phone string) (*models.Guest, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	if email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			return nil, err
		}
	}
	phone = strings.TrimSpace(phone)
	if phone != "" {
		if err := validation.ValidatePhone(phone); err != nil {
			return nil, err
		}
	}

	guest := &models.Guest{Name: name, Email: email, Phone: phone}
	for range codeAttempts {
		code, err := s.newCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate invitation code: %w", err)
		}
		guest.InvitationCode = code

		err = s.guestRepo.Create(ctx, guest)
		if errors.Is(err, repository.ErrDuplicateCode) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.log.Info().Str("code", code).Str("name", name).Msg("guest invited")
		return guest, nil
	}
	return nil, ErrCodeExhaustion
}

// List returns all guests
func (s *GuestService) List(ctx context.Context) ([]models.Guest, error) {
	return s.guestRepo.List(ctx)
}

// Summary tallies answers per event
func (s *GuestService) Summary(ctx context.Context) (map[models.Event]map[models.RSVPStatus]int, error) {
	out := make(map[models.Event]map[models.RSVPStatus]int, len(models.Events))
	for _, e := range models.Events {
		counts, err := s.guestRepo.CountByStatus(ctx, e)
		if err != nil {
			return nil, err
		}
		out[e] = counts
	}
	return out, nil
}
