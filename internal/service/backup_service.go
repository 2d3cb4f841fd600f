package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"casamento/internal/database"
	"casamento/internal/models"
	"casamento/internal/repository"
)

// BackupVersion is written to every export
const BackupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string           `json:"version"`
	ExportedAt   time.Time        `json:"exported_at"`
	DatabaseType string           `json:"database_type"`
	Guests       []GuestBackup    `json:"guests"`
	Gifts        []GiftBackup     `json:"gifts"`
	Purchases    []PurchaseBackup `json:"purchases"`
}

// GuestBackup represents a guest record for backup
type GuestBackup struct {
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	InvitationCode   string    `json:"invitation_code"`
	RSVPStatusFirst  string    `json:"rsvp_status_first"`
	RSVPStatusSecond string    `json:"rsvp_status_second"`
	CreatedAt        time.Time `json:"created_at"`
}

// GiftBackup represents a catalog entry for backup
type GiftBackup struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"price_cents"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// PurchaseBackup represents a purchase and its lines for backup
type PurchaseBackup struct {
	PreferenceID string               `json:"preference_id"`
	TotalCents   int64                `json:"total_cents"`
	CreatedAt    time.Time            `json:"created_at"`
	Items        []PurchaseItemBackup `json:"items"`
}

// PurchaseItemBackup represents one purchase line
type PurchaseItemBackup struct {
	ItemRef        string `json:"item_ref"`
	Title          string `json:"title"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// ImportStats counts what an import actually wrote
type ImportStats struct {
	Guests    int
	Gifts     int
	Purchases int
	Skipped   int
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db  *database.DB
	log zerolog.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, log zerolog.Logger) *BackupService {
	return &BackupService{db: db, log: log}
}

// Export writes a backup to outputPath
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(ctx, file); err != nil {
		return err
	}
	s.log.Info().Str("path", outputPath).Msg("database exported")
	return nil
}

// ExportToWriter writes a backup as indented JSON
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	backup, err := s.collect(ctx)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	s.log.Info().
		Int("guests", len(backup.Guests)).
		Int("gifts", len(backup.Gifts)).
		Int("purchases", len(backup.Purchases)).
		Msg("backup written")
	return nil
}

func (s *BackupService) collect(ctx context.Context) (*BackupData, error) {
	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.DriverName(),
		Guests:       []GuestBackup{},
		Gifts:        []GiftBackup{},
		Purchases:    []PurchaseBackup{},
	}

	guests, err := repository.NewGuestRepository(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export guests: %w", err)
	}
	for _, g := range guests {
		backup.Guests = append(backup.Guests, GuestBackup{
			Name:             g.Name,
			Email:            g.Email,
			Phone:            g.Phone,
			InvitationCode:   g.InvitationCode,
			RSVPStatusFirst:  string(g.Status(models.EventFirst)),
			RSVPStatusSecond: string(g.Status(models.EventSecond)),
			CreatedAt:        g.CreatedAt,
		})
	}

	gifts, err := repository.NewGiftRepository(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export gifts: %w", err)
	}
	for _, g := range gifts {
		backup.Gifts = append(backup.Gifts, GiftBackup{
			ID:          g.ID,
			Name:        g.Name,
			PriceCents:  int64(g.Price),
			Image:       g.Image,
			Description: g.Description,
		})
	}

	purchases, err := repository.NewPurchaseRepository(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export purchases: %w", err)
	}
	for _, p := range purchases {
		pb := PurchaseBackup{
			PreferenceID: p.PreferenceID,
			TotalCents:   int64(p.Total),
			CreatedAt:    p.CreatedAt,
			Items:        make([]PurchaseItemBackup, 0, len(p.Items)),
		}
		for _, it := range p.Items {
			pb.Items = append(pb.Items, PurchaseItemBackup{
				ItemRef:        it.ID,
				Title:          it.Title,
				Quantity:       it.Quantity,
				UnitPriceCents: int64(it.UnitPrice),
			})
		}
		backup.Purchases = append(backup.Purchases, pb)
	}

	return backup, nil
}

// Import restores a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) (ImportStats, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return ImportStats{}, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()
	return s.ImportFromReader(ctx, file)
}

// ImportFromReader merges a backup into the database. Guests are matched by invitation
// code and overwritten, gifts are matched by name, and purchases already present by
// preference id are skipped. Gifts get new ids in the target database.
func (s *BackupService) ImportFromReader(ctx context.Context, reader io.Reader) (ImportStats, error) {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return ImportStats{}, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return ImportStats{}, fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	s.log.Info().
		Str("version", backup.Version).
		Time("exported_at", backup.ExportedAt).
		Str("source", backup.DatabaseType).
		Msg("starting import")

	var stats ImportStats
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		if err := importGuests(ctx, repository.NewGuestRepository(tx), backup.Guests, &stats); err != nil {
			return fmt.Errorf("failed to import guests: %w", err)
		}
		if err := importGifts(ctx, repository.NewGiftRepository(tx), backup.Gifts, &stats); err != nil {
			return fmt.Errorf("failed to import gifts: %w", err)
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, err
	}

	// Purchases open their own transaction per purchase
	if err := s.importPurchases(ctx, backup.Purchases, &stats); err != nil {
		return stats, fmt.Errorf("failed to import purchases: %w", err)
	}

	s.log.Info().
		Int("guests", stats.Guests).
		Int("gifts", stats.Gifts).
		Int("purchases", stats.Purchases).
		Int("skipped", stats.Skipped).
		Msg("import completed")
	return stats, nil
}

func importGuests(ctx context.Context, repo *repository.GuestRepository, guests []GuestBackup, stats *ImportStats) error {
	for _, gb := range guests {
		g := &models.Guest{
			Name:             gb.Name,
			Email:            gb.Email,
			Phone:            gb.Phone,
			InvitationCode:   gb.InvitationCode,
			RSVPStatusFirst:  models.RSVPStatus(gb.RSVPStatusFirst),
			RSVPStatusSecond: models.RSVPStatus(gb.RSVPStatusSecond),
		}

		existing, err := repo.GetByCode(ctx, g.InvitationCode)
		if err != nil {
			return err
		}
		if existing != nil {
			err = repo.Update(ctx, g)
		} else {
			err = repo.Create(ctx, g)
		}
		if err != nil {
			return fmt.Errorf("guest %s: %w", g.InvitationCode, err)
		}
		stats.Guests++
	}
	return nil
}

func importGifts(ctx context.Context, repo *repository.GiftRepository, gifts []GiftBackup, stats *ImportStats) error {
	current, err := repo.List(ctx)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(current))
	for _, g := range current {
		seen[strings.ToLower(g.Name)] = true
	}

	for _, gb := range gifts {
		key := strings.ToLower(gb.Name)
		if seen[key] {
			stats.Skipped++
			continue
		}
		g := &models.Gift{
			Name:        gb.Name,
			Price:       models.Money(gb.PriceCents),
			Image:       gb.Image,
			Description: gb.Description,
		}
		if err := repo.Create(ctx, g); err != nil {
			return fmt.Errorf("gift %q: %w", gb.Name, err)
		}
		seen[key] = true
		stats.Gifts++
	}
	return nil
}

func (s *BackupService) importPurchases(ctx context.Context, purchases []PurchaseBackup, stats *ImportStats) error {
	repo := repository.NewPurchaseRepository(s.db)
	for _, pb := range purchases {
		existing, err := repo.GetByPreferenceID(ctx, pb.PreferenceID)
		if err != nil {
			return err
		}
		if existing != nil {
			stats.Skipped++
			continue
		}

		p := &models.Purchase{
			PreferenceID: pb.PreferenceID,
			Total:        models.Money(pb.TotalCents),
			Items:        make([]models.PurchaseItem, 0, len(pb.Items)),
		}
		for _, it := range pb.Items {
			p.Items = append(p.Items, models.PurchaseItem{
				ID:        it.ItemRef,
				Title:     it.Title,
				Quantity:  it.Quantity,
				UnitPrice: models.Money(it.UnitPriceCents),
			})
		}
		if err := repo.Create(ctx, p); err != nil {
			return fmt.Errorf("purchase %s: %w", pb.PreferenceID, err)
		}
		stats.Purchases++
	}
	return nil
}
