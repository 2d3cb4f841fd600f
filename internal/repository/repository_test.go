package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"casamento/internal/database"
	"casamento/internal/models"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}
	db, err := database.Open("sqlite3", filepath.Join(t.TempDir(), "repo.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	return db
}

func TestGuestRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewGuestRepository(db)
	ctx := context.Background()

	g := &models.Guest{Name: "Maria", Email: "maria@example.com", InvitationCode: "ABC123"}
	if err := repo.Create(ctx, g); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if g.ID == 0 || g.RSVPStatusFirst != models.RSVPPending {
		t.Errorf("Create() left guest %+v", g)
	}

	if err := repo.Create(ctx, &models.Guest{Name: "Outra", InvitationCode: "ABC123"}); !errors.Is(err, ErrDuplicateCode) {
		t.Errorf("duplicate Create() error = %v, want ErrDuplicateCode", err)
	}

	got, err := repo.GetByCode(ctx, "ABC123")
	if err != nil || got == nil {
		t.Fatalf("GetByCode() = %v, %v", got, err)
	}
	if got.Name != "Maria" || got.Status(models.EventSecond) != models.RSVPPending {
		t.Errorf("GetByCode() = %+v", got)
	}

	got.Name = "Maria Silva"
	got.RSVPStatusSecond = models.RSVPConfirmed
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	again, _ := repo.GetByCode(ctx, "ABC123")
	if again.Name != "Maria Silva" || again.RSVPStatusSecond != models.RSVPConfirmed {
		t.Errorf("after Update() = %+v", again)
	}

	if err := repo.Update(ctx, &models.Guest{InvitationCode: "NOPE00"}); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Update(unknown) error = %v, want sql.ErrNoRows", err)
	}

	missing, err := repo.GetByCode(ctx, "ZZZ999")
	if err != nil || missing != nil {
		t.Errorf("GetByCode(unknown) = %v, %v, want nil, nil", missing, err)
	}

	counts, err := repo.CountByStatus(ctx, models.EventSecond)
	if err != nil {
		t.Fatal(err)
	}
	if counts[models.RSVPConfirmed] != 1 {
		t.Errorf("CountByStatus() = %v", counts)
	}
}

func TestGiftRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewGiftRepository(db)
	ctx := context.Background()

	for _, g := range []*models.Gift{
		{Name: "Cafeteira", Price: 2000, Image: "/static/gifts/cafeteira.jpg"},
		{Name: "Ferro de passar", Price: 999},
	} {
		if err := repo.Create(ctx, g); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	gifts, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(gifts) != 2 || gifts[0].Name != "Cafeteira" || gifts[1].Price != 999 {
		t.Errorf("List() = %+v", gifts)
	}

	if err := repo.Delete(ctx, gifts[0].ID); err != nil {
		t.Fatal(err)
	}
	if g, _ := repo.GetByID(ctx, gifts[0].ID); g != nil {
		t.Errorf("GetByID() after delete = %+v", g)
	}
}

func TestPurchaseRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewPurchaseRepository(db)
	ctx := context.Background()

	p := &models.Purchase{
		PreferenceID: "pref-1",
		Items: []models.PurchaseItem{
			{ID: "3", Title: "Cafeteira", Quantity: 2, UnitPrice: 2000},
			{ID: "5", Title: "Ferro", Quantity: 1, UnitPrice: 999},
		},
		Total: 4999,
	}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByPreferenceID(ctx, "pref-1")
	if err != nil || got == nil {
		t.Fatalf("GetByPreferenceID() = %v, %v", got, err)
	}
	if got.Total != 4999 || len(got.Items) != 2 || got.Items[0].Quantity != 2 {
		t.Errorf("GetByPreferenceID() = %+v", got)
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 1 {
		t.Errorf("List() = %v, %v", all, err)
	}
}
