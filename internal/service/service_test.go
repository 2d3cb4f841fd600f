package service

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/rs/zerolog"

	"casamento/internal/credentials"
	"casamento/internal/database"
	"casamento/internal/models"
	"casamento/internal/repository"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}
	db, err := database.Open("sqlite3", filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	return db
}

type sentMail struct {
	code  string
	event models.Event
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendRSVPConfirmation(_ context.Context, g *models.Guest, e models.Event) error {
	m.sent = append(m.sent, sentMail{code: g.InvitationCode, event: e})
	return m.err
}

func strPtr(s string) *string { return &s }

func TestGuestServiceUpdate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := repository.NewGuestRepository(db)
	mailer := &fakeMailer{err: errors.New("ses down")}
	svc := NewGuestService(repo, mailer, zerolog.Nop())

	if err := repo.Create(ctx, &models.Guest{Name: "Maria", InvitationCode: "ABC123"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("field update keeps statuses", func(t *testing.T) {
		g, err := svc.Update(ctx, models.FieldUpdate("ABC123", models.FieldName, "Maria Silva"))
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if g.Name != "Maria Silva" || g.Status(models.EventFirst) != models.RSVPPending {
			t.Errorf("Update() = %+v", g)
		}
		if len(mailer.sent) != 0 {
			t.Errorf("mail sent for a contact update: %v", mailer.sent)
		}
	})

	t.Run("status change sends confirmation even if mail fails", func(t *testing.T) {
		g, err := svc.Update(ctx, models.StatusUpdate("ABC123", models.EventSecond, models.RSVPConfirmed))
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if g.Status(models.EventSecond) != models.RSVPConfirmed {
			t.Errorf("second status = %v", g.Status(models.EventSecond))
		}
		if len(mailer.sent) != 1 || mailer.sent[0].event != models.EventSecond {
			t.Errorf("sent = %v, want one mail for the second event", mailer.sent)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := svc.Update(ctx, models.FieldUpdate("ZZZ999", models.FieldName, "Ana Souza"))
		if !errors.Is(err, ErrGuestNotFound) {
			t.Errorf("Update() error = %v, want ErrGuestNotFound", err)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.Update(ctx, models.StatusUpdate("ABC123", models.EventFirst, models.RSVPStatus("maybe")))
		if !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("Update() error = %v, want ErrInvalidStatus", err)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := svc.Update(ctx, models.GuestUpdate{InvitationCode: "ABC123", Email: strPtr("nope")})
		if err == nil {
			t.Error("Update() accepted an invalid email")
		}
	})

	t.Run("empty update", func(t *testing.T) {
		_, err := svc.Update(ctx, models.GuestUpdate{InvitationCode: "ABC123"})
		if !errors.Is(err, ErrEmptyUpdate) {
			t.Errorf("Update() error = %v, want ErrEmptyUpdate", err)
		}
	})
}

func TestGuestServiceGetByCodeRejectsMalformedCodes(t *testing.T) {
	db := openTestDB(t)
	svc := NewGuestService(repository.NewGuestRepository(db), nil, zerolog.Nop())

	for _, code := range []string{"", "ABC", "ABC1234", "ABC 12"} {
		if _, err := svc.GetByCode(context.Background(), code); !errors.Is(err, ErrGuestNotFound) {
			t.Errorf("GetByCode(%q) error = %v, want ErrGuestNotFound", code, err)
		}
	}
}

func TestGuestServiceInviteRetriesOnCollision(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := repository.NewGuestRepository(db)
	svc := NewGuestService(repo, nil, zerolog.Nop())

	if err := repo.Create(ctx, &models.Guest{Name: "Maria", InvitationCode: "AAAAAA"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	codes := []string{"AAAAAA", "BBBBBB"}
	svc.newCode = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}

	g, err := svc.Invite(ctx, "João Pereira", "joao@example.com", "")
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}
	if g.InvitationCode != "BBBBBB" {
		t.Errorf("InvitationCode = %q, want BBBBBB", g.InvitationCode)
	}

	svc.newCode = func() (string, error) { return "AAAAAA", nil }
	if _, err := svc.Invite(ctx, "Ana Souza", "", ""); !errors.Is(err, ErrCodeExhaustion) {
		t.Errorf("Invite() error = %v, want ErrCodeExhaustion", err)
	}

	summary, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary[models.EventFirst][models.RSVPPending] != 2 {
		t.Errorf("Summary() = %v, want 2 pending for the first event", summary)
	}
}

func TestGiftService(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	svc := NewGiftService(repository.NewGiftRepository(db))

	gifts, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if gifts == nil || len(gifts) != 0 {
		t.Errorf("List() on empty catalog = %#v, want empty non-nil slice", gifts)
	}

	if err := svc.Create(ctx, &models.Gift{Name: "  ", Price: 100}); err == nil {
		t.Error("Create() accepted a blank name")
	}
	if err := svc.Create(ctx, &models.Gift{Name: "Cafeteira", Price: 0}); err == nil {
		t.Error("Create() accepted a zero price")
	}

	g := &models.Gift{Name: " Cafeteira ", Price: 2000}
	if err := svc.Create(ctx, g); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if g.Name != "Cafeteira" {
		t.Errorf("Name = %q, want trimmed", g.Name)
	}

	if err := svc.Delete(ctx, g.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, g.ID); !errors.Is(err, ErrGiftNotFound) {
		t.Errorf("second Delete() error = %v, want ErrGiftNotFound", err)
	}
}

func TestPurchaseService(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	svc := NewPurchaseService(repository.NewPurchaseRepository(db), zerolog.Nop())

	req := models.PurchaseRequest{Items: []models.PurchaseItem{
		{ID: "1", Title: "Cafeteira", Quantity: 2, UnitPrice: 2000},
		{ID: "2", Title: "Ferro", Quantity: 1, UnitPrice: 999},
	}}

	p, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.PreferenceID == "" {
		t.Error("Create() returned an empty preference id")
	}
	if p.Total != 4999 {
		t.Errorf("Total = %d, want 4999", p.Total)
	}

	invalid := []models.PurchaseRequest{
		{},
		{Items: []models.PurchaseItem{{ID: "1", Title: "Cafeteira", Quantity: 0, UnitPrice: 2000}}},
		{Items: []models.PurchaseItem{{ID: "", Title: "Cafeteira", Quantity: 1, UnitPrice: 2000}}},
		{Items: []models.PurchaseItem{{ID: "1", Title: "Cafeteira", Quantity: 1, UnitPrice: 0}}},
	}
	for i, req := range invalid {
		if _, err := svc.Create(ctx, req); !errors.Is(err, ErrInvalidPurchase) {
			t.Errorf("case %d: Create() error = %v, want ErrInvalidPurchase", i, err)
		}
	}
}

func TestAuthService(t *testing.T) {
	hash, err := credentials.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	svc, err := NewAuthService(hash, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAuthService() error = %v", err)
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if _, err := svc.Login("wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login(wrong) error = %v, want ErrInvalidCredentials", err)
	}

	token, err := svc.Login("correct horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := svc.ValidateToken(token); err != nil {
		t.Errorf("ValidateToken() error = %v", err)
	}

	other, _ := NewAuthService(hash, "other-secret", time.Hour)
	if err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken() with another secret error = %v, want ErrInvalidToken", err)
	}

	now = now.Add(2 * time.Hour)
	if err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken() after expiry error = %v, want ErrInvalidToken", err)
	}

	disabled, _ := NewAuthService("", "", time.Hour)
	if _, err := disabled.Login("anything"); !errors.Is(err, ErrAdminDisabled) {
		t.Errorf("Login() without hash error = %v, want ErrAdminDisabled", err)
	}
}

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestEmailServiceRSVPConfirmation(t *testing.T) {
	ses := &fakeSES{}
	svc := &EmailService{
		client:     ses,
		fromEmail:  "noivos@example.com",
		fromName:   "Casamento",
		appBaseURL: "https://casamento.example.com",
		enabled:    true,
		log:        zerolog.Nop(),
	}
	guest := &models.Guest{Name: "Maria <b>", Email: "maria@example.com", InvitationCode: "ABC123", RSVPStatusFirst: models.RSVPConfirmed}

	if err := svc.SendRSVPConfirmation(context.Background(), guest, models.EventFirst); err != nil {
		t.Fatalf("SendRSVPConfirmation() error = %v", err)
	}
	if len(ses.inputs) != 1 {
		t.Fatalf("sent %d emails, want 1", len(ses.inputs))
	}

	in := ses.inputs[0]
	if got := *in.FromEmailAddress; got != "Casamento <noivos@example.com>" {
		t.Errorf("From = %q", got)
	}
	if got := *in.Content.Simple.Subject.Data; got != "Primeira Confirmação: Confirmado" {
		t.Errorf("Subject = %q", got)
	}
	html := *in.Content.Simple.Body.Html.Data
	if !strings.Contains(html, "Maria &lt;b&gt;") {
		t.Error("HTML body does not escape the guest name")
	}
	if !strings.Contains(*in.Content.Simple.Body.Text.Data, "https://casamento.example.com/rsvp") {
		t.Error("text body lacks the RSVP link")
	}

	guest.Email = ""
	if err := svc.SendRSVPConfirmation(context.Background(), guest, models.EventFirst); err != nil {
		t.Fatalf("SendRSVPConfirmation() without email error = %v", err)
	}
	if len(ses.inputs) != 1 {
		t.Error("email sent to a guest without address")
	}
}

func TestEmailServiceDisabled(t *testing.T) {
	svc, err := NewEmailService(context.Background(), "sa-east-1", "", "", "", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEmailService() error = %v", err)
	}
	if svc.IsEnabled() {
		t.Error("service without from address is enabled")
	}
	guest := &models.Guest{Name: "Maria", Email: "maria@example.com"}
	if err := svc.SendRSVPConfirmation(context.Background(), guest, models.EventFirst); err != nil {
		t.Errorf("SendRSVPConfirmation() on disabled service error = %v", err)
	}
}

func TestBackupRoundTrip(t *testing.T) {
	src := openTestDB(t)
	ctx := context.Background()

	guests := repository.NewGuestRepository(src)
	if err := guests.Create(ctx, &models.Guest{Name: "Maria", InvitationCode: "ABC123", RSVPStatusFirst: models.RSVPConfirmed}); err != nil {
		t.Fatalf("Create guest error = %v", err)
	}
	if err := repository.NewGiftRepository(src).Create(ctx, &models.Gift{Name: "Cafeteira", Price: 2000}); err != nil {
		t.Fatalf("Create gift error = %v", err)
	}
	if _, err := NewPurchaseService(repository.NewPurchaseRepository(src), zerolog.Nop()).Create(ctx, models.PurchaseRequest{
		Items: []models.PurchaseItem{{ID: "1", Title: "Cafeteira", Quantity: 1, UnitPrice: 2000}},
	}); err != nil {
		t.Fatalf("Create purchase error = %v", err)
	}

	var buf bytes.Buffer
	if err := NewBackupService(src, zerolog.Nop()).ExportToWriter(ctx, &buf); err != nil {
		t.Fatalf("ExportToWriter() error = %v", err)
	}
	data := buf.Bytes()

	dst := openTestDB(t)
	backup := NewBackupService(dst, zerolog.Nop())
	stats, err := backup.ImportFromReader(ctx, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ImportFromReader() error = %v", err)
	}
	if stats.Guests != 1 || stats.Gifts != 1 || stats.Purchases != 1 {
		t.Errorf("stats = %+v, want one of each", stats)
	}

	g, err := repository.NewGuestRepository(dst).GetByCode(ctx, "ABC123")
	if err != nil || g == nil {
		t.Fatalf("GetByCode() = %v, %v", g, err)
	}
	if g.Status(models.EventFirst) != models.RSVPConfirmed {
		t.Errorf("restored status = %v, want confirmed", g.Status(models.EventFirst))
	}

	stats, err = backup.ImportFromReader(ctx, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("second ImportFromReader() error = %v", err)
	}
	if stats.Gifts != 0 || stats.Purchases != 0 || stats.Skipped != 2 {
		t.Errorf("second import stats = %+v, want gift and purchase skipped", stats)
	}
}

func TestBackupRejectsUnknownVersion(t *testing.T) {
	db := openTestDB(t)
	_, err := NewBackupService(db, zerolog.Nop()).ImportFromReader(context.Background(), strings.NewReader(`{"version":"9"}`))
	if err == nil {
		t.Error("ImportFromReader() accepted an unknown version")
	}
}
