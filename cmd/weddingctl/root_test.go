package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"casamento/internal/credentials"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, "hash-password", "segredo")
	if err != nil {
		t.Fatalf("hash-password error = %v", err)
	}
	if !credentials.CheckPassword(strings.TrimSpace(out), "segredo") {
		t.Errorf("printed hash does not match the password")
	}
}

func TestTokenRequiresSecret(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "")
	if _, err := run(t, "token"); err == nil {
		t.Errorf("expected an error without ADMIN_JWT_SECRET")
	}
}

func TestInviteExportImport(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	dir := t.TempDir()
	t.Setenv("DB_TYPE", "sqlite3")
	t.Setenv("DB_PATH", filepath.Join(dir, "casamento.db"))

	out, err := run(t, "invite", "--name", "Maria Silva", "--email", "maria@example.com")
	if err != nil {
		t.Fatalf("invite error = %v (%s)", err, out)
	}
	code := strings.Fields(out)[0]
	if len(code) != credentials.InvitationCodeLength {
		t.Errorf("invitation code %q has wrong length", code)
	}

	backup := filepath.Join(dir, "backup.json")
	if out, err := run(t, "export", "--output", backup); err != nil {
		t.Fatalf("export error = %v (%s)", err, out)
	}

	out, err = run(t, "import", "--input", backup)
	if err != nil {
		t.Fatalf("import error = %v (%s)", err, out)
	}
	if !strings.Contains(out, "Imported 1 guests") {
		t.Errorf("import output = %q", out)
	}

	out, err = run(t, "summary")
	if err != nil {
		t.Fatalf("summary error = %v", err)
	}
	if !strings.Contains(out, "Primeira Confirmação") {
		t.Errorf("summary output = %q", out)
	}
}
