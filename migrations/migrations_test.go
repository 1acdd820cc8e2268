package migrations

import (
	"strings"
	"testing"

	"github.com/inventory/inventory-api/internal/migrate"
)

func TestEmbeddedMigrationsLoad(t *testing.T) {
	ms, err := migrate.Load(FS)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(ms) == 0 {
		t.Fatal("expected embedded migrations")
	}

	for i, m := range ms {
		if m.Version != int64(i+1) {
			t.Errorf("migration %d has version %d, want contiguous versions", i, m.Version)
		}
		if strings.TrimSpace(m.UpSQL) == "" {
			t.Errorf("migration %s has empty up SQL", m)
		}
		if strings.TrimSpace(m.DownSQL) == "" {
			t.Errorf("migration %s has empty down SQL", m)
		}
	}

	if !strings.Contains(ms[0].UpSQL, "UNIQUE INDEX IF NOT EXISTS users_email_key") {
		t.Error("first migration must create the unique email index")
	}
}
