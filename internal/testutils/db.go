package testutil

import (
	"path/filepath"
	"testing"

	"github.com/jwtly10/go-nextstep/internal/config"
	"github.com/jwtly10/go-nextstep/internal/db"
)

// SetupTestDB creates a new SQLite database for testing and applies all migrations.
func SetupTestDB(t *testing.T) (*db.Database, func()) {
	t.Helper()

	database, err := db.Initialize(config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("Could not initialize database: %v", err)
	}

	cleanup := func() {
		database.Close()
	}

	return database, cleanup
}
