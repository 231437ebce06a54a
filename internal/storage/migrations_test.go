package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMigrate(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewSQLiteStorage(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("Fresh database version = %d, want 0", version)
	}

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	version, err = store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("Version after migrate = %d, want %d", version, ExpectedSchemaVersion)
	}

	// Running again is a no-op
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Second Migrate failed: %v", err)
	}
}
