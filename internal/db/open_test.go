package db

import (
	"path/filepath"
	"testing"

	"github.com/miramare/arredo/internal/config"
	"github.com/miramare/arredo/internal/models"
)

func TestOpenSQLiteFile(t *testing.T) {
	cfg := config.Config{SQLitePath: filepath.Join(t.TempDir(), "test.db")}
	h, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer h.Close()
	if h.Backend != BackendSQLite {
		t.Fatalf("expected sqlite backend, got %s", h.Backend)
	}
	for _, table := range []string{"products", "product_images", "product_videos"} {
		if !h.DB.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
}

func TestOpenIsIdempotentAndPersistent(t *testing.T) {
	cfg := config.Config{SQLitePath: filepath.Join(t.TempDir(), "test.db")}
	h1, err := Open(cfg)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := h1.DB.Create(&models.Product{Name: "Sedia", Category: "Sedute", Supplier: "X", Price: 10}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := h1.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// second open re-runs EnsureSchema against existing tables and sees the row
	h2, err := Open(cfg)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer h2.Close()
	var count int64
	h2.DB.Model(&models.Product{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 product after reopen, got %d", count)
	}
}

func TestOpenFallsBackToMemory(t *testing.T) {
	// a path inside a missing directory makes the file backend unusable
	cfg := config.Config{SQLitePath: filepath.Join(t.TempDir(), "no", "such", "dir", "test.db")}
	h, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer h.Close()
	if h.Backend != BackendSQLiteMemory {
		t.Fatalf("expected memory fallback, got %s", h.Backend)
	}
	if err := h.DB.Create(&models.Product{Name: "Tavolo", Category: "Tavoli", Supplier: "Y", Price: 99}).Error; err != nil {
		t.Fatalf("create on memory backend: %v", err)
	}
}
