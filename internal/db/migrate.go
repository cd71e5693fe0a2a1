package db

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/miramare/arredo/internal/models"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// EnsureSchema creates the products, product_images and product_videos tables
// if absent. It is idempotent and invoked on every Open, so a fresh fallback
// database is usable immediately.
//
// When MIGRATIONS=1 (or true/yes) and the active backend is Postgres, the SQL
// files in ./migrations run via golang-migrate instead of AutoMigrate.
func EnsureSchema(h *Handle) error {
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); h.Backend == BackendPostgres && (v == "1" || v == "true" || v == "yes") {
		return runSQLMigrations(NormalizeDSN(os.Getenv("DATABASE_DSN")))
	}
	for _, m := range []interface{}{&models.Product{}, &models.ProductImage{}, &models.ProductVideo{}} {
		if err := h.DB.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	for _, table := range []string{"products", "product_images", "product_videos"} {
		if !h.DB.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
