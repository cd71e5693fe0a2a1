package db

import (
	"fmt"
	"os"

	"github.com/miramare/arredo/internal/config"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Backend identifies which store a handle talks to.
type Backend string

const (
	BackendPostgres     Backend = "postgres"
	BackendSQLite       Backend = "sqlite"
	BackendSQLiteMemory Backend = "sqlite-memory"
)

// MemoryDSN keeps the last-resort store alive for the process lifetime even
// though every request opens its own connection.
const MemoryDSN = "file::memory:?cache=shared"

// Handle is a per-request database connection. Callers must Close it on
// every exit path; there is no pooling above what the driver provides.
type Handle struct {
	DB      *gorm.DB
	Backend Backend
}

func (h *Handle) Close() error {
	sqlDB, err := h.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Open selects a backend and returns a ready handle with the schema ensured.
// Selection is re-evaluated on every call: Postgres if a DSN is configured,
// falling back to the embedded SQLite file, falling back further to a shared
// in-memory SQLite instance so the service stays up. A transient Postgres
// outage therefore degrades individual requests, not the whole process.
func Open(cfg config.Config) (*Handle, error) {
	if dsn := NormalizeDSN(cfg.DatabaseDSN); dsn != "" {
		h, err := open(postgres.Open(dsn), BackendPostgres)
		if err == nil {
			return h, nil
		}
		log.Warn().Err(err).Str("dsn", MaskDSN(dsn)).Msg("postgres unreachable, falling back to sqlite")
	}
	h, err := open(sqlite.Open(cfg.SQLitePath), BackendSQLite)
	if err == nil {
		return h, nil
	}
	log.Warn().Err(err).Str("path", cfg.SQLitePath).Msg("sqlite file unusable, falling back to memory")
	h, err = open(sqlite.Open(MemoryDSN), BackendSQLiteMemory)
	if err != nil {
		return nil, fmt.Errorf("open in-memory fallback: %w", err)
	}
	return h, nil
}

func open(dialector gorm.Dialector, backend Backend) (*Handle, error) {
	gdb, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return nil, err
	}
	h := &Handle{DB: gdb, Backend: backend}
	if err := EnsureSchema(h); err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return h, nil
}

func gormConfig() *gorm.Config {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	return &gorm.Config{Logger: logger.Default.LogMode(logLevel)}
}
