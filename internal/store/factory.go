package store

import (
	"fmt"
	"os"
	"path/filepath"

	"fv-go/internal/config"
	"fv-go/internal/fv"
)

// NewStoreFromConfig creates a Store implementation based on the database config type.
func NewStoreFromConfig(cfg config.DatabaseConfig) (fv.Store, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		dbPath := filepath.Join(cfg.DataDir, "fv.db")
		s, err := NewSQLiteStore(dbPath)
		if err != nil {
			return nil, err
		}
		if err := s.MigrateUp(); err != nil {
			s.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
		return s, nil
	case "memory":
		s, err := NewSQLiteStore(":memory:")
		if err != nil {
			return nil, err
		}
		if err := s.ApplySchema(); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
