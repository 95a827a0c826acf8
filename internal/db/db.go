package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jwtly10/go-nextstep/internal/config"
	_ "github.com/mattn/go-sqlite3"
)

type Database struct {
	*sql.DB
}

func Initialize(cfg config.DatabaseConfig) (*Database, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, err
	}

	// sqlite only supports a single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Database{db}, nil
}
