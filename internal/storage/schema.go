package storage

import (
	"database/sql"
	"fmt"
)

// Schema version tracking
const currentSchemaVersion = 1

// initializeSchema creates all tables if they do not exist and checks
// the stored version against the code's.
func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		statements := []string{
			`CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS meta (
				key   TEXT PRIMARY KEY,
				value TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS symbols (
				qualified_name TEXT PRIMARY KEY,
				name           TEXT NOT NULL,
				kind           TEXT NOT NULL,
				kind_code      TEXT NOT NULL DEFAULT '',
				kind_group     TEXT NOT NULL,
				status         TEXT NOT NULL,
				file           TEXT NOT NULL,
				line           INTEGER NOT NULL,
				byte_start     INTEGER NOT NULL DEFAULT 0,
				byte_end       INTEGER NOT NULL DEFAULT 0,
				statement      TEXT NOT NULL,
				tainted        INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS dependencies (
				symbol TEXT NOT NULL,
				ord    INTEGER NOT NULL,
				target TEXT NOT NULL,
				PRIMARY KEY (symbol, ord)
			)`,
			`CREATE TABLE IF NOT EXISTS external_deps (
				symbol TEXT NOT NULL,
				ord    INTEGER NOT NULL,
				target TEXT NOT NULL,
				PRIMARY KEY (symbol, ord)
			)`,
			`CREATE TABLE IF NOT EXISTS taint_sources (
				symbol TEXT NOT NULL,
				ord    INTEGER NOT NULL,
				source TEXT NOT NULL,
				PRIMARY KEY (symbol, ord)
			)`,
			`CREATE TABLE IF NOT EXISTS source_files (
				path         TEXT PRIMARY KEY,
				logical_path TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS file_imports (
				file    TEXT NOT NULL,
				ord     INTEGER NOT NULL,
				import  TEXT NOT NULL,
				PRIMARY KEY (file, ord)
			)`,
			`CREATE TABLE IF NOT EXISTS file_symbols (
				file   TEXT NOT NULL,
				ord    INTEGER NOT NULL,
				symbol TEXT NOT NULL,
				PRIMARY KEY (file, ord)
			)`,
			`CREATE TABLE IF NOT EXISTS file_ref_modules (
				file   TEXT NOT NULL,
				ord    INTEGER NOT NULL,
				module TEXT NOT NULL,
				PRIMARY KEY (file, ord)
			)`,
			`CREATE TABLE IF NOT EXISTS file_deps (
				file   TEXT NOT NULL,
				ord    INTEGER NOT NULL,
				target TEXT NOT NULL,
				PRIMARY KEY (file, ord)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_dependencies_target ON dependencies(target)`,
			`CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file)`,
		}
		for _, stmt := range statements {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("schema statement failed: %w", err)
			}
		}

		var version int
		err := tx.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
		switch {
		case err == sql.ErrNoRows:
			if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
				return err
			}
		case err != nil:
			return err
		case version != currentSchemaVersion:
			return fmt.Errorf("snapshot schema version %d, expected %d", version, currentSchemaVersion)
		}
		return nil
	})
}
