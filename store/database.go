// database.go - Kern-Datenbank-Funktionen
// Enthaelt: database struct, newDatabase, Close, init, migrate

package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite-Treiber registrieren
)

// currentSchemaVersion wird bei Schema-Aenderungen erhoeht
const currentSchemaVersion = 2

// database umhuellt die SQLite-Verbindung.
// SQLite serialisiert Schreiber selbst, WAL laesst Leser parallel laufen.
type database struct {
	conn *sql.DB
}

// newDatabase oeffnet die Datenbank und bringt das Schema auf den aktuellen Stand
func newDatabase(dbPath string) (*database, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &database{conn: conn}

	if err := db.init(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, nil
}

// Close schliesst die Datenbankverbindung
func (db *database) Close() error {
	_, _ = db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
	return db.conn.Close()
}

// init legt das Basisschema (Version 1) an
func (db *database) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		schema_version INTEGER NOT NULL DEFAULT 1
	);

	INSERT OR IGNORE INTO settings (id) VALUES (1);

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		samples INTEGER NOT NULL,
		iterations INTEGER NOT NULL,
		learning_rate REAL NOT NULL,
		params TEXT NOT NULL DEFAULT '[]',
		loss REAL NOT NULL DEFAULT 0,
		duration_ns INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

func (db *database) getSchemaVersion() (int, error) {
	var version int
	err := db.conn.QueryRow("SELECT schema_version FROM settings WHERE id = 1").Scan(&version)
	return version, err
}

// migrate fuehrt Schema-Migrationen durch
func (db *database) migrate() error {
	version, err := db.getSchemaVersion()
	if err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	for version < currentSchemaVersion {
		switch version {
		case 1:
			// backend Spalte und Index nach Erstellungszeit
			if err := db.migrateV1ToV2(); err != nil {
				return fmt.Errorf("migrate v1 to v2: %w", err)
			}
			version = 2
		default:
			return fmt.Errorf("unknown schema version %d", version)
		}
	}

	return nil
}

func (db *database) migrateV1ToV2() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("ALTER TABLE runs ADD COLUMN backend TEXT NOT NULL DEFAULT ''"); err != nil {
		return fmt.Errorf("add backend column: %w", err)
	}
	if _, err := tx.Exec("CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)"); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	if _, err := tx.Exec("UPDATE settings SET schema_version = 2 WHERE id = 1"); err != nil {
		return fmt.Errorf("update schema version: %w", err)
	}

	return tx.Commit()
}
