// Modul: store.go
// Beschreibung: Lauf-Historie auf SQLite. Die Datenbank wird beim ersten
// Zugriff geoeffnet; Record/List/Get sind nebenlaeufig nutzbar.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ethicalml/kompute-jni/api"
	"github.com/ethicalml/kompute-jni/envconfig"
)

// ErrNotFound wird zurueckgegeben wenn kein Lauf mit der ID existiert
var ErrNotFound = errors.New("store: run not found")

type Store struct {
	// DBPath ueberschreibt KOMPUTE_HISTORY (hauptsaechlich fuer Tests)
	DBPath string

	dbMu sync.Mutex
	db   *database
}

func (s *Store) ensureDB() (*database, error) {
	s.dbMu.Lock()
	defer s.dbMu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	dbPath := s.DBPath
	if dbPath == "" {
		dbPath = envconfig.History()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	database, err := newDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s.db = database
	return s.db, nil
}

// Close schliesst die Datenbank, falls sie geoeffnet wurde
func (s *Store) Close() error {
	s.dbMu.Lock()
	defer s.dbMu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Record speichert einen Lauf und gibt ihn mit ID und Zeitstempel zurueck
func (s *Store) Record(ctx context.Context, r api.RunRecord) (api.RunRecord, error) {
	db, err := s.ensureDB()
	if err != nil {
		return api.RunRecord{}, err
	}

	if r.ID == "" {
		u, err := uuid.NewV7()
		if err != nil {
			return api.RunRecord{}, fmt.Errorf("generate run id: %w", err)
		}
		r.ID = u.String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if r.Params == nil {
		r.Params = []float32{}
	}

	params, err := json.Marshal(r.Params)
	if err != nil {
		return api.RunRecord{}, fmt.Errorf("marshal params: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO runs (id, kind, samples, iterations, learning_rate, params, loss, duration_ns, backend, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, string(r.Kind), r.Samples, r.Iterations, r.LearningRate, string(params), r.Loss, int64(r.Duration.Duration), r.Backend, r.CreatedAt)
	if err != nil {
		return api.RunRecord{}, fmt.Errorf("insert run: %w", err)
	}

	return r, nil
}

// List gibt die neuesten Laeufe zuerst zurueck. limit <= 0 = alle
func (s *Store) List(ctx context.Context, limit int) ([]api.RunRecord, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = -1
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, kind, samples, iterations, learning_rate, params, loss, duration_ns, backend, created_at
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []api.RunRecord{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// Get gibt einen Lauf anhand seiner ID zurueck
func (s *Store) Get(ctx context.Context, id string) (api.RunRecord, error) {
	db, err := s.ensureDB()
	if err != nil {
		return api.RunRecord{}, err
	}

	row := db.conn.QueryRowContext(ctx, `
		SELECT id, kind, samples, iterations, learning_rate, params, loss, duration_ns, backend, created_at
		FROM runs WHERE id = ?`, id)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return api.RunRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (api.RunRecord, error) {
	var (
		r        api.RunRecord
		kind     string
		params   string
		duration int64
	)

	if err := row.Scan(&r.ID, &kind, &r.Samples, &r.Iterations, &r.LearningRate, &params, &r.Loss, &duration, &r.Backend, &r.CreatedAt); err != nil {
		return api.RunRecord{}, err
	}

	if err := json.Unmarshal([]byte(params), &r.Params); err != nil {
		return api.RunRecord{}, fmt.Errorf("unmarshal params of run %s: %w", r.ID, err)
	}
	r.Kind = api.RunKind(kind)
	r.Duration = api.Duration{Duration: time.Duration(duration)}

	return r, nil
}
