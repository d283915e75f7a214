package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/random-video-picker/internal/domain"
	"github.com/bnema/random-video-picker/internal/ports"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	path      TEXT NOT NULL,
	picked_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_path ON history(path);
`

// Store keeps the ledger in a single SQLite table. Save replaces every row
// in one transaction.
type Store struct {
	db        *sql.DB
	closeOnce sync.Once
	closeErr  error
}

var _ ports.LedgerStore = (*Store)(nil)

func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("history database path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	// modernc.org/sqlite uses _pragma=name(value) syntax
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Load(ctx context.Context) (domain.Ledger, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, picked_at FROM history ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	ledger := domain.Ledger{}
	for rows.Next() {
		var (
			path string
			raw  string
		)
		if err := rows.Scan(&path, &raw); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}

		pickedAt, err := time.Parse(timeLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("decode history row %q: %w: %v", path, domain.ErrCorruptLedger, err)
		}

		ledger = append(ledger, domain.HistoryEntry{Path: path, PickedAt: pickedAt.UTC()})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}

	return ledger, nil
}

func (s *Store) Save(ctx context.Context, ledger domain.Ledger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO history (path, picked_at) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare history insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range ledger {
		if _, err := stmt.ExecContext(ctx, entry.Path, entry.PickedAt.UTC().Format(timeLayout)); err != nil {
			return fmt.Errorf("insert history entry %q: %w", entry.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history: %w", err)
	}

	return nil
}

// Close is safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}
