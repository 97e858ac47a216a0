package store

import (
	"context"
	"database/sql"
	"fmt"
	gosync "sync"

	_ "github.com/mattn/go-sqlite3"
)

// querier is satisfied by both *sql.DB and *sql.Tx so every data method
// works inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	q querier
}

// Store is the durable local database: entity tables, the outbox and the
// app_meta key/value table, all in one SQLite file.
type Store struct {
	queries
	db *sql.DB

	mu        gosync.Mutex
	observers []Observer
}

// Tx exposes the same data methods scoped to one transaction.
type Tx struct {
	queries
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir banco de dados: %w", err)
	}

	s := &Store{queries: queries{q: db}, db: db}
	if err := s.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao inicializar tabelas: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn inside one transaction; any error rolls everything back.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("falha ao iniciar transação: %w", err)
	}

	if err := fn(&Tx{queries: queries{q: dbTx}}); err != nil {
		if rbErr := dbTx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	return dbTx.Commit()
}

const entityColumns = `
	client_id TEXT PRIMARY KEY,
	server_id INTEGER,
	sync_status TEXT NOT NULL DEFAULT 'DIRTY',
	local_updated_at DATETIME NOT NULL,
	updated_at DATETIME`

func (s *Store) initTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS person (` + entityColumns + `,
			cpf TEXT NOT NULL,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_account (` + entityColumns + `,
			person_client_id TEXT NOT NULL,
			username TEXT NOT NULL,
			account_type TEXT NOT NULL DEFAULT '',
			is_active INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS job_position (` + entityColumns + `,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS employee (` + entityColumns + `,
			person_client_id TEXT NOT NULL,
			registration_number TEXT NOT NULL,
			job_position_client_id TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS schedule (` + entityColumns + `,
			employee_client_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS schedule_hour (` + entityColumns + `,
			schedule_client_id TEXT NOT NULL,
			weekday INTEGER NOT NULL,
			start_minutes INTEGER NOT NULL,
			end_minutes INTEGER NOT NULL,
			block_type TEXT NOT NULL DEFAULT 'WORK',
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS time_clock_event (
			client_id TEXT PRIMARY KEY,
			server_id INTEGER,
			sync_status TEXT NOT NULL DEFAULT 'DIRTY',
			local_updated_at DATETIME NOT NULL,
			employee_client_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			occurred_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outbox (
			id TEXT PRIMARY KEY,
			action_type TEXT NOT NULL,
			payload TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			retry_count INTEGER NOT NULL DEFAULT 0,
			last_error TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			last_try_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS app_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_person_server_id ON person(server_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_account_server_id ON user_account(server_id)`,
		`CREATE INDEX IF NOT EXISTS idx_job_position_server_id ON job_position(server_id)`,
		`CREATE INDEX IF NOT EXISTS idx_employee_server_id ON employee(server_id)`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_server_id ON schedule(server_id)`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_hour_server_id ON schedule_hour(server_id)`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_hour_day ON schedule_hour(schedule_client_id, weekday)`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_status ON outbox(status)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
