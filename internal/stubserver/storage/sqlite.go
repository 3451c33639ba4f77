package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	// SQLite driver for local, zero-setup runs.
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"

	"travelex/internal/domain/statement"
)

// SQLite backs the stub server with a single local file.
type SQLite struct {
	db  *sql.DB
	log *slog.Logger
}

func NewSQLite(dsn string, log *slog.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; the stub has no concurrency needs beyond that.
	db.SetMaxOpenConns(1)

	return &SQLite{
		db:  db,
		log: log.With("component", "sqlite_storage"),
	}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) ListRows(ctx context.Context, collection string) ([]Row, error) {
	const query = `
		SELECT id, fields, updated_at FROM rows
		WHERE collection = ? ORDER BY id`

	dbRows, err := s.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	defer dbRows.Close()

	var out []Row
	for dbRows.Next() {
		r := Row{Collection: collection}
		var fields string
		if err := dbRows.Scan(&r.ID, &fields, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.Fields = json.RawMessage(fields)
		out = append(out, r)
	}
	return out, dbRows.Err()
}

func (s *SQLite) GetRow(ctx context.Context, collection string, id int) (*Row, error) {
	const query = `
		SELECT id, fields, updated_at FROM rows
		WHERE collection = ? AND id = ?`

	r := Row{Collection: collection}
	var fields string
	err := s.db.QueryRowContext(ctx, query, collection, id).Scan(&r.ID, &fields, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get row: %w", err)
	}
	r.Fields = json.RawMessage(fields)
	return &r, nil
}

func (s *SQLite) CreateRow(ctx context.Context, collection string, fields json.RawMessage, idemKey string) (*Row, error) {
	if idemKey != "" {
		if existing, err := s.rowByIdemKey(ctx, collection, idemKey); err == nil {
			return existing, nil
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	const query = `
		INSERT INTO rows (collection, fields, idem_key, updated_at)
		VALUES (?, ?, ?, ?)`

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, query, collection, string(fields), idemKey, now)
	if err != nil {
		s.log.Error("failed to create row", "collection", collection, "error", err)
		return nil, fmt.Errorf("create row: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return &Row{ID: int(id), Collection: collection, Fields: fields, UpdatedAt: now}, nil
}

func (s *SQLite) rowByIdemKey(ctx context.Context, collection, idemKey string) (*Row, error) {
	const query = `
		SELECT id, fields, updated_at FROM rows
		WHERE collection = ? AND idem_key = ?`

	r := Row{Collection: collection}
	var fields string
	err := s.db.QueryRowContext(ctx, query, collection, idemKey).Scan(&r.ID, &fields, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("row by idempotency key: %w", err)
	}
	r.Fields = json.RawMessage(fields)
	return &r, nil
}

func (s *SQLite) UpdateRow(ctx context.Context, collection string, id int, fields json.RawMessage) (*Row, error) {
	const query = `
		UPDATE rows SET fields = ?, updated_at = ?
		WHERE collection = ? AND id = ?`

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, query, string(fields), now, collection, id)
	if err != nil {
		s.log.Error("failed to update row", "collection", collection, "id", id, "error", err)
		return nil, fmt.Errorf("update row: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return &Row{ID: id, Collection: collection, Fields: fields, UpdatedAt: now}, nil
}

func (s *SQLite) DeleteRow(ctx context.Context, collection string, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rows WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) CreateUser(ctx context.Context, login, passwordHash, cardName string) (int, error) {
	const query = `
		INSERT INTO users (login, password_hash, card_name)
		VALUES (?, ?, ?)`

	res, err := s.db.ExecContext(ctx, query, login, passwordHash, cardName)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return int(id), nil
}

func (s *SQLite) GetUserByLogin(ctx context.Context, login string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, userQuery+` WHERE login = ?`, login))
}

func (s *SQLite) GetUserByCardName(ctx context.Context, cardName string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, userQuery+` WHERE card_name = ?`, cardName))
}

func (s *SQLite) GetUser(ctx context.Context, userID int) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, userQuery+` WHERE id = ?`, userID))
}

const userQuery = `
	SELECT id, login, password_hash, card_name, mfa_secret, mfa_active FROM users`

func (s *SQLite) scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CardName, &u.MFASecret, &u.MFAActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *SQLite) SetMFA(ctx context.Context, userID int, secret string, active bool) error {
	const query = `UPDATE users SET mfa_secret = ?, mfa_active = ? WHERE id = ?`

	res, err := s.db.ExecContext(ctx, query, secret, active, userID)
	if err != nil {
		return fmt.Errorf("set mfa: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) FindThreshold(ctx context.Context, collection string, categoryID int, currency string) (*Threshold, error) {
	// Category-specific limits win over the collection-wide one.
	const query = `
		SELECT id, collection, category_id, currency, amount, message FROM thresholds
		WHERE collection = ? AND currency = ? AND (category_id = ? OR category_id = 0)
		ORDER BY category_id DESC LIMIT 1`

	var th Threshold
	err := s.db.QueryRowContext(ctx, query, collection, currency, categoryID).
		Scan(&th.ID, &th.Collection, &th.CategoryID, &th.Currency, &th.Amount, &th.Message)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find threshold: %w", err)
	}
	return &th, nil
}

func (s *SQLite) CreateImport(ctx context.Context, filename, storedFile string, txns []statement.Transaction) (*statement.Import, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	matched := 0
	for _, t := range txns {
		if t.Matched {
			matched++
		}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO imports (filename, stored_file, status, uploaded_at, total_count, matched_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		filename, storedFile, string(statement.StatusMatched), now, len(txns), matched)
	if err != nil {
		return nil, fmt.Errorf("create import: %w", err)
	}
	importID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, t := range txns {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (import_id, cardholder, merchant, amount, currency, posted_at, user_id, matched)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			importID, t.Cardholder, t.Merchant, t.Amount, t.Currency, t.PostedAt, t.UserID, t.Matched)
		if err != nil {
			return nil, fmt.Errorf("insert transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &statement.Import{
		ID:           int(importID),
		Filename:     filename,
		Status:       statement.StatusMatched,
		UploadedAt:   now,
		TotalCount:   len(txns),
		MatchedCount: matched,
	}, nil
}

func (s *SQLite) GetImport(ctx context.Context, id int) (*statement.Import, error) {
	const query = `
		SELECT id, filename, status, uploaded_at, total_count, matched_count
		FROM imports WHERE id = ?`

	var imp statement.Import
	var status string
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&imp.ID, &imp.Filename, &status, &imp.UploadedAt, &imp.TotalCount, &imp.MatchedCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get import: %w", err)
	}
	imp.Status = statement.Status(status)
	return &imp, nil
}

func (s *SQLite) ListTransactions(ctx context.Context, importID int) ([]statement.Transaction, error) {
	const query = `
		SELECT id, cardholder, merchant, amount, currency, posted_at, user_id, matched
		FROM transactions WHERE import_id = ? ORDER BY id`

	dbRows, err := s.db.QueryContext(ctx, query, importID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer dbRows.Close()

	var out []statement.Transaction
	for dbRows.Next() {
		var t statement.Transaction
		if err := dbRows.Scan(&t.ID, &t.Cardholder, &t.Merchant, &t.Amount, &t.Currency, &t.PostedAt, &t.UserID, &t.Matched); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, dbRows.Err()
}

func (s *SQLite) SetImportStatus(ctx context.Context, id int, status statement.Status) error {
	res, err := s.db.ExecContext(ctx, `UPDATE imports SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("set import status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
