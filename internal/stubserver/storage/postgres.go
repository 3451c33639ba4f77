package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"travelex/internal/domain/statement"
)

// Postgres backs the stub server with a shared database, for multi-operator
// dev environments.
type Postgres struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPostgres(ctx context.Context, uri string, log *slog.Logger) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return &Postgres{
		pool: pool,
		log:  log.With("component", "postgres_storage"),
	}, nil
}

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

func (s *Postgres) ListRows(ctx context.Context, collection string) ([]Row, error) {
	const query = `
		SELECT id, fields, updated_at FROM rows
		WHERE collection = $1 ORDER BY id`

	dbRows, err := s.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	defer dbRows.Close()

	var out []Row
	for dbRows.Next() {
		r := Row{Collection: collection}
		var fields []byte
		if err := dbRows.Scan(&r.ID, &fields, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.Fields = json.RawMessage(fields)
		out = append(out, r)
	}
	return out, dbRows.Err()
}

func (s *Postgres) GetRow(ctx context.Context, collection string, id int) (*Row, error) {
	const query = `
		SELECT id, fields, updated_at FROM rows
		WHERE collection = $1 AND id = $2`

	r := Row{Collection: collection}
	var fields []byte
	err := s.pool.QueryRow(ctx, query, collection, id).Scan(&r.ID, &fields, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get row: %w", err)
	}
	r.Fields = json.RawMessage(fields)
	return &r, nil
}

func (s *Postgres) CreateRow(ctx context.Context, collection string, fields json.RawMessage, idemKey string) (*Row, error) {
	if idemKey != "" {
		if existing, err := s.rowByIdemKey(ctx, collection, idemKey); err == nil {
			return existing, nil
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	const query = `
		INSERT INTO rows (collection, fields, idem_key, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	now := time.Now().UTC()
	r := Row{Collection: collection, Fields: fields, UpdatedAt: now}
	err := s.pool.QueryRow(ctx, query, collection, []byte(fields), idemKey, now).Scan(&r.ID)
	if err != nil {
		s.log.Error("failed to create row", "collection", collection, "error", err)
		return nil, fmt.Errorf("create row: %w", err)
	}
	return &r, nil
}

func (s *Postgres) rowByIdemKey(ctx context.Context, collection, idemKey string) (*Row, error) {
	const query = `
		SELECT id, fields, updated_at FROM rows
		WHERE collection = $1 AND idem_key = $2`

	r := Row{Collection: collection}
	var fields []byte
	err := s.pool.QueryRow(ctx, query, collection, idemKey).Scan(&r.ID, &fields, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("row by idempotency key: %w", err)
	}
	r.Fields = json.RawMessage(fields)
	return &r, nil
}

func (s *Postgres) UpdateRow(ctx context.Context, collection string, id int, fields json.RawMessage) (*Row, error) {
	const query = `
		UPDATE rows SET fields = $1, updated_at = $2
		WHERE collection = $3 AND id = $4`

	now := time.Now().UTC()
	tag, err := s.pool.Exec(ctx, query, []byte(fields), now, collection, id)
	if err != nil {
		s.log.Error("failed to update row", "collection", collection, "id", id, "error", err)
		return nil, fmt.Errorf("update row: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return &Row{ID: id, Collection: collection, Fields: fields, UpdatedAt: now}, nil
}

func (s *Postgres) DeleteRow(ctx context.Context, collection string, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM rows WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) CreateUser(ctx context.Context, login, passwordHash, cardName string) (int, error) {
	const query = `
		INSERT INTO users (login, password_hash, card_name)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int
	if err := s.pool.QueryRow(ctx, query, login, passwordHash, cardName).Scan(&id); err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

const pgUserQuery = `
	SELECT id, login, password_hash, card_name, mfa_secret, mfa_active FROM users`

func (s *Postgres) GetUserByLogin(ctx context.Context, login string) (*User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, pgUserQuery+` WHERE login = $1`, login))
}

func (s *Postgres) GetUserByCardName(ctx context.Context, cardName string) (*User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, pgUserQuery+` WHERE card_name = $1`, cardName))
}

func (s *Postgres) GetUser(ctx context.Context, userID int) (*User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, pgUserQuery+` WHERE id = $1`, userID))
}

func (s *Postgres) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CardName, &u.MFASecret, &u.MFAActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *Postgres) SetMFA(ctx context.Context, userID int, secret string, active bool) error {
	const query = `UPDATE users SET mfa_secret = $1, mfa_active = $2 WHERE id = $3`

	tag, err := s.pool.Exec(ctx, query, secret, active, userID)
	if err != nil {
		return fmt.Errorf("set mfa: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) FindThreshold(ctx context.Context, collection string, categoryID int, currency string) (*Threshold, error) {
	const query = `
		SELECT id, collection, category_id, currency, amount, message FROM thresholds
		WHERE collection = $1 AND currency = $2 AND (category_id = $3 OR category_id = 0)
		ORDER BY category_id DESC LIMIT 1`

	var th Threshold
	err := s.pool.QueryRow(ctx, query, collection, currency, categoryID).
		Scan(&th.ID, &th.Collection, &th.CategoryID, &th.Currency, &th.Amount, &th.Message)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find threshold: %w", err)
	}
	return &th, nil
}

func (s *Postgres) CreateImport(ctx context.Context, filename, storedFile string, txns []statement.Transaction) (*statement.Import, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	matched := 0
	for _, t := range txns {
		if t.Matched {
			matched++
		}
	}

	var importID int
	err = tx.QueryRow(ctx, `
		INSERT INTO imports (filename, stored_file, status, uploaded_at, total_count, matched_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		filename, storedFile, string(statement.StatusMatched), now, len(txns), matched).Scan(&importID)
	if err != nil {
		return nil, fmt.Errorf("create import: %w", err)
	}

	for _, t := range txns {
		_, err := tx.Exec(ctx, `
			INSERT INTO transactions (import_id, cardholder, merchant, amount, currency, posted_at, user_id, matched)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			importID, t.Cardholder, t.Merchant, t.Amount, t.Currency, t.PostedAt, t.UserID, t.Matched)
		if err != nil {
			return nil, fmt.Errorf("insert transaction: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &statement.Import{
		ID:           importID,
		Filename:     filename,
		Status:       statement.StatusMatched,
		UploadedAt:   now,
		TotalCount:   len(txns),
		MatchedCount: matched,
	}, nil
}

func (s *Postgres) GetImport(ctx context.Context, id int) (*statement.Import, error) {
	const query = `
		SELECT id, filename, status, uploaded_at, total_count, matched_count
		FROM imports WHERE id = $1`

	var imp statement.Import
	var status string
	err := s.pool.QueryRow(ctx, query, id).
		Scan(&imp.ID, &imp.Filename, &status, &imp.UploadedAt, &imp.TotalCount, &imp.MatchedCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get import: %w", err)
	}
	imp.Status = statement.Status(status)
	return &imp, nil
}

func (s *Postgres) ListTransactions(ctx context.Context, importID int) ([]statement.Transaction, error) {
	const query = `
		SELECT id, cardholder, merchant, amount, currency, posted_at, user_id, matched
		FROM transactions WHERE import_id = $1 ORDER BY id`

	dbRows, err := s.pool.Query(ctx, query, importID)
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

func (s *Postgres) SetImportStatus(ctx context.Context, id int, status statement.Status) error {
	tag, err := s.pool.Exec(ctx, `UPDATE imports SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("set import status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
