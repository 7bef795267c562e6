package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"broker/internal/evidence/models"
)

// PostgresStore persists accreditations as JSONB documents with the query
// columns broken out.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) Create(ctx context.Context, acc *models.Accreditation) error {
	doc, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("encode accreditation: %w", err)
	}
	query := `
		INSERT INTO accreditations (id, owner, requestor, subject, service_context, issued, last_changed, valid_to, document)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
		RETURNING id
	`
	var stored string
	err = s.db.QueryRowContext(ctx, query,
		acc.ID,
		acc.Owner,
		acc.Requestor.Key(),
		acc.SubjectKey(),
		acc.ServiceContext,
		acc.Issued,
		acc.LastChanged,
		acc.ValidTo,
		doc,
	).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrConflict
		}
		return fmt.Errorf("create accreditation: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Accreditation, error) {
	acc, err := scanDocument(s.db.QueryRowContext(ctx, `SELECT document FROM accreditations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get accreditation: %w", err)
	}
	return acc, nil
}

// Execute locks the row, applies mutate and writes the result in one transaction.
func (s *PostgresStore) Execute(ctx context.Context, id string, mutate func(*models.Accreditation) error) (*models.Accreditation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin accreditation tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	acc, err := scanDocument(tx.QueryRowContext(ctx, `SELECT document FROM accreditations WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock accreditation: %w", err)
	}
	if err := mutate(acc); err != nil {
		return nil, err
	}
	if err := update(ctx, tx, acc); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit accreditation: %w", err)
	}
	return acc, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accreditations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete accreditation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete accreditation rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, q Query) ([]*models.Accreditation, error) {
	query := `
		SELECT document
		FROM accreditations
		WHERE owner = $1 AND service_context = $2 AND valid_to > $3
	`
	args := []any{q.Owner, q.ServiceContext, q.Now}
	if q.Requestor != "" {
		args = append(args, q.Requestor)
		query += fmt.Sprintf(" AND requestor = $%d", len(args))
	}
	if q.ChangedAfter != nil {
		args = append(args, *q.ChangedAfter)
		query += fmt.Sprintf(" AND last_changed > $%d", len(args))
	}
	query += " ORDER BY last_changed"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query accreditations: %w", err)
	}
	defer rows.Close()

	var out []*models.Accreditation
	for rows.Next() {
		acc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan accreditation: %w", err)
		}
		out = append(out, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accreditations: %w", err)
	}
	return out, nil
}

func update(ctx context.Context, exec dbExecutor, acc *models.Accreditation) error {
	doc, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("encode accreditation: %w", err)
	}
	query := `
		UPDATE accreditations
		SET last_changed = $2, valid_to = $3, document = $4
		WHERE id = $1
	`
	res, err := exec.ExecContext(ctx, query, acc.ID, acc.LastChanged, acc.ValidTo, doc)
	if err != nil {
		return fmt.Errorf("update accreditation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update accreditation rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Accreditation, error) {
	var doc []byte
	if err := row.Scan(&doc); err != nil {
		return nil, err
	}
	var acc models.Accreditation
	if err := json.Unmarshal(doc, &acc); err != nil {
		return nil, fmt.Errorf("decode accreditation: %w", err)
	}
	return &acc, nil
}
