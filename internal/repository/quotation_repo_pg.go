package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Domenick1991/travelquote/internal/domain"
)

// Schema mirrors migrations/0001_create_quotations.sql.
const Schema = `CREATE TABLE IF NOT EXISTS quotations (
    id          UUID PRIMARY KEY,
    trip_title  TEXT        NOT NULL,
    destination TEXT        NOT NULL DEFAULT '',
    kind        TEXT        NOT NULL,
    document    JSONB       NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS quotations_created_at_idx ON quotations (created_at DESC);`

const defaultListLimit = 20

type QuotationRepository interface {
	Save(ctx context.Context, q *domain.Quotation) (*domain.StoredQuotation, error)
	GetByID(ctx context.Context, id string) (*domain.StoredQuotation, error)
	ListRecent(ctx context.Context, limit int) ([]domain.QuotationSummary, error)
}

type PGQuotationRepository struct {
	db *pgxpool.Pool
}

func NewQuotationRepository(db *pgxpool.Pool) QuotationRepository {
	return &PGQuotationRepository{db: db}
}

// EnsureSchema applies the quotations DDL; it is idempotent.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply quotations schema: %w", err)
	}
	return nil
}

func (r *PGQuotationRepository) Save(ctx context.Context, q *domain.Quotation) (*domain.StoredQuotation, error) {
	doc, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encode quotation: %w", err)
	}

	stored := &domain.StoredQuotation{ID: uuid.NewString(), Quotation: q}
	if err := r.db.QueryRow(ctx, `INSERT INTO quotations (id, trip_title, destination, kind, document)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`, stored.ID, q.TripTitle, q.Destination, string(q.Kind()), doc).
		Scan(&stored.CreatedAt); err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *PGQuotationRepository) GetByID(ctx context.Context, id string) (*domain.StoredQuotation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrQuotationNotFound
	}

	var (
		stored domain.StoredQuotation
		doc    []byte
	)
	row := r.db.QueryRow(ctx, `SELECT id, document, created_at FROM quotations WHERE id=$1`, id)
	if err := row.Scan(&stored.ID, &doc, &stored.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuotationNotFound
		}
		return nil, err
	}

	var q domain.Quotation
	if err := json.Unmarshal(doc, &q); err != nil {
		return nil, fmt.Errorf("decode quotation %s: %w", id, err)
	}
	stored.Quotation = &q
	return &stored, nil
}

func (r *PGQuotationRepository) ListRecent(ctx context.Context, limit int) ([]domain.QuotationSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultListLimit
	}
	rows, err := r.db.Query(ctx, `SELECT id, trip_title, destination, kind, created_at FROM quotations ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]domain.QuotationSummary, 0)
	for rows.Next() {
		var s domain.QuotationSummary
		if err := rows.Scan(&s.ID, &s.TripTitle, &s.Destination, &s.Kind, &s.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
