package listings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"nftmarket/internal/market"
	"nftmarket/pkg/domain"
	"nftmarket/pkg/platform/sentinel"
	txcontext "nftmarket/pkg/platform/tx"
)

// Schema creates the listings table. Applied by EnsureSchema and by the
// integration test containers.
const Schema = `
CREATE TABLE IF NOT EXISTS listings (
    collection TEXT        NOT NULL,
    token_id   TEXT        NOT NULL,
    seller     TEXT        NOT NULL,
    price      NUMERIC     NOT NULL CHECK (price > 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (collection, token_id)
);`

// PostgresStore persists the listing registry in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema applies the listings schema.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure listings schema: %w", err)
	}
	return nil
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, listing market.Listing) error {
	_, err := s.q(ctx).ExecContext(ctx,
		`INSERT INTO listings (collection, token_id, seller, price, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		listing.Collection.String(), listing.Token.String(), listing.Seller.String(),
		listing.Price, listing.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("create listing %s: %w", listing.Key(), sentinel.ErrConflict)
		}
		return fmt.Errorf("create listing %s: %w", listing.Key(), err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key domain.AssetKey) (market.Listing, error) {
	listing := market.Listing{Collection: key.Collection, Token: key.Token}
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT seller, price, created_at FROM listings WHERE collection = $1 AND token_id = $2`,
		key.Collection.String(), key.Token.String(),
	).Scan(&listing.Seller, &listing.Price, &listing.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return market.Listing{}, fmt.Errorf("get listing %s: %w", key, sentinel.ErrNotFound)
	}
	if err != nil {
		return market.Listing{}, fmt.Errorf("get listing %s: %w", key, err)
	}
	return listing, nil
}

func (s *PostgresStore) UpdatePrice(ctx context.Context, key domain.AssetKey, price decimal.Decimal) error {
	res, err := s.q(ctx).ExecContext(ctx,
		`UPDATE listings SET price = $3 WHERE collection = $1 AND token_id = $2`,
		key.Collection.String(), key.Token.String(), price,
	)
	if err != nil {
		return fmt.Errorf("update listing %s: %w", key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update listing %s rows affected: %w", key, err)
	}
	if affected == 0 {
		return fmt.Errorf("update listing %s: %w", key, sentinel.ErrNotFound)
	}
	return nil
}

// Remove deletes and returns the listing in one statement, so two racing
// settlements cannot both claim the same key.
func (s *PostgresStore) Remove(ctx context.Context, key domain.AssetKey) (market.Listing, error) {
	listing := market.Listing{Collection: key.Collection, Token: key.Token}
	err := s.q(ctx).QueryRowContext(ctx,
		`DELETE FROM listings WHERE collection = $1 AND token_id = $2
		 RETURNING seller, price, created_at`,
		key.Collection.String(), key.Token.String(),
	).Scan(&listing.Seller, &listing.Price, &listing.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return market.Listing{}, fmt.Errorf("remove listing %s: %w", key, sentinel.ErrNotFound)
	}
	if err != nil {
		return market.Listing{}, fmt.Errorf("remove listing %s: %w", key, err)
	}
	return listing, nil
}
