package proceeds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"nftmarket/pkg/domain"
	"nftmarket/pkg/platform/sentinel"
	txcontext "nftmarket/pkg/platform/tx"
)

// Schema creates the proceeds table. Applied by EnsureSchema and by the
// integration test containers.
const Schema = `
CREATE TABLE IF NOT EXISTS proceeds (
    seller  TEXT    PRIMARY KEY,
    balance NUMERIC NOT NULL DEFAULT 0 CHECK (balance >= 0)
);`

// PostgresStore persists seller balances in PostgreSQL. All mutations are
// single statements, so each is atomic on its own; the settlement service
// composes them with the listing registry via pkg/platform/tx when both must
// commit together.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema applies the proceeds schema.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure proceeds schema: %w", err)
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

func (s *PostgresStore) Credit(ctx context.Context, seller domain.Account, amount decimal.Decimal) error {
	_, err := s.q(ctx).ExecContext(ctx,
		`INSERT INTO proceeds (seller, balance) VALUES ($1, $2)
		 ON CONFLICT (seller) DO UPDATE SET balance = proceeds.balance + EXCLUDED.balance`,
		seller.String(), amount,
	)
	if err != nil {
		return fmt.Errorf("credit %s: %w", seller, err)
	}
	return nil
}

func (s *PostgresStore) Balance(ctx context.Context, seller domain.Account) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT balance FROM proceeds WHERE seller = $1`, seller.String(),
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance of %s: %w", seller, err)
	}
	return balance, nil
}

// WithdrawAll atomically zeroes seller's balance and returns the prior value.
func (s *PostgresStore) WithdrawAll(ctx context.Context, seller domain.Account) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.q(ctx).QueryRowContext(ctx,
		`DELETE FROM proceeds WHERE seller = $1 RETURNING balance`, seller.String(),
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("withdraw all for %s: %w", seller, err)
	}
	return balance, nil
}

func (s *PostgresStore) Debit(ctx context.Context, seller domain.Account, amount decimal.Decimal) error {
	res, err := s.q(ctx).ExecContext(ctx,
		`UPDATE proceeds SET balance = balance - $2 WHERE seller = $1 AND balance >= $2`,
		seller.String(), amount,
	)
	if err != nil {
		return fmt.Errorf("debit %s: %w", seller, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit %s rows affected: %w", seller, err)
	}
	if affected == 0 {
		return fmt.Errorf("debit %s by %s: %w", seller, amount, sentinel.ErrInsufficient)
	}
	return nil
}

// Total returns the sum of all balances.
func (s *PostgresStore) Total(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT COALESCE(SUM(balance), 0) FROM proceeds`,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total proceeds: %w", err)
	}
	return total, nil
}
