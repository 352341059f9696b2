package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// Querier is satisfied by both *sql.DB and *sql.Tx so balance writes can run
// inside the caller's transaction.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type BalanceService struct {
	db *sql.DB
}

func NewBalanceService(db *sql.DB) *BalanceService {
	return &BalanceService{db: db}
}

// Get returns the current balance for the (user, bucket, currency) triple.
// A missing row reads as zero.
func (s *BalanceService) Get(ctx context.Context, userID, bucketID, currency string) (decimal.Decimal, error) {
	return GetBalance(ctx, s.db, userID, bucketID, currency)
}

func GetBalance(ctx context.Context, q Querier, userID, bucketID, currency string) (decimal.Decimal, error) {
	query := `
		SELECT balance FROM balances
		WHERE user_id = $1 AND bucket_id = $2 AND currency_code = $3
	`

	var balance decimal.Decimal
	err := q.QueryRowContext(ctx, query, userID, bucketID, currency).Scan(&balance)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("read balance: %w", err)
	}

	return balance, nil
}

// GetAll returns every bucket balance the user holds in a currency, keyed by
// bucket ID.
func (s *BalanceService) GetAll(ctx context.Context, userID, currency string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT bucket_id, balance FROM balances
		WHERE user_id = $1 AND currency_code = $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, currency)
	if err != nil {
		return nil, fmt.Errorf("read balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]decimal.Decimal)
	for rows.Next() {
		var bucketID string
		var balance decimal.Decimal
		if err := rows.Scan(&bucketID, &balance); err != nil {
			return nil, err
		}
		balances[bucketID] = balance
	}

	return balances, rows.Err()
}

// ApplyBalanceDelta applies an additive delta as a single atomic upsert and
// returns the resulting balance. The increment happens server-side, so two
// sessions racing on the same triple cannot lose an update. Balances are
// allowed to go negative: the affordability gate lives at the purchase
// boundary, never in the ledger.
func ApplyBalanceDelta(ctx context.Context, q Querier, userID, bucketID, currency string, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		INSERT INTO balances (user_id, bucket_id, currency_code, balance, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, bucket_id, currency_code)
		DO UPDATE SET balance = balances.balance + EXCLUDED.balance, updated_at = NOW()
		RETURNING balance
	`

	var newBalance decimal.Decimal
	err := q.QueryRowContext(ctx, query, userID, bucketID, currency, delta).Scan(&newBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("apply balance delta: %w", err)
	}

	return newBalance, nil
}
