package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/khomabhena/imali-api/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionService struct {
	db *sql.DB
}

func NewTransactionService(db *sql.DB) *TransactionService {
	return &TransactionService{db: db}
}

// insertTransaction appends one row to the log. Every balance mutation pairs
// with exactly one insert through here, inside the same sql transaction, which
// is what keeps the log summing to the balances.
func insertTransaction(ctx context.Context, q Querier, userID, txType string, amount decimal.Decimal, currency string, bucketID *string, itemName, category, note string, date time.Time) (*models.Transaction, error) {
	t := &models.Transaction{
		ID:           uuid.New().String(),
		UserID:       userID,
		Type:         txType,
		Amount:       amount,
		CurrencyCode: currency,
		BucketID:     bucketID,
		ItemName:     itemName,
		Category:     category,
		Note:         note,
		Date:         date,
		CreatedAt:    time.Now(),
	}

	query := `
		INSERT INTO transactions (id, user_id, type, amount, currency_code, bucket_id, item_name, category, note, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := q.ExecContext(ctx, query,
		t.ID, t.UserID, t.Type, t.Amount, t.CurrencyCode, t.BucketID,
		t.ItemName, t.Category, t.Note, t.Date, t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert %s transaction: %w", txType, err)
	}

	return t, nil
}

type TransactionFilter struct {
	CurrencyCode string
	BucketID     string
	Type         string
	Limit        int
}

// List returns the user's transaction history, newest first.
func (s *TransactionService) List(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, currency_code, bucket_id, item_name, category, note, date, created_at
		FROM transactions
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if filter.CurrencyCode != "" {
		args = append(args, filter.CurrencyCode)
		query += fmt.Sprintf(" AND currency_code = $%d", len(args))
	}
	if filter.BucketID != "" {
		args = append(args, filter.BucketID)
		query += fmt.Sprintf(" AND bucket_id = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}

	query += " ORDER BY date DESC, created_at DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.ID, &t.UserID, &t.Type, &t.Amount, &t.CurrencyCode, &t.BucketID,
			&t.ItemName, &t.Category, &t.Note, &t.Date, &t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}
