package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticsService computes reporting rollups from the transaction log. The
// log is the single source of truth: per-bucket flows summed here reconcile
// with the balance ledger by construction.
type AnalyticsService struct {
	db *sql.DB
}

func NewAnalyticsService(db *sql.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

type BucketFlow struct {
	BucketID   string          `json:"bucket_id"`
	BucketName string          `json:"bucket_name"`
	Inflow     decimal.Decimal `json:"inflow"`
	Outflow    decimal.Decimal `json:"outflow"`
	Net        decimal.Decimal `json:"net"`
}

type CategorySpend struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

type SpendingSummary struct {
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	TotalIncome decimal.Decimal `json:"total_income"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	BucketFlows []BucketFlow    `json:"bucket_flows"`
	Categories  []CategorySpend `json:"categories"`
}

// Summary aggregates income, spending, per-bucket flows and per-category
// spending over a period.
func (s *AnalyticsService) Summary(ctx context.Context, userID, currency string, from, to time.Time) (*SpendingSummary, error) {
	summary := &SpendingSummary{From: from, To: to}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(-SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1 AND currency_code = $2 AND date >= $3 AND date < $4
	`, userID, currency, from, to).Scan(&summary.TotalIncome, &summary.TotalSpent)
	if err != nil {
		return nil, fmt.Errorf("summary totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.name,
			COALESCE(SUM(t.amount) FILTER (WHERE t.amount > 0), 0),
			COALESCE(-SUM(t.amount) FILTER (WHERE t.amount < 0), 0),
			COALESCE(SUM(t.amount), 0)
		FROM transactions t
		JOIN buckets b ON t.bucket_id = b.id
		WHERE t.user_id = $1 AND t.currency_code = $2 AND t.date >= $3 AND t.date < $4
		GROUP BY b.id, b.name, b.display_order
		ORDER BY b.display_order
	`, userID, currency, from, to)
	if err != nil {
		return nil, fmt.Errorf("summary bucket flows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f BucketFlow
		if err := rows.Scan(&f.BucketID, &f.BucketName, &f.Inflow, &f.Outflow, &f.Net); err != nil {
			return nil, err
		}
		summary.BucketFlows = append(summary.BucketFlows, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catRows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(category, ''), 'Uncategorized'), -SUM(amount), COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND currency_code = $2 AND type = 'expense'
		  AND date >= $3 AND date < $4
		GROUP BY 1
		ORDER BY 2 DESC
	`, userID, currency, from, to)
	if err != nil {
		return nil, fmt.Errorf("summary categories: %w", err)
	}
	defer catRows.Close()

	for catRows.Next() {
		var c CategorySpend
		if err := catRows.Scan(&c.Category, &c.Total, &c.Count); err != nil {
			return nil, err
		}
		summary.Categories = append(summary.Categories, c)
	}

	return summary, catRows.Err()
}

type MonthlySummary struct {
	Month  string          `json:"month"`
	Income decimal.Decimal `json:"income"`
	Spent  decimal.Decimal `json:"spent"`
}

// Months returns a monthly income/spending rollup for the trailing N months.
func (s *AnalyticsService) Months(ctx context.Context, userID, currency string, months int) ([]MonthlySummary, error) {
	if months <= 0 || months > 36 {
		months = 6
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT to_char(date_trunc('month', date), 'YYYY-MM'),
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(-SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1 AND currency_code = $2
		  AND date >= date_trunc('month', NOW()) - make_interval(months => $3)
		GROUP BY 1
		ORDER BY 1
	`, userID, currency, months)
	if err != nil {
		return nil, fmt.Errorf("monthly summary: %w", err)
	}
	defer rows.Close()

	var result []MonthlySummary
	for rows.Next() {
		var m MonthlySummary
		if err := rows.Scan(&m.Month, &m.Income, &m.Spent); err != nil {
			return nil, err
		}
		result = append(result, m)
	}

	return result, rows.Err()
}
