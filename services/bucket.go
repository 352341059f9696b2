package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/khomabhena/imali-api/models"

	"github.com/google/uuid"
)

type BucketService struct {
	db *sql.DB
}

func NewBucketService(db *sql.DB) *BucketService {
	return &BucketService{db: db}
}

const bucketColumns = `id, name, allocation_pct, limiter_light, limiter_intermediate, limiter_strict, limiter_desperate, color, display_order, created_at`

func scanBucket(row interface{ Scan(...interface{}) error }) (*models.Bucket, error) {
	var b models.Bucket
	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.AllocationPct,
		&b.LimiterLight,
		&b.LimiterIntermediate,
		&b.LimiterStrict,
		&b.LimiterDesperate,
		&b.Color,
		&b.DisplayOrder,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns the full bucket catalog ordered for display.
func (s *BucketService) List(ctx context.Context) ([]models.Bucket, error) {
	query := `SELECT ` + bucketColumns + ` FROM buckets ORDER BY display_order`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	defer rows.Close()

	var buckets []models.Bucket
	for rows.Next() {
		b, err := scanBucket(rows)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, *b)
	}

	return buckets, rows.Err()
}

func (s *BucketService) GetByID(ctx context.Context, id string) (*models.Bucket, error) {
	query := `SELECT ` + bucketColumns + ` FROM buckets WHERE id = $1`
	return scanBucket(s.db.QueryRowContext(ctx, query, id))
}

func (s *BucketService) GetByName(ctx context.Context, name string) (*models.Bucket, error) {
	query := `SELECT ` + bucketColumns + ` FROM buckets WHERE name = $1`
	return scanBucket(s.db.QueryRowContext(ctx, query, name))
}

// Create adds a bucket to the catalog. Names are unique semantic categories.
func (s *BucketService) Create(ctx context.Context, req models.CreateBucketRequest) (*models.Bucket, error) {
	query := `
		INSERT INTO buckets (id, name, allocation_pct, limiter_light, limiter_intermediate, limiter_strict, limiter_desperate, color, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + bucketColumns

	return scanBucket(s.db.QueryRowContext(ctx, query,
		uuid.New().String(),
		req.Name,
		req.AllocationPct,
		req.LimiterLight,
		req.LimiterIntermediate,
		req.LimiterStrict,
		req.LimiterDesperate,
		req.Color,
		req.DisplayOrder,
	))
}

// GetOrCreateExpenses materializes the singleton Expenses bucket on first use.
// The insert races safely on the unique name constraint, so concurrent callers
// never create duplicates.
func (s *BucketService) GetOrCreateExpenses(ctx context.Context) (*models.Bucket, error) {
	query := `
		INSERT INTO buckets (id, name, allocation_pct, limiter_light, limiter_intermediate, limiter_strict, color, display_order)
		VALUES ($1, $2, 0, 1, 1, 1, '#8b5cf6', 7)
		ON CONFLICT (name) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, uuid.New().String(), models.BucketExpenses); err != nil {
		return nil, fmt.Errorf("materialize expenses bucket: %w", err)
	}

	return s.GetByName(ctx, models.BucketExpenses)
}

// ListWithBalances joins the catalog with the user's balances in one currency.
// Buckets with no balance row report zero.
func (s *BucketService) ListWithBalances(ctx context.Context, userID, currency string) ([]models.BucketWithBalance, error) {
	query := `
		SELECT b.id, b.name, b.allocation_pct, b.limiter_light, b.limiter_intermediate, b.limiter_strict, b.limiter_desperate, b.color, b.display_order, b.created_at,
		       COALESCE(bal.balance, 0)
		FROM buckets b
		LEFT JOIN balances bal
		  ON bal.bucket_id = b.id AND bal.user_id = $1 AND bal.currency_code = $2
		ORDER BY b.display_order
	`

	rows, err := s.db.QueryContext(ctx, query, userID, currency)
	if err != nil {
		return nil, fmt.Errorf("list buckets with balances: %w", err)
	}
	defer rows.Close()

	var result []models.BucketWithBalance
	for rows.Next() {
		var b models.BucketWithBalance
		err := rows.Scan(
			&b.ID,
			&b.Name,
			&b.AllocationPct,
			&b.LimiterLight,
			&b.LimiterIntermediate,
			&b.LimiterStrict,
			&b.LimiterDesperate,
			&b.Color,
			&b.DisplayOrder,
			&b.CreatedAt,
			&b.Balance,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}

	return result, rows.Err()
}
