package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/khomabhena/imali-api/models"

	"github.com/google/uuid"
)

var ErrAlreadyPurchased = errors.New("wishlist item already purchased")

type WishlistService struct {
	db        *sql.DB
	purchases *PurchaseService
}

func NewWishlistService(db *sql.DB) *WishlistService {
	return &WishlistService{db: db, purchases: NewPurchaseService(db)}
}

const wishlistColumns = `id, user_id, name, amount, bucket_id, currency_code, priority, note, purchased_at, created_at`

func scanWishlistItem(row interface{ Scan(...interface{}) error }) (*models.WishlistItem, error) {
	var w models.WishlistItem
	var note sql.NullString
	err := row.Scan(
		&w.ID, &w.UserID, &w.Name, &w.Amount, &w.BucketID, &w.CurrencyCode,
		&w.Priority, &note, &w.PurchasedAt, &w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.Note = note.String
	return &w, nil
}

func (s *WishlistService) Create(ctx context.Context, userID string, req models.CreateWishlistItemRequest) (*models.WishlistItem, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = "USD"
	}
	priority := req.Priority
	if priority < models.PriorityHigh || priority > models.PriorityLow {
		priority = models.PriorityMedium
	}

	query := `
		INSERT INTO wishlist_items (id, user_id, name, amount, bucket_id, currency_code, priority, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + wishlistColumns

	item, err := scanWishlistItem(s.db.QueryRowContext(ctx, query,
		uuid.New().String(), userID, req.Name, req.Amount, req.BucketID,
		currency, priority, req.Note,
	))
	if err != nil {
		return nil, fmt.Errorf("create wishlist item: %w", err)
	}

	return item, nil
}

func (s *WishlistService) Get(ctx context.Context, userID, id string) (*models.WishlistItem, error) {
	query := `SELECT ` + wishlistColumns + ` FROM wishlist_items WHERE id = $1 AND user_id = $2`
	return scanWishlistItem(s.db.QueryRowContext(ctx, query, id, userID))
}

// List returns wishlist items; when outstandingOnly is set, purchased items
// are excluded.
func (s *WishlistService) List(ctx context.Context, userID string, outstandingOnly bool) ([]models.WishlistItem, error) {
	query := `SELECT ` + wishlistColumns + ` FROM wishlist_items WHERE user_id = $1`
	if outstandingOnly {
		query += ` AND purchased_at IS NULL`
	}
	query += ` ORDER BY priority, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist items: %w", err)
	}
	defer rows.Close()

	var items []models.WishlistItem
	for rows.Next() {
		item, err := scanWishlistItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

func (s *WishlistService) Update(ctx context.Context, userID, id string, req models.UpdateWishlistItemRequest) (*models.WishlistItem, error) {
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Amount != nil {
		current.Amount = *req.Amount
	}
	if req.BucketID != nil {
		current.BucketID = *req.BucketID
	}
	if req.Priority != nil {
		current.Priority = *req.Priority
	}
	if req.Note != nil {
		current.Note = *req.Note
	}

	query := `
		UPDATE wishlist_items
		SET name = $1, amount = $2, bucket_id = $3, priority = $4, note = $5
		WHERE id = $6 AND user_id = $7
		RETURNING ` + wishlistColumns

	return scanWishlistItem(s.db.QueryRowContext(ctx, query,
		current.Name, current.Amount, current.BucketID, current.Priority,
		current.Note, id, userID,
	))
}

func (s *WishlistService) Delete(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM wishlist_items WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Purchase hands the item's amount and bucket into the purchase flow. The
// item itself never mutates a balance; it is stamped purchased only when the
// recorder approves and commits the spend.
func (s *WishlistService) Purchase(ctx context.Context, userID, id string) (*PurchaseResult, *AffordabilityRejection, error) {
	item, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	if item.PurchasedAt != nil {
		return nil, nil, ErrAlreadyPurchased
	}

	result, rejection, err := s.purchases.RecordPurchase(ctx, userID, models.RecordPurchaseRequest{
		BucketID:     item.BucketID,
		Amount:       item.Amount,
		CurrencyCode: item.CurrencyCode,
		ItemName:     item.Name,
		Category:     "Wishlist",
		Note:         item.Note,
	})
	if err != nil || rejection != nil {
		return nil, rejection, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE wishlist_items SET purchased_at = NOW() WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("mark wishlist item purchased: %w", err)
	}

	return result, nil, nil
}
