package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wishlist priorities.
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// WishlistItem is advisory only: it never mutates a balance itself. Buying one
// hands its amount and bucket into the purchase flow, which stamps PurchasedAt
// on success.
type WishlistItem struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	BucketID     string          `json:"bucket_id"`
	CurrencyCode string          `json:"currency_code"`
	Priority     int             `json:"priority"`
	Note         string          `json:"note"`
	PurchasedAt  *time.Time      `json:"purchased_at"`
	CreatedAt    time.Time       `json:"created_at"`
}

type CreateWishlistItemRequest struct {
	Name         string          `json:"name" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	BucketID     string          `json:"bucket_id" binding:"required"`
	CurrencyCode string          `json:"currency_code"`
	Priority     int             `json:"priority"`
	Note         string          `json:"note"`
}

type UpdateWishlistItemRequest struct {
	Name     *string          `json:"name"`
	Amount   *decimal.Decimal `json:"amount"`
	BucketID *string          `json:"bucket_id"`
	Priority *int             `json:"priority"`
	Note     *string          `json:"note"`
}
