package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a recurring or one-time obligation. PaidAmount tracks incremental
// payment plans; when nil the expense is treated as paid in full in one shot.
type Expense struct {
	ID           string              `json:"id"`
	UserID       string              `json:"user_id"`
	Name         string              `json:"name"`
	Amount       decimal.Decimal     `json:"amount"`
	PaidAmount   decimal.NullDecimal `json:"paid_amount"`
	Active       bool                `json:"active"`
	CurrencyCode string              `json:"currency_code"`
	Category     string              `json:"category"`
	DueDate      *time.Time          `json:"due_date"`
	Priority     int                 `json:"priority"`
	Note         string              `json:"note"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type CreateExpenseRequest struct {
	Name         string              `json:"name" binding:"required"`
	Amount       decimal.Decimal     `json:"amount" binding:"required"`
	PaidAmount   decimal.NullDecimal `json:"paid_amount"`
	Active       *bool               `json:"active"`
	CurrencyCode string              `json:"currency_code"`
	Category     string              `json:"category"`
	DueDate      *time.Time          `json:"due_date"`
	Priority     int                 `json:"priority"`
	Note         string              `json:"note"`
}

type UpdateExpenseRequest struct {
	Name       *string              `json:"name"`
	Amount     *decimal.Decimal     `json:"amount"`
	PaidAmount *decimal.NullDecimal `json:"paid_amount"`
	Active     *bool                `json:"active"`
	Category   *string              `json:"category"`
	DueDate    *time.Time           `json:"due_date"`
	Priority   *int                 `json:"priority"`
	Note       *string              `json:"note"`
}

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}
