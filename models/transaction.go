package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types. Rows are append-only: the sum of all transactions for a
// (user, bucket, currency) must equal the bucket's balance.
const (
	TxTypeIncome  = "income"  // raw income event, no bucket
	TxTypeSweep   = "sweep"   // allocation into a bucket
	TxTypeExpense = "expense" // purchase or expense payment, negative amount
	TxTypeReserve = "reserve" // money set aside into the Expenses bucket
)

type Transaction struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
	BucketID     *string         `json:"bucket_id"`
	ItemName     string          `json:"item_name"`
	Category     string          `json:"category"`
	Note         string          `json:"note"`
	Date         time.Time       `json:"date"`
	CreatedAt    time.Time       `json:"created_at"`
}

type RecordIncomeRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currency_code"`
	Date         *time.Time      `json:"date"`
	Source       string          `json:"source"`
	Note         string          `json:"note"`
}

type RecordPurchaseRequest struct {
	BucketID     string          `json:"bucket_id" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currency_code"`
	ItemName     string          `json:"item_name"`
	Category     string          `json:"category"`
	Note         string          `json:"note"`
	Date         *time.Time      `json:"date"`
}
