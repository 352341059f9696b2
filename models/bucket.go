package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Mode selects which limiter coefficient gates a purchase.
type Mode string

const (
	ModeLight        Mode = "light"
	ModeIntermediate Mode = "intermediate"
	ModeStrict       Mode = "strict"
	ModeDesperate    Mode = "desperate"
)

// Well-known bucket names. "Savings" and "Expenses" are structural:
// Savings absorbs the allocation remainder, Expenses buffers reserved money.
const (
	BucketNecessity = "Necessity"
	BucketSavings   = "Savings"
	BucketExpenses  = "Expenses"
)

type Bucket struct {
	ID            string              `json:"id"`
	Name          string              `json:"name" binding:"required"`
	AllocationPct decimal.Decimal     `json:"allocation_pct"` // display-only, never read by the allocation engine
	LimiterSet
	Color        string    `json:"color"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// LimiterSet holds the per-mode multipliers: the bucket must hold N times the
// purchase price before the purchase is permitted.
type LimiterSet struct {
	LimiterLight        decimal.Decimal     `json:"limiter_light"`
	LimiterIntermediate decimal.Decimal     `json:"limiter_intermediate"`
	LimiterStrict       decimal.Decimal     `json:"limiter_strict"`
	LimiterDesperate    decimal.NullDecimal `json:"limiter_desperate"`
}

// BucketWithBalance decorates a bucket with the caller's current balance in one
// currency, for the dashboard list.
type BucketWithBalance struct {
	Bucket
	Balance decimal.Decimal `json:"balance"`
}

type CreateBucketRequest struct {
	Name                string              `json:"name" binding:"required"`
	AllocationPct       decimal.Decimal     `json:"allocation_pct"`
	LimiterLight        decimal.Decimal     `json:"limiter_light" binding:"required"`
	LimiterIntermediate decimal.Decimal     `json:"limiter_intermediate" binding:"required"`
	LimiterStrict       decimal.Decimal     `json:"limiter_strict" binding:"required"`
	LimiterDesperate    decimal.NullDecimal `json:"limiter_desperate"`
	Color               string              `json:"color"`
	DisplayOrder        int                 `json:"display_order"`
}
