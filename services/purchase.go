package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/khomabhena/imali-api/models"
	"github.com/khomabhena/imali-api/utils"

	"github.com/shopspring/decimal"
)

// AffordabilityRejection is a normal, expected outcome of a purchase attempt,
// not a system fault. It carries enough data for the caller to offer a remedy
// such as "use max affordable".
type AffordabilityRejection struct {
	Code            string          `json:"code"`
	Message         string          `json:"message"`
	RequiredBalance decimal.Decimal `json:"required_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	MaxAffordable   decimal.Decimal `json:"max_affordable"`
	Limiter         decimal.Decimal `json:"limiter"`
}

type PurchaseResult struct {
	Transaction *models.Transaction `json:"transaction"`
	NewBalance  decimal.Decimal     `json:"new_balance"`
}

type PurchaseService struct {
	db       *sql.DB
	buckets  *BucketService
	balances *BalanceService
	settings *SettingsService
}

func NewPurchaseService(db *sql.DB) *PurchaseService {
	return &PurchaseService{
		db:       db,
		buckets:  NewBucketService(db),
		balances: NewBalanceService(db),
		settings: NewSettingsService(db),
	}
}

// RecordPurchase gates the spend through the affordability engine, then writes
// the expense transaction and the negative balance delta as one unit. A
// rejection returns with no writes at all.
func (s *PurchaseService) RecordPurchase(ctx context.Context, userID string, req models.RecordPurchaseRequest) (*PurchaseResult, *AffordabilityRejection, error) {
	if !req.Amount.IsPositive() {
		return nil, nil, ErrNonPositiveAmount
	}

	bucket, err := s.buckets.GetByID(ctx, req.BucketID)
	if err != nil {
		return nil, nil, err
	}

	currency := req.CurrencyCode
	settings, err := s.settings.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if currency == "" {
		currency = settings.DefaultCurrency
	}

	currentBalance, err := s.balances.Get(ctx, userID, bucket.ID, currency)
	if err != nil {
		return nil, nil, err
	}

	decision, err := CheckAffordability(req.Amount, currentBalance, bucket.LimiterSet, settings.DefaultMode)
	if err != nil {
		return nil, nil, err
	}

	utils.LogPurchase(userID, bucket.ID, decision.IsAffordable)

	if !decision.IsAffordable {
		return nil, &AffordabilityRejection{
			Code:            "AFFORDABILITY_BLOCKED",
			Message:         "Purchase blocked: insufficient balance",
			RequiredBalance: decision.RequiredBalance,
			CurrentBalance:  currentBalance,
			MaxAffordable:   decision.MaxAffordable,
			Limiter:         decision.Limiter,
		}, nil
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	result := &PurchaseResult{}
	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		bucketID := bucket.ID
		transaction, err := insertTransaction(ctx, tx, userID, models.TxTypeExpense,
			req.Amount.Neg(), currency, &bucketID,
			req.ItemName, req.Category, req.Note, date)
		if err != nil {
			return err
		}
		result.Transaction = transaction

		newBalance, err := ApplyBalanceDelta(ctx, tx, userID, bucketID, currency, req.Amount.Neg())
		if err != nil {
			return err
		}
		result.NewBalance = newBalance

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return result, nil, nil
}
