package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/khomabhena/imali-api/models"
	"github.com/khomabhena/imali-api/utils"

	"github.com/shopspring/decimal"
)

// Fixed allocation policy: Necessity takes 60% of net income, every other
// non-Savings, non-Expenses bucket takes 10%, Savings takes the exact
// remainder. The per-bucket allocation_pct column is display-only and is
// deliberately not read here.
var (
	necessityShareRate = decimal.RequireFromString("0.6")
	otherShareRate     = decimal.RequireFromString("0.1")
)

var ErrNonPositiveAmount = errors.New("amount must be greater than zero")

// BucketShare is one bucket's cut of an income event.
type BucketShare struct {
	Bucket models.Bucket   `json:"bucket"`
	Amount decimal.Decimal `json:"amount"`
}

// AllocationPlan is the computed split of a net income amount, before any
// write happens. Shares are rounded to cents and the savings share is the
// exact remainder, so the plan always reconciles: sum(shares) + savings = net.
type AllocationPlan struct {
	Net          decimal.Decimal `json:"net"`
	Shares       []BucketShare   `json:"shares"`
	SavingsShare decimal.Decimal `json:"savings_share"`
}

// BuildAllocationPlan splits net across the catalog. Savings and Expenses
// never take a percentage share; a missing Necessity bucket's share is simply
// omitted, not redistributed. Net may be negative (active expenses exceeding
// the gross), producing negative shares so downstream bookkeeping stays
// consistent.
func BuildAllocationPlan(net decimal.Decimal, buckets []models.Bucket) AllocationPlan {
	plan := AllocationPlan{Net: net}

	allocated := decimal.Zero
	for _, b := range buckets {
		switch b.Name {
		case models.BucketSavings, models.BucketExpenses:
			continue
		case models.BucketNecessity:
			share := net.Mul(necessityShareRate).Round(2)
			plan.Shares = append(plan.Shares, BucketShare{Bucket: b, Amount: share})
			allocated = allocated.Add(share)
		default:
			share := net.Mul(otherShareRate).Round(2)
			plan.Shares = append(plan.Shares, BucketShare{Bucket: b, Amount: share})
			allocated = allocated.Add(share)
		}
	}

	plan.SavingsShare = net.Sub(allocated)
	return plan
}

// AllocationResult is what the income confirmation screen renders.
type AllocationResult struct {
	IncomeTransaction *models.Transaction `json:"income_transaction"`
	Allocations       []BucketShare       `json:"allocations"`
	ExpensesReserved  decimal.Decimal     `json:"expenses_reserved"`
	SavingsShare      decimal.Decimal     `json:"savings_share"`
	NetAfterExpenses  decimal.Decimal     `json:"net_after_expenses"`
	TotalExpenses     decimal.Decimal     `json:"total_expenses"`
}

type AllocationService struct {
	db      *sql.DB
	buckets *BucketService
}

func NewAllocationService(db *sql.DB) *AllocationService {
	return &AllocationService{db: db, buckets: NewBucketService(db)}
}

// AllocateIncome splits a gross income event across the bucket catalog and
// records the fan-out. The whole write set (income row, sweep rows, reserve
// row, balance deltas) commits or rolls back as one unit.
func (s *AllocationService) AllocateIncome(ctx context.Context, userID string, amount decimal.Decimal, currency string, date time.Time, source, note string) (*AllocationResult, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	totalExpenses, activeCount, err := s.sumActiveExpenses(ctx, userID, currency)
	if err != nil {
		return nil, err
	}

	// The expense-total read must happen before any fan-out write.
	net := amount.Sub(totalExpenses)

	buckets, err := s.buckets.List(ctx)
	if err != nil {
		return nil, err
	}

	expensesBucket, err := s.buckets.GetOrCreateExpenses(ctx)
	if err != nil {
		return nil, err
	}

	var savingsBucket *models.Bucket
	for i := range buckets {
		if buckets[i].Name == models.BucketSavings {
			savingsBucket = &buckets[i]
			break
		}
	}

	plan := BuildAllocationPlan(net, buckets)

	itemName := source
	if itemName == "" {
		itemName = "Income"
	}

	result := &AllocationResult{
		Allocations:      plan.Shares,
		SavingsShare:     plan.SavingsShare,
		NetAfterExpenses: net,
		TotalExpenses:    totalExpenses,
	}

	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		incomeTx, err := insertTransaction(ctx, tx, userID, models.TxTypeIncome,
			amount, currency, nil, itemName, "", note, date)
		if err != nil {
			return err
		}
		result.IncomeTransaction = incomeTx

		for _, share := range plan.Shares {
			if share.Amount.IsZero() {
				continue
			}
			bucketID := share.Bucket.ID
			_, err := insertTransaction(ctx, tx, userID, models.TxTypeSweep,
				share.Amount, currency, &bucketID,
				fmt.Sprintf("Allocation to %s", share.Bucket.Name), "", "", date)
			if err != nil {
				return err
			}
			if _, err := ApplyBalanceDelta(ctx, tx, userID, bucketID, currency, share.Amount); err != nil {
				return err
			}
		}

		if totalExpenses.IsPositive() {
			bucketID := expensesBucket.ID
			_, err := insertTransaction(ctx, tx, userID, models.TxTypeReserve,
				totalExpenses, currency, &bucketID,
				"Expenses Reserve",
				"", fmt.Sprintf("Reserved for %d active expense(s)", activeCount), date)
			if err != nil {
				return err
			}
			if _, err := ApplyBalanceDelta(ctx, tx, userID, bucketID, currency, totalExpenses); err != nil {
				return err
			}
			result.ExpensesReserved = totalExpenses
		}

		if savingsBucket != nil && !plan.SavingsShare.IsZero() {
			bucketID := savingsBucket.ID
			_, err := insertTransaction(ctx, tx, userID, models.TxTypeSweep,
				plan.SavingsShare, currency, &bucketID,
				"Savings Allocation", "", "Remainder after bucket allocations", date)
			if err != nil {
				return err
			}
			if _, err := ApplyBalanceDelta(ctx, tx, userID, bucketID, currency, plan.SavingsShare); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *AllocationService) sumActiveExpenses(ctx context.Context, userID, currency string) (decimal.Decimal, int, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM expenses
		WHERE user_id = $1 AND currency_code = $2 AND active = TRUE
	`

	var total decimal.Decimal
	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, currency).Scan(&total, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("sum active expenses: %w", err)
	}

	return total, count, nil
}
