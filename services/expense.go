package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/khomabhena/imali-api/models"
	"github.com/khomabhena/imali-api/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseService struct {
	db      *sql.DB
	buckets *BucketService
}

func NewExpenseService(db *sql.DB) *ExpenseService {
	return &ExpenseService{db: db, buckets: NewBucketService(db)}
}

// DeductionResult is the outcome of reconciling one expense against the
// Expenses bucket. Nil when nothing was due.
type DeductionResult struct {
	Transaction *models.Transaction `json:"transaction"`
	NewBalance  decimal.Decimal     `json:"new_balance"`
}

// deductionAmount computes how much to withdraw for an expense, given its
// prior version on update. Rules:
//   - paid_amount stands in for the amount owed when present; absent means
//     "fully paid in one shot"
//   - on update only the increase over the previously paid amount is deducted
//   - a decrease is skipped entirely, not credited back
func deductionAmount(expense models.Expense, previous *models.Expense) decimal.Decimal {
	toDeduct := expense.Amount
	if expense.PaidAmount.Valid {
		toDeduct = expense.PaidAmount.Decimal
	}

	if previous == nil {
		return toDeduct
	}

	previousPaid := previous.Amount
	if previous.PaidAmount.Valid {
		previousPaid = previous.PaidAmount.Decimal
	}

	delta := toDeduct.Sub(previousPaid)
	if delta.IsNegative() {
		return decimal.Zero
	}
	return delta
}

// ReconcileExpense applies the balance effect of creating or updating an
// expense. Inactive expenses are dormant. Deductions always hit the Expenses
// bucket, which is a buffer: it may legitimately run negative when obligations
// outpace income sweeps.
func (s *ExpenseService) ReconcileExpense(ctx context.Context, userID string, expense models.Expense, previous *models.Expense) (*DeductionResult, error) {
	if !expense.Active {
		return nil, nil
	}

	amount := deductionAmount(expense, previous)
	if !amount.IsPositive() {
		return nil, nil
	}

	expensesBucket, err := s.buckets.GetOrCreateExpenses(ctx)
	if err != nil {
		return nil, err
	}

	isIncremental := expense.PaidAmount.Valid && expense.PaidAmount.Decimal.LessThan(expense.Amount)
	note := "Full payment"
	if isIncremental {
		note = "Incremental payment"
	}

	utils.LogDeduction(userID, expense.Name, isIncremental)

	result := &DeductionResult{}
	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		bucketID := expensesBucket.ID
		transaction, err := insertTransaction(ctx, tx, userID, models.TxTypeExpense,
			amount.Neg(), expense.CurrencyCode, &bucketID,
			expense.Name, "Expense Deduction", note, time.Now())
		if err != nil {
			return err
		}
		result.Transaction = transaction

		newBalance, err := ApplyBalanceDelta(ctx, tx, userID, bucketID, expense.CurrencyCode, amount.Neg())
		if err != nil {
			return err
		}
		result.NewBalance = newBalance

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

const expenseColumns = `id, user_id, name, amount, paid_amount, active, currency_code, category, due_date, priority, note, created_at, updated_at`

func scanExpense(row interface{ Scan(...interface{}) error }) (*models.Expense, error) {
	var e models.Expense
	var category, note sql.NullString
	err := row.Scan(
		&e.ID, &e.UserID, &e.Name, &e.Amount, &e.PaidAmount, &e.Active,
		&e.CurrencyCode, &category, &e.DueDate, &e.Priority, &note,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Category = category.String
	e.Note = note.String
	return &e, nil
}

// Create inserts the expense row, then reconciles the deduction.
func (s *ExpenseService) Create(ctx context.Context, userID string, req models.CreateExpenseRequest) (*models.Expense, *DeductionResult, error) {
	if !req.Amount.IsPositive() {
		return nil, nil, ErrNonPositiveAmount
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	currency := req.CurrencyCode
	if currency == "" {
		currency = "USD"
	}
	priority := req.Priority
	if priority == 0 {
		priority = models.PriorityMedium
	}

	query := `
		INSERT INTO expenses (id, user_id, name, amount, paid_amount, active, currency_code, category, due_date, priority, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + expenseColumns

	expense, err := scanExpense(s.db.QueryRowContext(ctx, query,
		uuid.New().String(), userID, req.Name, req.Amount, req.PaidAmount,
		active, currency, req.Category, req.DueDate, priority, req.Note,
	))
	if err != nil {
		return nil, nil, fmt.Errorf("create expense: %w", err)
	}

	deduction, err := s.ReconcileExpense(ctx, userID, *expense, nil)
	if err != nil {
		return nil, nil, err
	}

	return expense, deduction, nil
}

func (s *ExpenseService) Get(ctx context.Context, userID, id string) (*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1 AND user_id = $2`
	return scanExpense(s.db.QueryRowContext(ctx, query, id, userID))
}

// List returns the user's expenses; activeOnly filters out deactivated ones.
func (s *ExpenseService) List(ctx context.Context, userID string, activeOnly bool) ([]models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE user_id = $1`
	if activeOnly {
		query += ` AND active = TRUE`
	}
	query += ` ORDER BY priority, due_date NULLS LAST, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}

	return expenses, rows.Err()
}

// Update edits an expense and reconciles the paid-amount delta against the
// prior version of the row.
func (s *ExpenseService) Update(ctx context.Context, userID, id string, req models.UpdateExpenseRequest) (*models.Expense, *DeductionResult, error) {
	previous, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	updated := *previous
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Amount != nil {
		updated.Amount = *req.Amount
	}
	if req.PaidAmount != nil {
		updated.PaidAmount = *req.PaidAmount
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}
	if req.Category != nil {
		updated.Category = *req.Category
	}
	if req.DueDate != nil {
		updated.DueDate = req.DueDate
	}
	if req.Priority != nil {
		updated.Priority = *req.Priority
	}
	if req.Note != nil {
		updated.Note = *req.Note
	}

	query := `
		UPDATE expenses
		SET name = $1, amount = $2, paid_amount = $3, active = $4, category = $5,
		    due_date = $6, priority = $7, note = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10
		RETURNING ` + expenseColumns

	expense, err := scanExpense(s.db.QueryRowContext(ctx, query,
		updated.Name, updated.Amount, updated.PaidAmount, updated.Active,
		updated.Category, updated.DueDate, updated.Priority, updated.Note,
		id, userID,
	))
	if err != nil {
		return nil, nil, fmt.Errorf("update expense: %w", err)
	}

	deduction, err := s.ReconcileExpense(ctx, userID, *expense, previous)
	if err != nil {
		return nil, nil, err
	}

	return expense, deduction, nil
}

// RecordPayment increments the paid amount by an installment and deducts
// exactly that installment through the reconciler.
func (s *ExpenseService) RecordPayment(ctx context.Context, userID, id string, amount decimal.Decimal) (*models.Expense, *DeductionResult, error) {
	if !amount.IsPositive() {
		return nil, nil, ErrNonPositiveAmount
	}

	previous, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	// A NULL paid_amount means the expense was already deducted in full, so
	// the installment stacks on top of the total owed. The reconciler's
	// fallback uses the same baseline, making the delta exactly this payment.
	previousPaid := previous.Amount
	if previous.PaidAmount.Valid {
		previousPaid = previous.PaidAmount.Decimal
	}
	newPaid := decimal.NullDecimal{Decimal: previousPaid.Add(amount), Valid: true}

	query := `
		UPDATE expenses SET paid_amount = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING ` + expenseColumns

	expense, err := scanExpense(s.db.QueryRowContext(ctx, query, newPaid, id, userID))
	if err != nil {
		return nil, nil, fmt.Errorf("record payment: %w", err)
	}

	deduction, err := s.ReconcileExpense(ctx, userID, *expense, previous)
	if err != nil {
		return nil, nil, err
	}

	return expense, deduction, nil
}

// Deactivate marks an expense dormant instead of deleting it. No balance
// effect either way.
func (s *ExpenseService) Deactivate(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE expenses SET active = FALSE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("deactivate expense: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
