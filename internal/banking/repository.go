package banking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Not-found errors for statement lines and match targets.
var (
	ErrNotFound        = errors.New("bank transaction not found")
	ErrPaymentNotFound = errors.New("payment not found")
)

// Repository persists bank statement lines.
type Repository interface {
	Insert(ctx context.Context, t *BankTransaction) error
	Get(ctx context.Context, companyID, id int64) (*BankTransaction, error)
	List(ctx context.Context, companyID int64, filter ListTransactionsFilter) ([]BankTransaction, int, error)
	Update(ctx context.Context, companyID, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, companyID, id int64) (*BankTransaction, error)
	SetPayment(ctx context.Context, companyID, id int64, paymentID *int64) error
	PaymentExists(ctx context.Context, companyID, paymentID int64) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a PostgreSQL-backed bank transaction repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const txColumns = `id, company_id, type, amount, description, reference, bank_name,
	transaction_date, payment_id, created_at`

func scanTx(row pgx.Row) (*BankTransaction, error) {
	var t BankTransaction
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.Type, &t.Amount, &t.Description, &t.Reference,
		&t.BankName, &t.TransactionDate, &t.PaymentID, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) Insert(ctx context.Context, t *BankTransaction) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO bank_transactions (company_id, type, amount, description, reference, bank_name, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		t.CompanyID, t.Type, t.Amount, t.Description, t.Reference, t.BankName, t.TransactionDate,
	)
	return row.Scan(&t.ID, &t.CreatedAt)
}

func (r *repository) Get(ctx context.Context, companyID, id int64) (*BankTransaction, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM bank_transactions WHERE company_id = $1 AND id = $2`, txColumns),
		companyID, id,
	)
	return scanTx(row)
}

func (r *repository) List(ctx context.Context, companyID int64, filter ListTransactionsFilter) ([]BankTransaction, int, error) {
	where := "WHERE company_id = $1"
	args := []interface{}{companyID}
	if filter.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", len(args)+1)
		args = append(args, filter.Type)
	}
	if filter.Unmatched {
		where += " AND payment_id IS NULL"
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (description ILIKE $%d OR reference ILIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.DateFrom != nil {
		where += fmt.Sprintf(" AND transaction_date >= $%d", len(args)+1)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where += fmt.Sprintf(" AND transaction_date <= $%d", len(args)+1)
		args = append(args, *filter.DateTo)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM bank_transactions "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM bank_transactions %s ORDER BY transaction_date DESC, id DESC LIMIT $%d OFFSET $%d`,
		txColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := make([]BankTransaction, 0)
	for rows.Next() {
		t, err := scanTx(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *t)
	}
	return result, total, rows.Err()
}

func (r *repository) Update(ctx context.Context, companyID, id int64, updates map[string]interface{}) error {
	query := "UPDATE bank_transactions SET"
	var args []interface{}
	argPos := 1

	for _, col := range []string{"type", "amount", "description", "reference", "bank_name", "transaction_date"} {
		if v, ok := updates[col]; ok {
			if argPos > 1 {
				query += ","
			}
			query += fmt.Sprintf(" %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE company_id = $%d AND id = $%d", argPos, argPos+1)
	args = append(args, companyID, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, companyID, id int64) (*BankTransaction, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		DELETE FROM bank_transactions WHERE company_id = $1 AND id = $2
		RETURNING %s`, txColumns),
		companyID, id,
	)
	return scanTx(row)
}

func (r *repository) SetPayment(ctx context.Context, companyID, id int64, paymentID *int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bank_transactions SET payment_id = $1
		WHERE company_id = $2 AND id = $3`,
		paymentID, companyID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) PaymentExists(ctx context.Context, companyID, paymentID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM payments WHERE company_id = $1 AND id = $2)`,
		companyID, paymentID,
	).Scan(&exists)
	return exists, err
}
