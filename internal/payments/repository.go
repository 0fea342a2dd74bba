package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hisaab-cloud/hisaab/internal/platform/db"
)

// Not-found errors for payments and their invoices.
var (
	ErrNotFound        = errors.New("payment not found")
	ErrInvoiceNotFound = errors.New("invoice not found")
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists payments and applies their effect on invoices and
// client balances. WithTx binds fn to one transaction.
type Repository interface {
	WithTx(ctx context.Context, fn func(Repository) error) error

	Insert(ctx context.Context, p *Payment) error
	Get(ctx context.Context, companyID, id int64) (*Payment, error)
	List(ctx context.Context, companyID int64, filter ListPaymentsFilter) ([]Payment, int, error)
	Update(ctx context.Context, companyID, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, companyID, id int64) (*Payment, error)

	GetInvoiceState(ctx context.Context, companyID, invoiceID int64) (*InvoiceState, error)
	SetInvoicePaid(ctx context.Context, companyID, invoiceID int64, amountPaid float64, status string) error
	AdjustClientBalance(ctx context.Context, companyID, clientID int64, delta float64) error
}

type repository struct {
	db   querier
	pool *pgxpool.Pool
}

// NewRepository builds a PostgreSQL-backed payment repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(Repository) error) error {
	if r.pool == nil {
		return fn(r)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&repository{db: tx})
	})
}

const paymentColumns = `id, company_id, invoice_id, client_id, amount, method, reference,
	payment_date, notes, created_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.InvoiceID, &p.ClientID, &p.Amount, &p.Method,
		&p.Reference, &p.PaymentDate, &p.Notes, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Insert(ctx context.Context, p *Payment) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO payments (company_id, invoice_id, client_id, amount, method, reference, payment_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		p.CompanyID, p.InvoiceID, p.ClientID, p.Amount, p.Method, p.Reference, p.PaymentDate, p.Notes,
	)
	return row.Scan(&p.ID, &p.CreatedAt)
}

func (r *repository) Get(ctx context.Context, companyID, id int64) (*Payment, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM payments WHERE company_id = $1 AND id = $2`, paymentColumns),
		companyID, id,
	)
	return scanPayment(row)
}

func (r *repository) List(ctx context.Context, companyID int64, filter ListPaymentsFilter) ([]Payment, int, error) {
	where := "WHERE company_id = $1"
	args := []interface{}{companyID}
	if filter.InvoiceID != 0 {
		where += fmt.Sprintf(" AND invoice_id = $%d", len(args)+1)
		args = append(args, filter.InvoiceID)
	}
	if filter.ClientID != 0 {
		where += fmt.Sprintf(" AND client_id = $%d", len(args)+1)
		args = append(args, filter.ClientID)
	}
	if filter.DateFrom != nil {
		where += fmt.Sprintf(" AND payment_date >= $%d", len(args)+1)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where += fmt.Sprintf(" AND payment_date <= $%d", len(args)+1)
		args = append(args, *filter.DateTo)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM payments "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM payments %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		paymentColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := make([]Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	return result, total, rows.Err()
}

func (r *repository) Update(ctx context.Context, companyID, id int64, updates map[string]interface{}) error {
	query := "UPDATE payments SET"
	var args []interface{}
	argPos := 1

	for _, col := range []string{"amount", "method", "reference", "payment_date", "notes"} {
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

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, companyID, id int64) (*Payment, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		DELETE FROM payments WHERE company_id = $1 AND id = $2
		RETURNING %s`, paymentColumns),
		companyID, id,
	)
	return scanPayment(row)
}

// GetInvoiceState locks the invoice row for the rest of the transaction so
// concurrent payments against one invoice serialize.
func (r *repository) GetInvoiceState(ctx context.Context, companyID, invoiceID int64) (*InvoiceState, error) {
	var st InvoiceState
	err := r.db.QueryRow(ctx, `
		SELECT id, client_id, status, total, amount_paid
		FROM invoices WHERE company_id = $1 AND id = $2
		FOR UPDATE`,
		companyID, invoiceID,
	).Scan(&st.ID, &st.ClientID, &st.Status, &st.Total, &st.AmountPaid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (r *repository) SetInvoicePaid(ctx context.Context, companyID, invoiceID int64, amountPaid float64, status string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE invoices SET amount_paid = $1, status = $2, updated_at = NOW()
		WHERE company_id = $3 AND id = $4`,
		amountPaid, status, companyID, invoiceID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func (r *repository) AdjustClientBalance(ctx context.Context, companyID, clientID int64, delta float64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE clients SET balance = balance + $1, updated_at = NOW()
		WHERE company_id = $2 AND id = $3`,
		delta, companyID, clientID,
	)
	return err
}
