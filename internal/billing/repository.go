package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hisaab-cloud/hisaab/internal/platform/db"
)

// Not-found errors for the two document kinds.
var (
	ErrQuotationNotFound = errors.New("quotation not found")
	ErrInvoiceNotFound   = errors.New("invoice not found")
)

// ErrQuotationConverted reports that the conversion stamp found the
// quotation already converted, typically by a concurrent writer.
var ErrQuotationConverted = errors.New("quotation already converted")

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists quotations and invoices. WithTx runs fn against a
// repository bound to a single transaction, so conversions and line
// replacements commit or roll back as one unit.
type Repository interface {
	WithTx(ctx context.Context, fn func(Repository) error) error

	InsertQuotation(ctx context.Context, q *Quotation) error
	GetQuotation(ctx context.Context, companyID, id int64) (*Quotation, error)
	GetQuotationLines(ctx context.Context, quotationID int64) ([]DocumentLine, error)
	ListQuotations(ctx context.Context, companyID int64, filter ListFilter) ([]Quotation, int, error)
	UpdateQuotation(ctx context.Context, companyID, id int64, updates map[string]interface{}) error
	MarkQuotationConverted(ctx context.Context, companyID, quotationID, invoiceID int64) error
	DeleteQuotation(ctx context.Context, companyID, id int64) (*Quotation, error)
	InsertQuotationLines(ctx context.Context, quotationID int64, lines []DocumentLine) error
	DeleteQuotationLines(ctx context.Context, quotationID int64) error

	InsertInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, companyID, id int64) (*Invoice, error)
	GetInvoiceLines(ctx context.Context, invoiceID int64) ([]DocumentLine, error)
	ListInvoices(ctx context.Context, companyID int64, filter ListFilter) ([]Invoice, int, error)
	UpdateInvoice(ctx context.Context, companyID, id int64, updates map[string]interface{}) error
	DeleteInvoice(ctx context.Context, companyID, id int64) (*Invoice, error)
	InsertInvoiceLines(ctx context.Context, invoiceID int64, lines []DocumentLine) error
	DeleteInvoiceLines(ctx context.Context, invoiceID int64) error

	NextSequence(ctx context.Context, companyID int64, kind string, year int) (int64, error)
	AdjustClientBalance(ctx context.Context, companyID, clientID int64, delta float64) error
}

type repository struct {
	db   querier
	pool *pgxpool.Pool
}

// NewRepository builds a PostgreSQL-backed billing repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(Repository) error) error {
	if r.pool == nil {
		// Already inside a transaction.
		return fn(r)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&repository{db: tx})
	})
}

const quotationColumns = `id, company_id, client_id, number, status, issue_date, valid_until,
	currency, subtotal, tax_amount, discount_amount, total, notes, terms, converted_invoice_id,
	created_at, updated_at`

func scanQuotation(row pgx.Row) (*Quotation, error) {
	var q Quotation
	err := row.Scan(
		&q.ID, &q.CompanyID, &q.ClientID, &q.Number, &q.Status, &q.IssueDate, &q.ValidUntil,
		&q.Currency, &q.Subtotal, &q.TaxAmount, &q.DiscountAmount, &q.Total, &q.Notes,
		&q.Terms, &q.ConvertedInvoiceID, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuotationNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) InsertQuotation(ctx context.Context, q *Quotation) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO quotations (company_id, client_id, number, status, issue_date, valid_until,
			currency, subtotal, tax_amount, discount_amount, total, notes, terms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		q.CompanyID, q.ClientID, q.Number, q.Status, q.IssueDate, q.ValidUntil,
		q.Currency, q.Subtotal, q.TaxAmount, q.DiscountAmount, q.Total, q.Notes, q.Terms,
	)
	return row.Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

func (r *repository) GetQuotation(ctx context.Context, companyID, id int64) (*Quotation, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM quotations WHERE company_id = $1 AND id = $2`, quotationColumns),
		companyID, id,
	)
	return scanQuotation(row)
}

func (r *repository) ListQuotations(ctx context.Context, companyID int64, filter ListFilter) ([]Quotation, int, error) {
	where := "WHERE company_id = $1"
	args := []interface{}{companyID}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	if filter.ClientID != 0 {
		where += fmt.Sprintf(" AND client_id = $%d", len(args)+1)
		args = append(args, filter.ClientID)
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND number ILIKE $%d", len(args)+1)
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.DateFrom != nil {
		where += fmt.Sprintf(" AND issue_date >= $%d", len(args)+1)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where += fmt.Sprintf(" AND issue_date <= $%d", len(args)+1)
		args = append(args, *filter.DateTo)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM quotations "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM quotations %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		quotationColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := make([]Quotation, 0)
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *q)
	}
	return result, total, rows.Err()
}

func (r *repository) UpdateQuotation(ctx context.Context, companyID, id int64, updates map[string]interface{}) error {
	query := "UPDATE quotations SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{
		"status", "valid_until", "subtotal", "tax_amount", "discount_amount",
		"total", "notes", "terms", "converted_invoice_id",
	} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
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
		return ErrQuotationNotFound
	}
	return nil
}

// MarkQuotationConverted stamps the quotation in a single guarded UPDATE so
// two racing conversions cannot both succeed: the loser matches zero rows
// and the whole transaction rolls back.
func (r *repository) MarkQuotationConverted(ctx context.Context, companyID, quotationID, invoiceID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE quotations
		SET status = 'converted', converted_invoice_id = $1, updated_at = NOW()
		WHERE company_id = $2 AND id = $3
			AND status <> 'converted' AND converted_invoice_id IS NULL`,
		invoiceID, companyID, quotationID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrQuotationConverted
	}
	return nil
}

func (r *repository) DeleteQuotation(ctx context.Context, companyID, id int64) (*Quotation, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		DELETE FROM quotations WHERE company_id = $1 AND id = $2
		RETURNING %s`, quotationColumns),
		companyID, id,
	)
	return scanQuotation(row)
}

const invoiceColumns = `id, company_id, client_id, quotation_id, number, tax_invoice_number,
	status, issue_date, due_date, currency, subtotal, tax_amount, discount_amount, total,
	amount_paid, notes, terms, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.ClientID, &inv.QuotationID, &inv.Number,
		&inv.TaxInvoiceNumber, &inv.Status, &inv.IssueDate, &inv.DueDate, &inv.Currency,
		&inv.Subtotal, &inv.TaxAmount, &inv.DiscountAmount, &inv.Total, &inv.AmountPaid,
		&inv.Notes, &inv.Terms, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *repository) InsertInvoice(ctx context.Context, inv *Invoice) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO invoices (company_id, client_id, quotation_id, number, status, issue_date,
			due_date, currency, subtotal, tax_amount, discount_amount, total, notes, terms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, amount_paid, created_at, updated_at`,
		inv.CompanyID, inv.ClientID, inv.QuotationID, inv.Number, inv.Status, inv.IssueDate,
		inv.DueDate, inv.Currency, inv.Subtotal, inv.TaxAmount, inv.DiscountAmount, inv.Total,
		inv.Notes, inv.Terms,
	)
	return row.Scan(&inv.ID, &inv.AmountPaid, &inv.CreatedAt, &inv.UpdatedAt)
}

func (r *repository) GetInvoice(ctx context.Context, companyID, id int64) (*Invoice, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM invoices WHERE company_id = $1 AND id = $2`, invoiceColumns),
		companyID, id,
	)
	return scanInvoice(row)
}

func (r *repository) ListInvoices(ctx context.Context, companyID int64, filter ListFilter) ([]Invoice, int, error) {
	where := "WHERE company_id = $1"
	args := []interface{}{companyID}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	if filter.ClientID != 0 {
		where += fmt.Sprintf(" AND client_id = $%d", len(args)+1)
		args = append(args, filter.ClientID)
	}
	if filter.Search != "" {
		pos := len(args) + 1
		where += fmt.Sprintf(" AND (number ILIKE $%d OR tax_invoice_number ILIKE $%d)", pos, pos)
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.DateFrom != nil {
		where += fmt.Sprintf(" AND issue_date >= $%d", len(args)+1)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where += fmt.Sprintf(" AND issue_date <= $%d", len(args)+1)
		args = append(args, *filter.DateTo)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM invoices "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM invoices %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		invoiceColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := make([]Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *inv)
	}
	return result, total, rows.Err()
}

func (r *repository) UpdateInvoice(ctx context.Context, companyID, id int64, updates map[string]interface{}) error {
	query := "UPDATE invoices SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{
		"status", "due_date", "tax_invoice_number", "subtotal", "tax_amount",
		"discount_amount", "total", "amount_paid", "notes", "terms",
	} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
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
		return ErrInvoiceNotFound
	}
	return nil
}

func (r *repository) DeleteInvoice(ctx context.Context, companyID, id int64) (*Invoice, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		DELETE FROM invoices WHERE company_id = $1 AND id = $2
		RETURNING %s`, invoiceColumns),
		companyID, id,
	)
	return scanInvoice(row)
}

func (r *repository) GetQuotationLines(ctx context.Context, quotationID int64) ([]DocumentLine, error) {
	return r.getLines(ctx, "quotation_lines", "quotation_id", quotationID)
}

func (r *repository) GetInvoiceLines(ctx context.Context, invoiceID int64) ([]DocumentLine, error) {
	return r.getLines(ctx, "invoice_lines", "invoice_id", invoiceID)
}

func (r *repository) getLines(ctx context.Context, table, fk string, documentID int64) ([]DocumentLine, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT id, %s, item_id, description, quantity, unit, unit_price, tax_rate,
			subtotal, tax_amount, line_total, sort_order
		FROM %s WHERE %s = $1
		ORDER BY sort_order ASC, id ASC`, fk, table, fk),
		documentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]DocumentLine, 0)
	for rows.Next() {
		var l DocumentLine
		if err := rows.Scan(
			&l.ID, &l.DocumentID, &l.ItemID, &l.Description, &l.Quantity, &l.Unit,
			&l.UnitPrice, &l.TaxRate, &l.Subtotal, &l.TaxAmount, &l.LineTotal, &l.SortOrder,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) InsertQuotationLines(ctx context.Context, quotationID int64, lines []DocumentLine) error {
	return r.insertLines(ctx, "quotation_lines", "quotation_id", quotationID, lines)
}

func (r *repository) InsertInvoiceLines(ctx context.Context, invoiceID int64, lines []DocumentLine) error {
	return r.insertLines(ctx, "invoice_lines", "invoice_id", invoiceID, lines)
}

func (r *repository) insertLines(ctx context.Context, table, fk string, documentID int64, lines []DocumentLine) error {
	for i := range lines {
		err := r.db.QueryRow(ctx, fmt.Sprintf(`
			INSERT INTO %s (%s, item_id, description, quantity, unit, unit_price, tax_rate,
				subtotal, tax_amount, line_total, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id`, table, fk),
			documentID, lines[i].ItemID, lines[i].Description, lines[i].Quantity, lines[i].Unit,
			lines[i].UnitPrice, lines[i].TaxRate, lines[i].Subtotal, lines[i].TaxAmount,
			lines[i].LineTotal, lines[i].SortOrder,
		).Scan(&lines[i].ID)
		if err != nil {
			return err
		}
		lines[i].DocumentID = documentID
	}
	return nil
}

func (r *repository) DeleteQuotationLines(ctx context.Context, quotationID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM quotation_lines WHERE quotation_id = $1`, quotationID)
	return err
}

func (r *repository) DeleteInvoiceLines(ctx context.Context, invoiceID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, invoiceID)
	return err
}

// NextSequence draws the next number for a per-company, per-year document
// sequence. The upsert makes concurrent draws serialize on the row.
func (r *repository) NextSequence(ctx context.Context, companyID int64, kind string, year int) (int64, error) {
	var seq int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO document_sequences (company_id, kind, year, seq)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (company_id, kind, year)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq`,
		companyID, kind, year,
	).Scan(&seq)
	return seq, err
}

func (r *repository) AdjustClientBalance(ctx context.Context, companyID, clientID int64, delta float64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE clients SET balance = balance + $1, updated_at = NOW()
		WHERE company_id = $2 AND id = $3`,
		delta, companyID, clientID,
	)
	return err
}
