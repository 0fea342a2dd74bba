package companies

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the company does not exist.
var ErrNotFound = errors.New("company not found")

// Repository persists companies.
type Repository interface {
	Get(ctx context.Context, id int64) (*Company, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a PostgreSQL-backed company repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const companyColumns = `id, name, name_urdu, ntn, strn, address, city, country,
	phone, email, bank_name, bank_account, iban,
	default_tax_rate, default_payment_term_days, default_currency,
	api_key_hash, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Company, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM companies WHERE id = $1`, companyColumns), id)
	return scanCompany(row)
}

func scanCompany(row pgx.Row) (*Company, error) {
	var c Company
	err := row.Scan(
		&c.ID, &c.Name, &c.NameUrdu, &c.NTN, &c.STRN, &c.Address, &c.City, &c.Country,
		&c.Phone, &c.Email, &c.BankName, &c.BankAccount, &c.IBAN,
		&c.DefaultTaxRate, &c.DefaultPaymentTermDays, &c.DefaultCurrency,
		&c.APIKeyHash, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE companies SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{
		"name", "name_urdu", "ntn", "strn", "address", "city", "country",
		"phone", "email", "bank_name", "bank_account", "iban",
		"default_tax_rate", "default_payment_term_days", "default_currency",
	} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
