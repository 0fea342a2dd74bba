package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the client does not exist within the company.
var ErrNotFound = errors.New("client not found")

// Repository persists clients. Every query is scoped by company ID.
type Repository interface {
	Create(ctx context.Context, companyID int64, req CreateClientRequest) (*Client, error)
	Get(ctx context.Context, companyID, id int64) (*Client, error)
	List(ctx context.Context, companyID int64, filter ListClientsFilter) ([]Client, int, error)
	Update(ctx context.Context, companyID, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, companyID, id int64) (*Client, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a PostgreSQL-backed client repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const clientColumns = `id, company_id, name, name_urdu, email, phone, address, city, tax_id,
	balance, created_at, updated_at`

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.NameUrdu, &c.Email, &c.Phone,
		&c.Address, &c.City, &c.TaxID, &c.Balance, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, companyID int64, req CreateClientRequest) (*Client, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO clients (company_id, name, name_urdu, email, phone, address, city, tax_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, clientColumns),
		companyID, req.Name, req.NameUrdu, req.Email, req.Phone, req.Address, req.City, req.TaxID,
	)
	return scanClient(row)
}

func (r *repository) Get(ctx context.Context, companyID, id int64) (*Client, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM clients WHERE company_id = $1 AND id = $2`, clientColumns),
		companyID, id,
	)
	return scanClient(row)
}

func (r *repository) List(ctx context.Context, companyID int64, filter ListClientsFilter) ([]Client, int, error) {
	where := "WHERE company_id = $1"
	args := []interface{}{companyID}
	if filter.Search != "" {
		where += " AND (name ILIKE $2 OR email ILIKE $2)"
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM clients "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM clients %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		clientColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := make([]Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *c)
	}
	return result, total, rows.Err()
}

func (r *repository) Update(ctx context.Context, companyID, id int64, updates map[string]interface{}) error {
	query := "UPDATE clients SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{"name", "name_urdu", "email", "phone", "address", "city", "tax_id"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
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

func (r *repository) Delete(ctx context.Context, companyID, id int64) (*Client, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		DELETE FROM clients WHERE company_id = $1 AND id = $2
		RETURNING %s`, clientColumns),
		companyID, id,
	)
	return scanClient(row)
}
