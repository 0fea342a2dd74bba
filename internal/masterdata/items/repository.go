package items

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the item does not exist within the company.
var ErrNotFound = errors.New("item not found")

// Repository persists catalog items. Every query is scoped by company ID.
type Repository interface {
	Create(ctx context.Context, companyID int64, req CreateItemRequest) (*Item, error)
	Get(ctx context.Context, companyID, id int64) (*Item, error)
	List(ctx context.Context, companyID int64, filter ListItemsFilter) ([]Item, int, error)
	Update(ctx context.Context, companyID, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, companyID, id int64) (*Item, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a PostgreSQL-backed item repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const itemColumns = `id, company_id, name, name_urdu, description, unit_price, tax_rate,
	unit, is_service, sku, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	err := row.Scan(
		&it.ID, &it.CompanyID, &it.Name, &it.NameUrdu, &it.Description,
		&it.UnitPrice, &it.TaxRate, &it.Unit, &it.IsService, &it.SKU,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *repository) Create(ctx context.Context, companyID int64, req CreateItemRequest) (*Item, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO items (company_id, name, name_urdu, description, unit_price, tax_rate, unit, is_service, sku)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, itemColumns),
		companyID, req.Name, req.NameUrdu, req.Description, req.UnitPrice, req.TaxRate,
		req.Unit, req.IsService, req.SKU,
	)
	return scanItem(row)
}

func (r *repository) Get(ctx context.Context, companyID, id int64) (*Item, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM items WHERE company_id = $1 AND id = $2`, itemColumns),
		companyID, id,
	)
	return scanItem(row)
}

func (r *repository) List(ctx context.Context, companyID int64, filter ListItemsFilter) ([]Item, int, error) {
	where := "WHERE company_id = $1"
	args := []interface{}{companyID}
	if filter.Search != "" {
		where += " AND (name ILIKE $2 OR sku ILIKE $2)"
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM items "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM items %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		itemColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := make([]Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *it)
	}
	return result, total, rows.Err()
}

func (r *repository) Update(ctx context.Context, companyID, id int64, updates map[string]interface{}) error {
	query := "UPDATE items SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{"name", "name_urdu", "description", "unit_price", "tax_rate", "unit", "is_service", "sku"} {
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

func (r *repository) Delete(ctx context.Context, companyID, id int64) (*Item, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		DELETE FROM items WHERE company_id = $1 AND id = $2
		RETURNING %s`, itemColumns),
		companyID, id,
	)
	return scanItem(row)
}
