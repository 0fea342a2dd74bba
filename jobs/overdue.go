package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OverdueSweeper flips sent invoices past their due date to overdue.
type OverdueSweeper struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewOverdueSweeper builds an OverdueSweeper.
func NewOverdueSweeper(pool *pgxpool.Pool, logger *slog.Logger) *OverdueSweeper {
	return &OverdueSweeper{pool: pool, logger: logger}
}

// Handle processes a TaskOverdueSweep task.
func (s *OverdueSweeper) Handle(ctx context.Context, t *asynq.Task) error {
	var payload OverdueSweepPayload
	if err := decodePayload(t, &payload); err != nil {
		return err
	}

	query := `UPDATE invoices SET status = 'overdue', updated_at = NOW()
		WHERE status = 'sent' AND due_date < NOW()`
	args := []interface{}{}
	if payload.CompanyID != 0 {
		query += " AND company_id = $1"
		args = append(args, payload.CompanyID)
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if s.logger != nil && tag.RowsAffected() > 0 {
		s.logger.Info("overdue sweep",
			slog.Int64("invoices", tag.RowsAffected()),
			slog.Int64("companyId", payload.CompanyID))
	}
	return nil
}
