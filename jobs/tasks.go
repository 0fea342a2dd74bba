// Package jobs holds the background task definitions and the Asynq worker
// that runs them.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOverdueSweep marks sent invoices past their due date as overdue.
	TaskOverdueSweep = "invoice:overdue_sweep"
)

// OverdueSweepPayload optionally narrows the sweep to one company.
// A zero CompanyID sweeps every tenant.
type OverdueSweepPayload struct {
	CompanyID int64 `json:"companyId"`
}

// NewOverdueSweepTask constructs an overdue sweep task.
func NewOverdueSweepTask(payload OverdueSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOverdueSweep, data), nil
}

func decodePayload(t *asynq.Task, target any) error {
	if len(t.Payload()) == 0 {
		return nil
	}
	if err := json.Unmarshal(t.Payload(), target); err != nil {
		return asynq.SkipRetry
	}
	return nil
}
