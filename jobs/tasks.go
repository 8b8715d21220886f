// Package jobs runs background maintenance for the gateway on Asynq.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuditPurge is the task type for trimming the audit trail.
	TaskAuditPurge = "audit:purge"
)

// AuditPurgePayload describes one purge run.
type AuditPurgePayload struct {
	Retention time.Duration `json:"retention"`
}

// NewAuditPurgeTask constructs an Asynq task for the purge job.
func NewAuditPurgeTask(payload AuditPurgePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditPurge, data), nil
}
