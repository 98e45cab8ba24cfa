package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue every task runs on.
	QueueDefault = "default"

	// TaskDashboardWarmup pre-assembles the dashboard summary cache.
	TaskDashboardWarmup = "dashboard:warmup"
)

// DashboardWarmupPayload parameterizes a warmup run. Reason is carried
// into the logs so scheduled and bump-triggered runs can be told apart.
type DashboardWarmupPayload struct {
	Reason string `json:"reason"`
}

// NewDashboardWarmupTask builds a warmup task.
func NewDashboardWarmupTask(reason string) (*asynq.Task, error) {
	payload, err := json.Marshal(DashboardWarmupPayload{Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, payload), nil
}
