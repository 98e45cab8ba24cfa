package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/comprebem/comprebem/internal/dashboard"
)

// DashboardWarmupJob pre-populates the dashboard summary cache so the
// first console load after an invalidation is served warm.
type DashboardWarmupJob struct {
	Dashboard *dashboard.Service
	Logger    *slog.Logger
	clock     func() time.Time
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(svc *dashboard.Service, logger *slog.Logger) *DashboardWarmupJob {
	return &DashboardWarmupJob{
		Dashboard: svc,
		Logger:    logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes dashboard warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Reason == "" {
		payload.Reason = "scheduled"
	}

	logger := j.logger().With(slog.String("reason", payload.Reason))
	logger.Info("starting dashboard warmup")

	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := j.now()
	if err := j.Dashboard.Warm(runCtx); err != nil {
		logger.Error("warm dashboard", slog.Any("error", err))
		return err
	}

	logger.Info("completed dashboard warmup", slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDashboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskDashboardWarmup))
}

func (j *DashboardWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
