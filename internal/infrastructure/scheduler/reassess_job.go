package scheduler

import (
	"context"
	"log/slog"

	"github.com/bibbank/kyc-risk-service/internal/application/dto"
	"github.com/bibbank/kyc-risk-service/internal/application/usecase"
)

// BatchReassessor runs a re-assessment sweep.
type BatchReassessor interface {
	Execute(ctx context.Context, req dto.ReassessCustomersRequest) (dto.ReassessCustomersResponse, error)
}

// ReassessJob is the periodic re-assessment of customers due for review.
type ReassessJob struct {
	reassessor BatchReassessor
	logger     *slog.Logger
	limit      int
}

func NewReassessJob(reassessor BatchReassessor, limit int, logger *slog.Logger) *ReassessJob {
	return &ReassessJob{reassessor: reassessor, limit: limit, logger: logger}
}

func (j *ReassessJob) Name() string { return "periodic_reassessment" }

func (j *ReassessJob) Run(ctx context.Context) error {
	resp, err := j.reassessor.Execute(ctx, dto.ReassessCustomersRequest{
		Trigger:    usecase.TriggerScheduled,
		AssessedBy: "system",
		Limit:      j.limit,
	})
	if err != nil {
		return err
	}
	if len(resp.Failed) > 0 || resp.Escalated > 0 {
		j.logger.Warn("periodic reassessment needs attention",
			slog.Int("failed", len(resp.Failed)),
			slog.Int("escalated", resp.Escalated),
		)
	}
	return nil
}
