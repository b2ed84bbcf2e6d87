package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bibbank/kyc-risk-service/internal/application/dto"
	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/port"
	"github.com/bibbank/kyc-risk-service/internal/domain/service"
	"github.com/bibbank/kyc-risk-service/pkg/events"
)

// ReassessCustomersUseCase re-assesses stored customer snapshots, either as a
// periodic sweep or one customer at a time.
type ReassessCustomersUseCase struct {
	assessor
	store     *service.ParameterStore
	customers port.CustomerSnapshotReader
	publisher port.EventPublisher
	workers   int
}

// NewReassessCustomersUseCase creates a new ReassessCustomersUseCase. workers
// bounds how many customers are assessed concurrently.
func NewReassessCustomersUseCase(
	store *service.ParameterStore,
	aggregator *service.RiskAggregator,
	customers port.CustomerSnapshotReader,
	assessments port.AssessmentRepository,
	publisher port.EventPublisher,
	observer Observer,
	logger *slog.Logger,
	workers int,
) *ReassessCustomersUseCase {
	if workers < 1 {
		workers = 1
	}
	return &ReassessCustomersUseCase{
		assessor:  assessor{aggregator: aggregator, assessments: assessments, observer: observer, logger: logger},
		store:     store,
		customers: customers,
		publisher: publisher,
		workers:   workers,
	}
}

// Execute assesses every due customer against one parameter snapshot. A failure
// for one customer is reported and does not stop the others.
func (uc *ReassessCustomersUseCase) Execute(ctx context.Context, req dto.ReassessCustomersRequest) (dto.ReassessCustomersResponse, error) {
	if err := req.Validate(); err != nil {
		return dto.ReassessCustomersResponse{}, err
	}
	ctx, span := tracer.Start(ctx, "kycrisk.reassess_batch")
	defer span.End()

	started := time.Now().UTC()
	due, err := uc.customers.ListDue(ctx, req.Limit)
	if err != nil {
		return dto.ReassessCustomersResponse{}, fmt.Errorf("failed to list customers due for review: %w", err)
	}
	snapshot, err := uc.store.Snapshot(ctx)
	if err != nil {
		return dto.ReassessCustomersResponse{}, err
	}

	trigger := req.Trigger
	if trigger == "" {
		trigger = TriggerScheduled
	}
	actx := service.AssessmentContext{AssessedBy: req.AssessedBy, Trigger: trigger}

	results := make([]*model.RiskAssessment, len(due))
	var (
		collector events.Collector
		mu        sync.Mutex
		failed    []dto.FailedCustomer
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i, customer := range due {
		i, customer := i, customer
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			assessment, evts, err := uc.assess(gctx, customer, snapshot, actx)
			if err != nil {
				uc.logger.Error("reassessment failed",
					slog.String("customer_id", customer.ID.String()),
					slog.String("error", err.Error()),
				)
				mu.Lock()
				failed = append(failed, dto.FailedCustomer{CustomerID: customer.ID.String(), Error: err.Error()})
				mu.Unlock()
				return nil
			}
			results[i] = assessment
			collector.Record(evts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dto.ReassessCustomersResponse{}, fmt.Errorf("reassessment interrupted: %w", err)
	}

	publish(ctx, uc.publisher, uc.logger, collector.Drain())

	assessed := make([]*model.RiskAssessment, 0, len(results))
	responses := make([]dto.AssessmentResponse, 0, len(results))
	escalated := 0
	for _, a := range results {
		if a == nil {
			continue
		}
		assessed = append(assessed, a)
		responses = append(responses, dto.FromAssessment(a))
		if a.RequiresReview() {
			escalated++
		}
	}
	summary := model.SummarizeAssessments(assessed)

	elapsed := time.Since(started)
	uc.observer.SweepCompleted(len(assessed), len(failed), elapsed)
	uc.logger.Info("reassessment sweep completed",
		slog.Int("due", len(due)),
		slog.Int("assessed", len(assessed)),
		slog.Int("failed", len(failed)),
		slog.Int("escalated", escalated),
		slog.Duration("elapsed", elapsed),
	)

	if failed == nil {
		failed = []dto.FailedCustomer{}
	}
	return dto.ReassessCustomersResponse{
		StartedAt:   started,
		CompletedAt: started.Add(elapsed),
		Summary:     dto.FromRiskSummary(summary),
		Assessments: responses,
		Failed:      failed,
		Escalated:   escalated,
	}, nil
}

// ExecuteOne re-assesses a single stored customer snapshot.
func (uc *ReassessCustomersUseCase) ExecuteOne(ctx context.Context, req dto.ReassessCustomerRequest) (dto.AssessmentResponse, error) {
	if err := req.Validate(); err != nil {
		return dto.AssessmentResponse{}, err
	}
	customer, err := uc.customers.FindByID(ctx, uuid.MustParse(req.CustomerID))
	if err != nil {
		return dto.AssessmentResponse{}, err
	}
	snapshot, err := uc.store.Snapshot(ctx)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	trigger := req.Trigger
	if trigger == "" {
		trigger = TriggerProfileChange
	}
	assessment, evts, err := uc.assess(ctx, customer, snapshot, service.AssessmentContext{AssessedBy: req.AssessedBy, Trigger: trigger})
	if err != nil {
		return dto.AssessmentResponse{}, err
	}
	publish(ctx, uc.publisher, uc.logger, evts)
	return dto.FromAssessment(assessment), nil
}
