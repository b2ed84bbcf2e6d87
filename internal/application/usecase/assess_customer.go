package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/bibbank/kyc-risk-service/internal/application/dto"
	"github.com/bibbank/kyc-risk-service/internal/domain/event"
	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/port"
	"github.com/bibbank/kyc-risk-service/internal/domain/service"
	"github.com/bibbank/kyc-risk-service/pkg/events"
)

const (
	TriggerOnDemand      = "ON_DEMAND"
	TriggerScheduled     = "SCHEDULED"
	TriggerProfileChange = "PROFILE_CHANGE"
)

// assessor runs, stores and announces one assessment. It is shared by the
// on-demand and batch use cases.
type assessor struct {
	aggregator  *service.RiskAggregator
	assessments port.AssessmentRepository
	observer    Observer
	logger      *slog.Logger
}

func (a *assessor) assess(
	ctx context.Context,
	customer model.Customer,
	snapshot model.ParameterSnapshot,
	actx service.AssessmentContext,
) (*model.RiskAssessment, []events.DomainEvent, error) {
	ctx, span := tracer.Start(ctx, "kycrisk.assess")
	defer span.End()
	span.SetAttributes(
		attribute.String("customer.id", customer.ID.String()),
		attribute.String("assessment.trigger", actx.Trigger),
	)

	started := time.Now()
	assessment, err := a.aggregator.Assess(customer, snapshot, actx)
	if err != nil {
		reason := "invalid_input"
		var aggErr *service.AggregationError
		if errors.As(err, &aggErr) {
			reason = "calculator_" + aggErr.Calculator.String()
		}
		a.observer.AssessmentFailed(actx.Trigger, reason)
		span.RecordError(err)
		span.SetStatus(codes.Error, "assessment failed")
		return nil, nil, fmt.Errorf("failed to assess customer %s: %w", customer.ID, err)
	}

	if err := a.assessments.Save(ctx, assessment); err != nil {
		a.observer.AssessmentFailed(actx.Trigger, "storage")
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return nil, nil, fmt.Errorf("failed to save assessment: %w", err)
	}

	span.SetAttributes(
		attribute.String("assessment.tier", assessment.Tier().String()),
		attribute.String("assessment.score", assessment.OverallScore().String()),
	)
	a.observer.AssessmentCompleted(assessment.Tier().String(), actx.Trigger, time.Since(started))

	evts := []events.DomainEvent{event.NewAssessmentCompleted(assessment)}
	if assessment.RequiresReview() {
		evts = append(evts, event.NewTierEscalated(assessment))
		a.logger.Warn("risk tier escalated",
			slog.String("customer_id", assessment.CustomerID().String()),
			slog.String("previous_tier", assessment.PreviousTier().String()),
			slog.String("tier", assessment.Tier().String()),
		)
	}
	return assessment, evts, nil
}

// publish sends events. A publish failure never undoes a stored assessment and
// is only logged.
func publish(ctx context.Context, publisher port.EventPublisher, logger *slog.Logger, evts []events.DomainEvent) {
	if len(evts) == 0 {
		return
	}
	if err := publisher.Publish(ctx, evts...); err != nil {
		logger.Error("failed to publish events",
			slog.Int("count", len(evts)),
			slog.String("error", err.Error()),
		)
	}
}

// AssessCustomerRiskUseCase assesses a submitted customer snapshot.
type AssessCustomerRiskUseCase struct {
	assessor
	store     *service.ParameterStore
	publisher port.EventPublisher
}

// NewAssessCustomerRiskUseCase creates a new AssessCustomerRiskUseCase.
func NewAssessCustomerRiskUseCase(
	store *service.ParameterStore,
	aggregator *service.RiskAggregator,
	assessments port.AssessmentRepository,
	publisher port.EventPublisher,
	observer Observer,
	logger *slog.Logger,
) *AssessCustomerRiskUseCase {
	return &AssessCustomerRiskUseCase{
		assessor:  assessor{aggregator: aggregator, assessments: assessments, observer: observer, logger: logger},
		store:     store,
		publisher: publisher,
	}
}

// Execute assesses the customer and stores the result.
func (uc *AssessCustomerRiskUseCase) Execute(ctx context.Context, req dto.AssessCustomerRequest) (dto.AssessmentResponse, error) {
	customer, err := req.Customer.ToCustomer()
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	snapshot, err := uc.store.Snapshot(ctx)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	trigger := req.Trigger
	if trigger == "" {
		trigger = TriggerOnDemand
	}
	assessment, evts, err := uc.assess(ctx, customer, snapshot, service.AssessmentContext{
		AssessedBy: req.AssessedBy,
		Trigger:    trigger,
	})
	if err != nil {
		return dto.AssessmentResponse{}, err
	}
	publish(ctx, uc.publisher, uc.logger, evts)

	uc.logger.Info("customer assessed",
		slog.String("customer_id", customer.ID.String()),
		slog.String("tier", assessment.Tier().String()),
		slog.String("score", assessment.OverallScore().String()),
	)
	return dto.FromAssessment(assessment), nil
}
