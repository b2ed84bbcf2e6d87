package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bibbank/kyc-risk-service/internal/application/dto"
	"github.com/bibbank/kyc-risk-service/internal/domain/event"
	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/port"
	"github.com/bibbank/kyc-risk-service/internal/domain/service"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
	"github.com/bibbank/kyc-risk-service/pkg/events"
)

// ParameterUseCases exposes read and write access to the risk parameter table.
type ParameterUseCases struct {
	store     *service.ParameterStore
	publisher port.EventPublisher
	observer  Observer
	logger    *slog.Logger
}

func NewParameterUseCases(store *service.ParameterStore, publisher port.EventPublisher, observer Observer, logger *slog.Logger) *ParameterUseCases {
	return &ParameterUseCases{store: store, publisher: publisher, observer: observer, logger: logger}
}

func (uc *ParameterUseCases) Get(ctx context.Context, req dto.GetParameterRequest) (dto.ParameterResponse, error) {
	if err := req.Validate(); err != nil {
		return dto.ParameterResponse{}, err
	}
	p, err := uc.store.Get(ctx, req.ID)
	if err != nil {
		return dto.ParameterResponse{}, err
	}
	return dto.FromParameter(p), nil
}

func (uc *ParameterUseCases) List(ctx context.Context, req dto.ListParametersRequest) ([]dto.ParameterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var category *valueobject.ParameterCategory
	if req.Category != "" {
		c, _ := valueobject.ParameterCategoryFromString(req.Category)
		category = &c
	}
	params, err := uc.store.List(ctx, category)
	if err != nil {
		return nil, err
	}
	return dto.FromParameters(params), nil
}

// Update applies a partial change to one parameter.
func (uc *ParameterUseCases) Update(ctx context.Context, req dto.UpdateParameterRequest) (dto.ParameterResponse, error) {
	patch, err := req.ToPatch()
	if err != nil {
		return dto.ParameterResponse{}, err
	}
	updated, err := uc.store.Update(ctx, req.ID, patch, req.Actor)
	if err != nil {
		return dto.ParameterResponse{}, err
	}

	uc.observer.ParameterChanged(updated.ID())
	uc.logger.Info("risk parameter updated",
		slog.String("parameter_id", updated.ID()),
		slog.String("weight", updated.Weight().String()),
		slog.Bool("active", updated.Active()),
		slog.String("actor", req.Actor),
	)
	publish(ctx, uc.publisher, uc.logger, []events.DomainEvent{event.NewParameterUpdated(updated)})
	return dto.FromParameter(updated), nil
}

// Validate checks a candidate set without applying it. Domain violations are
// reported in the response rather than as an error.
func (uc *ParameterUseCases) Validate(_ context.Context, req dto.ParameterSetRequest) (dto.ValidateParameterSetResponse, error) {
	params, err := req.ToParameters()
	if err == nil {
		err = uc.store.ValidateSet(params)
	}
	if err == nil {
		return dto.ValidateParameterSetResponse{Valid: true}, nil
	}

	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		return dto.ValidateParameterSetResponse{Field: vErr.Field, Category: vErr.Category, Reason: vErr.Reason}, nil
	}
	return dto.ValidateParameterSetResponse{}, err
}

// Apply validates and installs a complete parameter set.
func (uc *ParameterUseCases) Apply(ctx context.Context, req dto.ParameterSetRequest) ([]dto.ParameterResponse, error) {
	params, err := req.ToParameters()
	if err != nil {
		return nil, err
	}
	applied, err := uc.store.ApplySet(ctx, params, req.Actor)
	if err != nil {
		return nil, err
	}

	evts := make([]events.DomainEvent, 0, len(applied))
	for _, p := range applied {
		uc.observer.ParameterChanged(p.ID())
		evts = append(evts, event.NewParameterUpdated(p))
	}
	uc.logger.Info("risk parameter set applied",
		slog.Int("count", len(applied)),
		slog.String("actor", req.Actor),
	)
	publish(ctx, uc.publisher, uc.logger, evts)
	return dto.FromParameters(applied), nil
}
