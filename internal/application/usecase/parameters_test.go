package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/kyc-risk-service/internal/application/dto"
	"github.com/bibbank/kyc-risk-service/internal/application/usecase"
	"github.com/bibbank/kyc-risk-service/internal/domain/event"
	"github.com/bibbank/kyc-risk-service/internal/domain/model"
)

func customerSet(weights ...string) []dto.ParameterDTO {
	ids := []string{"GEOGRAPHIC_RISK", "ACTIVITY_RISK", "FINANCIAL_RISK", "RELATIONSHIP_RISK"}
	th := dto.ThresholdsDTO{Low: "0.4", Medium: "0.6", High: "0.8"}
	out := make([]dto.ParameterDTO, 0, len(weights))
	for i, w := range weights {
		out = append(out, dto.ParameterDTO{ID: ids[i], Name: ids[i], Category: "CUSTOMER", Weight: w, Thresholds: th, Active: true})
	}
	return out
}

func TestParameterUseCases_GetAndList(t *testing.T) {
	uc := usecase.NewParameterUseCases(newStore(), &mockEventPublisher{}, usecase.NopObserver{}, discardLogger())
	ctx := context.Background()

	p, err := uc.Get(ctx, dto.GetParameterRequest{ID: "FINANCIAL_RISK"})
	require.NoError(t, err)
	assert.Equal(t, "0.3", p.Weight)
	assert.Equal(t, "CUSTOMER", p.Category)

	_, err = uc.Get(ctx, dto.GetParameterRequest{ID: "UNKNOWN"})
	assert.True(t, errors.Is(err, model.ErrNotFound))

	list, err := uc.List(ctx, dto.ListParametersRequest{Category: "DELIVERY"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = uc.List(ctx, dto.ListParametersRequest{Category: "WEATHER"})
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestParameterUseCases_Update(t *testing.T) {
	tests := []struct {
		name        string
		req         dto.UpdateParameterRequest
		wantErr     bool
		wantEvents  int
		expectedWgt string
	}{
		{
			name:        "weight change publishes event",
			req:         dto.UpdateParameterRequest{ID: "GEOGRAPHIC_RISK", Weight: strPtr("0.25"), Actor: "officer-1"},
			wantEvents:  1,
			expectedWgt: "0.25",
		},
		{
			name:    "malformed decimal",
			req:     dto.UpdateParameterRequest{ID: "GEOGRAPHIC_RISK", Weight: strPtr("a lot")},
			wantErr: true,
		},
		{
			name:    "weight out of range",
			req:     dto.UpdateParameterRequest{ID: "GEOGRAPHIC_RISK", Weight: strPtr("2")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := &mockEventPublisher{}
			observer := &recordingObserver{}
			uc := usecase.NewParameterUseCases(newStore(), publisher, observer, discardLogger())

			resp, err := uc.Update(context.Background(), tt.req)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, model.ErrValidation))
				assert.Zero(t, publisher.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedWgt, resp.Weight)
			assert.Equal(t, tt.req.Actor, resp.UpdatedBy)
			require.Len(t, publisher.published, tt.wantEvents)
			assert.Equal(t, event.TypeParameterUpdated, publisher.published[0].EventType())
			assert.Equal(t, []string{tt.req.ID}, observer.parameters)
		})
	}
}

func TestParameterUseCases_Validate(t *testing.T) {
	uc := usecase.NewParameterUseCases(newStore(), &mockEventPublisher{}, usecase.NopObserver{}, discardLogger())
	ctx := context.Background()

	resp, err := uc.Validate(ctx, dto.ParameterSetRequest{Parameters: customerSet("0.25", "0.25", "0.25", "0.25")})
	require.NoError(t, err)
	assert.True(t, resp.Valid)

	resp, err = uc.Validate(ctx, dto.ParameterSetRequest{Parameters: customerSet("0.5", "0.25", "0.25", "0.25")})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, "CUSTOMER", resp.Category)
	assert.NotEmpty(t, resp.Reason)

	resp, err = uc.Validate(ctx, dto.ParameterSetRequest{})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, "parameters", resp.Field)
}

func TestParameterUseCases_Apply(t *testing.T) {
	publisher := &mockEventPublisher{}
	store := newStore()
	uc := usecase.NewParameterUseCases(store, publisher, usecase.NopObserver{}, discardLogger())
	ctx := context.Background()

	applied, err := uc.Apply(ctx, dto.ParameterSetRequest{Actor: "officer-2", Parameters: customerSet("0.1", "0.2", "0.3", "0.4")})
	require.NoError(t, err)
	require.Len(t, applied, 4)
	assert.Equal(t, "officer-2", applied[0].UpdatedBy)
	assert.Equal(t, 1, publisher.calls)
	assert.Len(t, publisher.published, 4)

	_, err = uc.Apply(ctx, dto.ParameterSetRequest{Actor: "officer-2", Parameters: customerSet("0.9", "0.2", "0.3", "0.4")})
	require.Error(t, err)
	assert.Equal(t, 1, publisher.calls)

	p, err := uc.Get(ctx, dto.GetParameterRequest{ID: "RELATIONSHIP_RISK"})
	require.NoError(t, err)
	assert.Equal(t, "0.4", p.Weight)
}
