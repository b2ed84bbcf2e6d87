package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/kyc-risk-service/internal/application/dto"
	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/pkg/events"
	"github.com/bibbank/kyc-risk-service/pkg/kafka"
)

type mockWriter struct {
	publishFunc func(ctx context.Context, topic string, messages ...kafka.Message) error
	topic       string
	messages    []kafka.Message
}

func (m *mockWriter) Publish(ctx context.Context, topic string, messages ...kafka.Message) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, topic, messages...)
	}
	m.topic = topic
	m.messages = append(m.messages, messages...)
	return nil
}

type mockReassessor struct {
	executeFunc func(ctx context.Context, req dto.ReassessCustomerRequest) (dto.AssessmentResponse, error)
	requests    []dto.ReassessCustomerRequest
}

func (m *mockReassessor) ExecuteOne(ctx context.Context, req dto.ReassessCustomerRequest) (dto.AssessmentResponse, error) {
	m.requests = append(m.requests, req)
	if m.executeFunc != nil {
		return m.executeFunc(ctx, req)
	}
	return dto.AssessmentResponse{CustomerID: req.CustomerID, Tier: "LOW"}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEventPublisher_Publish(t *testing.T) {
	writer := &mockWriter{}
	pub := NewEventPublisher(writer, "kycrisk.events", discardLogger())

	aggregateID := uuid.New()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	evt := events.NewBaseEventAt("kycrisk.tier.escalated", aggregateID, "RiskAssessment", []byte(`{"new_tier":"HIGH"}`), at)

	require.NoError(t, pub.Publish(context.Background(), evt))

	assert.Equal(t, "kycrisk.events", writer.topic)
	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, aggregateID.String(), string(msg.Key))
	assert.JSONEq(t, `{"new_tier":"HIGH"}`, string(msg.Value))
	assert.Equal(t, "kycrisk.tier.escalated", msg.Headers[HeaderEventType])
	assert.Equal(t, evt.EventID().String(), msg.Headers[HeaderEventID])
	assert.Equal(t, "RiskAssessment", msg.Headers[HeaderAggregateType])
	assert.Equal(t, "2026-03-01T12:00:00Z", msg.Headers[HeaderOccurredAt])
}

func TestEventPublisher_NoEvents(t *testing.T) {
	writer := &mockWriter{publishFunc: func(context.Context, string, ...kafka.Message) error {
		t.Fatal("writer must not be called")
		return nil
	}}
	assert.NoError(t, NewEventPublisher(writer, "t", discardLogger()).Publish(context.Background()))
}

func TestEventPublisher_WriterError(t *testing.T) {
	writer := &mockWriter{publishFunc: func(context.Context, string, ...kafka.Message) error {
		return errors.New("leader not available")
	}}
	evt := events.NewBaseEvent("x", uuid.New(), "RiskAssessment", nil)

	err := NewEventPublisher(writer, "t", discardLogger()).Publish(context.Background(), evt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
}

func TestCustomerUpdateHandler_Handle(t *testing.T) {
	customerID := uuid.NewString()

	tests := []struct {
		name       string
		value      string
		executeErr error
		wantErr    bool
		wantCalls  int
	}{
		{name: "reassesses customer", value: `{"customer_id":"` + customerID + `","updated_by":"crm"}`, wantCalls: 1},
		{name: "malformed payload is dropped", value: `{not json`, wantCalls: 0},
		{name: "unknown customer is dropped", value: `{"customer_id":"` + customerID + `"}`,
			executeErr: &model.NotFoundError{Resource: "customer", ID: customerID}, wantCalls: 1},
		{name: "invalid id is dropped", value: `{"customer_id":"abc"}`,
			executeErr: &model.ValidationError{Field: "customer_id", Reason: "must be a UUID"}, wantCalls: 1},
		{name: "transient failure is retried", value: `{"customer_id":"` + customerID + `"}`,
			executeErr: errors.New("db down"), wantErr: true, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reassessor := &mockReassessor{}
			if tt.executeErr != nil {
				reassessor.executeFunc = func(context.Context, dto.ReassessCustomerRequest) (dto.AssessmentResponse, error) {
					return dto.AssessmentResponse{}, tt.executeErr
				}
			}
			h := NewCustomerUpdateHandler(reassessor, discardLogger())

			err := h.Handle(context.Background(), kafka.Message{Value: []byte(tt.value)})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			require.Len(t, reassessor.requests, tt.wantCalls)
			if tt.wantCalls > 0 {
				assert.Equal(t, "system", reassessor.requests[0].AssessedBy)
			}
		})
	}
}
