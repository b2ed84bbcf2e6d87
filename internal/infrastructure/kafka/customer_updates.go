package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/bibbank/kyc-risk-service/internal/application/dto"
	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/pkg/kafka"
)

// CustomerReassessor re-assesses one stored customer snapshot.
type CustomerReassessor interface {
	ExecuteOne(ctx context.Context, req dto.ReassessCustomerRequest) (dto.AssessmentResponse, error)
}

// customerUpdated is the payload the customer service emits after changing a
// snapshot.
type customerUpdated struct {
	CustomerID string `json:"customer_id"`
	UpdatedBy  string `json:"updated_by"`
}

// CustomerUpdateHandler reassesses customers whose profile changed.
type CustomerUpdateHandler struct {
	reassessor CustomerReassessor
	logger     *slog.Logger
}

func NewCustomerUpdateHandler(reassessor CustomerReassessor, logger *slog.Logger) *CustomerUpdateHandler {
	return &CustomerUpdateHandler{reassessor: reassessor, logger: logger}
}

// Handle implements kafka.Handler. Malformed messages and unknown customers are
// dropped so they do not block the partition; other failures are retried.
func (h *CustomerUpdateHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var payload customerUpdated
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		h.logger.Warn("dropping malformed customer update", slog.String("error", err.Error()))
		return nil
	}

	resp, err := h.reassessor.ExecuteOne(ctx, dto.ReassessCustomerRequest{
		CustomerID: payload.CustomerID,
		AssessedBy: "system",
	})
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrNotFound):
		h.logger.Warn("dropping customer update",
			slog.String("customer_id", payload.CustomerID),
			slog.String("error", err.Error()),
		)
		return nil
	case err != nil:
		return err
	}

	h.logger.Info("customer reassessed after profile change",
		slog.String("customer_id", resp.CustomerID),
		slog.String("tier", resp.Tier),
		slog.String("updated_by", payload.UpdatedBy),
	)
	return nil
}
