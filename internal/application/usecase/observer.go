package usecase

import (
	"time"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/bibbank/kyc-risk-service/internal/application/usecase")

// Observer receives operational measurements from the use cases.
type Observer interface {
	AssessmentCompleted(tier, trigger string, elapsed time.Duration)
	AssessmentFailed(trigger, reason string)
	SweepCompleted(processed, failed int, elapsed time.Duration)
	ParameterChanged(id string)
}

// NopObserver discards measurements.
type NopObserver struct{}

func (NopObserver) AssessmentCompleted(string, string, time.Duration) {}
func (NopObserver) AssessmentFailed(string, string)                  {}
func (NopObserver) SweepCompleted(int, int, time.Duration)           {}
func (NopObserver) ParameterChanged(string)                          {}
