package model

import (
	"sort"
	"time"

	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

// ParameterSnapshot is an immutable view of the active parameters at one instant.
// Assessments read weights from a snapshot so that concurrent parameter updates
// never affect an assessment in flight.
type ParameterSnapshot struct {
	takenAt time.Time
	byID    map[string]RiskParameter
}

// NewParameterSnapshot copies the active parameters into a snapshot.
func NewParameterSnapshot(params []RiskParameter, takenAt time.Time) ParameterSnapshot {
	byID := make(map[string]RiskParameter, len(params))
	for _, p := range params {
		if p.Active() {
			byID[p.ID()] = p
		}
	}
	return ParameterSnapshot{takenAt: takenAt.UTC(), byID: byID}
}

// Get returns the active parameter with the given id.
func (s ParameterSnapshot) Get(id string) (RiskParameter, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Category returns the active parameters in a category sorted by id.
func (s ParameterSnapshot) Category(category valueobject.ParameterCategory) []RiskParameter {
	out := make([]RiskParameter, 0)
	for _, p := range s.byID {
		if p.Category().Equal(category) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Len returns the number of active parameters.
func (s ParameterSnapshot) Len() int {
	return len(s.byID)
}

// TakenAt returns when the snapshot was taken.
func (s ParameterSnapshot) TakenAt() time.Time {
	return s.takenAt
}
