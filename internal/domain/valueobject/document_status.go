package valueobject

import "fmt"

// DocumentStatus is the review state of an uploaded compliance document.
// APPROVED and REJECTED are terminal.
type DocumentStatus struct {
	value string
}

var (
	DocumentStatusPending  = DocumentStatus{value: "PENDING"}
	DocumentStatusApproved = DocumentStatus{value: "APPROVED"}
	DocumentStatusRejected = DocumentStatus{value: "REJECTED"}
)

// DocumentStatusFromString reconstructs a DocumentStatus from its string representation.
func DocumentStatusFromString(s string) (DocumentStatus, error) {
	switch s {
	case "PENDING":
		return DocumentStatusPending, nil
	case "APPROVED":
		return DocumentStatusApproved, nil
	case "REJECTED":
		return DocumentStatusRejected, nil
	default:
		return DocumentStatus{}, fmt.Errorf("invalid document status: %s", s)
	}
}

// String returns the string representation.
func (s DocumentStatus) String() string {
	return s.value
}

// IsTerminal returns true if no further review transition is allowed.
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusApproved || s == DocumentStatusRejected
}

// CanTransitionTo checks if a transition from the current status to the target is valid.
func (s DocumentStatus) CanTransitionTo(target DocumentStatus) bool {
	return s == DocumentStatusPending && target.IsTerminal()
}

// IsZero returns true if the DocumentStatus has not been set.
func (s DocumentStatus) IsZero() bool {
	return s.value == ""
}

// Equal checks equality with another DocumentStatus.
func (s DocumentStatus) Equal(other DocumentStatus) bool {
	return s.value == other.value
}
