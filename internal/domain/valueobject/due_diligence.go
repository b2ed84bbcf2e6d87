package valueobject

import "fmt"

// DueDiligenceLevel is the depth of customer due diligence required by a risk tier.
type DueDiligenceLevel struct {
	value string
}

var (
	DueDiligenceSimplified = DueDiligenceLevel{value: "SIMPLIFIED"}
	DueDiligenceStandard   = DueDiligenceLevel{value: "STANDARD"}
	DueDiligenceEnhanced   = DueDiligenceLevel{value: "ENHANCED"}
)

func DueDiligenceLevelFromString(s string) (DueDiligenceLevel, error) {
	switch s {
	case "SIMPLIFIED":
		return DueDiligenceSimplified, nil
	case "STANDARD":
		return DueDiligenceStandard, nil
	case "ENHANCED":
		return DueDiligenceEnhanced, nil
	default:
		return DueDiligenceLevel{}, fmt.Errorf("invalid due diligence level: %s", s)
	}
}

func (d DueDiligenceLevel) String() string {
	return d.value
}

// DisplayName returns the label used on compliance reports.
func (d DueDiligenceLevel) DisplayName() string {
	switch d.value {
	case "ENHANCED":
		return "Enhanced Due Diligence"
	case "STANDARD":
		return "Standard Due Diligence"
	case "SIMPLIFIED":
		return "Simplified Due Diligence"
	default:
		return ""
	}
}

func (d DueDiligenceLevel) IsZero() bool {
	return d.value == ""
}

func (d DueDiligenceLevel) Equal(other DueDiligenceLevel) bool {
	return d.value == other.value
}
