package valueobject

import "fmt"

// RiskComponent identifies one of the four signals combined into an overall risk score.
type RiskComponent struct {
	value string
}

var (
	RiskComponentGeographic   = RiskComponent{value: "GEOGRAPHIC"}
	RiskComponentActivity     = RiskComponent{value: "ACTIVITY"}
	RiskComponentFinancial    = RiskComponent{value: "FINANCIAL"}
	RiskComponentRelationship = RiskComponent{value: "RELATIONSHIP"}
)

// AllRiskComponents lists the components in aggregation order.
func AllRiskComponents() []RiskComponent {
	return []RiskComponent{
		RiskComponentGeographic,
		RiskComponentActivity,
		RiskComponentFinancial,
		RiskComponentRelationship,
	}
}

func RiskComponentFromString(s string) (RiskComponent, error) {
	switch s {
	case "GEOGRAPHIC":
		return RiskComponentGeographic, nil
	case "ACTIVITY":
		return RiskComponentActivity, nil
	case "FINANCIAL":
		return RiskComponentFinancial, nil
	case "RELATIONSHIP":
		return RiskComponentRelationship, nil
	default:
		return RiskComponent{}, fmt.Errorf("invalid risk component: %s", s)
	}
}

func (c RiskComponent) String() string {
	return c.value
}

// ParameterID returns the id of the CUSTOMER-category parameter weighting this component.
func (c RiskComponent) ParameterID() string {
	if c.value == "" {
		return ""
	}
	return c.value + "_RISK"
}

func (c RiskComponent) IsZero() bool {
	return c.value == ""
}

func (c RiskComponent) Equal(other RiskComponent) bool {
	return c.value == other.value
}
