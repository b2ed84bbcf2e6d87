package valueobject

import "fmt"

// CustomerType classifies a customer for risk and documentation purposes.
type CustomerType struct {
	value string
}

var (
	CustomerTypeDomesticIndividual = CustomerType{value: "DOMESTIC_INDIVIDUAL"}
	CustomerTypeForeignIndividual  = CustomerType{value: "FOREIGN_INDIVIDUAL"}
	CustomerTypeLegalEntity        = CustomerType{value: "LEGAL_ENTITY"}
)

// AllCustomerTypes lists every supported customer type.
func AllCustomerTypes() []CustomerType {
	return []CustomerType{
		CustomerTypeDomesticIndividual,
		CustomerTypeForeignIndividual,
		CustomerTypeLegalEntity,
	}
}

// CustomerTypeFromString reconstructs a CustomerType from its string representation.
func CustomerTypeFromString(s string) (CustomerType, error) {
	switch s {
	case "DOMESTIC_INDIVIDUAL":
		return CustomerTypeDomesticIndividual, nil
	case "FOREIGN_INDIVIDUAL":
		return CustomerTypeForeignIndividual, nil
	case "LEGAL_ENTITY":
		return CustomerTypeLegalEntity, nil
	default:
		return CustomerType{}, fmt.Errorf("invalid customer type: %s", s)
	}
}

// String returns the string representation.
func (c CustomerType) String() string {
	return c.value
}

// IsIndividual reports whether the type describes a natural person.
func (c CustomerType) IsIndividual() bool {
	return c == CustomerTypeDomesticIndividual || c == CustomerTypeForeignIndividual
}

// IsZero returns true if the CustomerType has not been set.
func (c CustomerType) IsZero() bool {
	return c.value == ""
}

// Equal checks equality with another CustomerType.
func (c CustomerType) Equal(other CustomerType) bool {
	return c.value == other.value
}
