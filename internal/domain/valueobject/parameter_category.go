package valueobject

import "fmt"

// ParameterCategory groups risk parameters whose weights must sum to one.
type ParameterCategory struct {
	value string
}

var (
	ParameterCategoryCustomer    = ParameterCategory{value: "CUSTOMER"}
	ParameterCategoryGeographic  = ParameterCategory{value: "GEOGRAPHIC"}
	ParameterCategoryTransaction = ParameterCategory{value: "TRANSACTION"}
	ParameterCategoryProduct     = ParameterCategory{value: "PRODUCT"}
	ParameterCategoryDelivery    = ParameterCategory{value: "DELIVERY"}
)

// ParameterCategoryFromString reconstructs a ParameterCategory from its string representation.
func ParameterCategoryFromString(s string) (ParameterCategory, error) {
	switch s {
	case "CUSTOMER":
		return ParameterCategoryCustomer, nil
	case "GEOGRAPHIC":
		return ParameterCategoryGeographic, nil
	case "TRANSACTION":
		return ParameterCategoryTransaction, nil
	case "PRODUCT":
		return ParameterCategoryProduct, nil
	case "DELIVERY":
		return ParameterCategoryDelivery, nil
	default:
		return ParameterCategory{}, fmt.Errorf("invalid parameter category: %s", s)
	}
}

func (c ParameterCategory) String() string {
	return c.value
}

func (c ParameterCategory) IsZero() bool {
	return c.value == ""
}

func (c ParameterCategory) Equal(other ParameterCategory) bool {
	return c.value == other.value
}
