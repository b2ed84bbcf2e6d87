package valueobject

import (
	"fmt"
	"strings"
)

// MissingDataPolicy decides how calculators treat absent optional customer fields.
//
// NEUTRAL treats a missing occupation or activity as no match and a missing
// income as the lowest bucket. CONSERVATIVE treats both as the riskiest case.
type MissingDataPolicy struct {
	value string
}

var (
	MissingDataNeutral      = MissingDataPolicy{value: "NEUTRAL"}
	MissingDataConservative = MissingDataPolicy{value: "CONSERVATIVE"}
)

// MissingDataPolicyFromString parses a policy name case-insensitively.
func MissingDataPolicyFromString(s string) (MissingDataPolicy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NEUTRAL", "":
		return MissingDataNeutral, nil
	case "CONSERVATIVE":
		return MissingDataConservative, nil
	default:
		return MissingDataPolicy{}, fmt.Errorf("invalid missing data policy: %s", s)
	}
}

func (p MissingDataPolicy) String() string {
	return p.value
}

// IsConservative reports whether absent data is scored as worst case.
func (p MissingDataPolicy) IsConservative() bool {
	return p.value == "CONSERVATIVE"
}

func (p MissingDataPolicy) IsZero() bool {
	return p.value == ""
}

func (p MissingDataPolicy) Equal(other MissingDataPolicy) bool {
	return p.value == other.value
}
