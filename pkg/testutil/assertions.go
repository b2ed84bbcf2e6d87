package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// AssertErrorContains checks that err is non-nil and mentions expected.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expected)
	}
}

// AssertDecimalEqual compares decimals by value so 0.70 equals 0.7.
func AssertDecimalEqual(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	want := decimal.RequireFromString(expected)
	assert.Truef(t, want.Equal(actual), "expected %s, got %s", want, actual)
}
