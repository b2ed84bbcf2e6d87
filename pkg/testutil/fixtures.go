// Package testutil provides containers and fixtures shared by integration tests.
package testutil

import (
	"github.com/google/uuid"
)

// Fixed customer ids for deterministic tests.
var (
	DomesticCustomerID = uuid.MustParse("00000000-0000-0000-0000-00000000c001")
	ForeignCustomerID  = uuid.MustParse("00000000-0000-0000-0000-00000000c002")
	EntityCustomerID   = uuid.MustParse("00000000-0000-0000-0000-00000000c003")
)

const (
	ComplianceOfficer = "officer-1"
	SystemActor       = "system"
)
