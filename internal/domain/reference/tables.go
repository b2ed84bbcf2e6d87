// Package reference holds the static lists and bucket tables that the risk
// calculators consult. Tables are read-only after construction; the default set
// can be replaced at startup from a YAML file.
package reference

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
)

const maxLevel = 5

// IncomeBucket maps an amount ceiling to a risk level. An invalid Ceiling marks
// the unbounded last bucket.
type IncomeBucket struct {
	Ceiling               decimal.NullDecimal
	Level                 int
	DocumentationRequired bool
}

// Contains reports whether amount falls at or below the bucket ceiling.
func (b IncomeBucket) Contains(amount decimal.Decimal) bool {
	return !b.Ceiling.Valid || amount.LessThanOrEqual(b.Ceiling.Decimal)
}

// ActivityBand maps a projected annual amount ceiling to a level.
type ActivityBand struct {
	Ceiling decimal.NullDecimal
	Level   int
}

// Tables is the full set of reference data.
type Tables struct {
	highRiskCountries   set
	mediumRiskCountries set
	borderLocalities    set
	highRiskProvinces   set
	highRiskOccupations set
	highRiskActivities  set
	areaLevels          map[string]map[string]int

	HomeCountry          string
	IndividualIncome     []IncomeBucket
	EntityIncome         []IncomeBucket
	ActivityBands        []ActivityBand
	Documents            []model.DocumentRequirement
	IndividualMultiplier decimal.Decimal
	EntityMultiplier     decimal.Decimal
}

// Lists groups the name lists of a Tables value.
type Lists struct {
	HighRiskCountries   []string
	MediumRiskCountries []string
	BorderLocalities    []string
	HighRiskProvinces   []string
	HighRiskOccupations []string
	HighRiskActivities  []string
	// HighRiskAreas maps province to city to level (1-5).
	HighRiskAreas map[string]map[string]int
}

// New builds Tables from lists and bucket tables and validates them.
func New(
	homeCountry string,
	lists Lists,
	individualIncome, entityIncome []IncomeBucket,
	bands []ActivityBand,
	individualMultiplier, entityMultiplier decimal.Decimal,
	documents []model.DocumentRequirement,
) (*Tables, error) {
	t := &Tables{
		HomeCountry:          strings.TrimSpace(homeCountry),
		highRiskCountries:    newSet(lists.HighRiskCountries),
		mediumRiskCountries:  newSet(lists.MediumRiskCountries),
		borderLocalities:     newSet(lists.BorderLocalities),
		highRiskProvinces:    newSet(lists.HighRiskProvinces),
		highRiskOccupations:  newSet(lists.HighRiskOccupations),
		highRiskActivities:   newSet(lists.HighRiskActivities),
		areaLevels:           make(map[string]map[string]int, len(lists.HighRiskAreas)),
		IndividualIncome:     append([]IncomeBucket(nil), individualIncome...),
		EntityIncome:         append([]IncomeBucket(nil), entityIncome...),
		ActivityBands:        append([]ActivityBand(nil), bands...),
		IndividualMultiplier: individualMultiplier,
		EntityMultiplier:     entityMultiplier,
		Documents:            append([]model.DocumentRequirement(nil), documents...),
	}
	for province, cities := range lists.HighRiskAreas {
		m := make(map[string]int, len(cities))
		for city, level := range cities {
			m[normalize(city)] = level
		}
		t.areaLevels[normalize(province)] = m
	}

	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tables) validate() error {
	if t.HomeCountry == "" {
		return fmt.Errorf("reference tables: home country is required")
	}
	if err := validateBuckets("individual income", t.IndividualIncome); err != nil {
		return err
	}
	if err := validateBuckets("entity income", t.EntityIncome); err != nil {
		return err
	}
	if err := validateBands(t.ActivityBands); err != nil {
		return err
	}
	for province, cities := range t.areaLevels {
		for city, level := range cities {
			if level < 1 || level > 5 {
				return fmt.Errorf("reference tables: area %s/%s level %d out of range", province, city, level)
			}
		}
	}
	if !t.IndividualMultiplier.IsPositive() || !t.EntityMultiplier.IsPositive() {
		return fmt.Errorf("reference tables: activity multipliers must be positive")
	}
	return nil
}

// validateBuckets requires ascending ceilings, non-decreasing levels and an
// unbounded last bucket at the top level that requires documentation.
func validateBuckets(name string, buckets []IncomeBucket) error {
	if len(buckets) == 0 {
		return fmt.Errorf("reference tables: %s table is empty", name)
	}
	last := buckets[len(buckets)-1]
	if last.Ceiling.Valid {
		return fmt.Errorf("reference tables: %s table must end with an unbounded bucket", name)
	}
	if last.Level != maxLevel {
		return fmt.Errorf("reference tables: %s unbounded bucket must have level %d, got %d", name, maxLevel, last.Level)
	}
	if !last.DocumentationRequired {
		return fmt.Errorf("reference tables: %s unbounded bucket must require documentation", name)
	}
	prev := decimal.NullDecimal{}
	prevLevel := 0
	for i, b := range buckets {
		if b.Level < 1 || b.Level > maxLevel {
			return fmt.Errorf("reference tables: %s bucket %d level %d out of range", name, i, b.Level)
		}
		if b.Level < prevLevel {
			return fmt.Errorf("reference tables: %s levels must not decrease (bucket %d)", name, i)
		}
		prevLevel = b.Level
		if i < len(buckets)-1 {
			if !b.Ceiling.Valid {
				return fmt.Errorf("reference tables: %s bucket %d is unbounded but not last", name, i)
			}
			if prev.Valid && !b.Ceiling.Decimal.GreaterThan(prev.Decimal) {
				return fmt.Errorf("reference tables: %s ceilings must be ascending", name)
			}
			prev = b.Ceiling
		}
	}
	return nil
}

func validateBands(bands []ActivityBand) error {
	if len(bands) == 0 || bands[len(bands)-1].Ceiling.Valid {
		return fmt.Errorf("reference tables: activity bands must end with an unbounded band")
	}
	prev := decimal.NullDecimal{}
	prevLevel := 0
	for i, b := range bands {
		if b.Level < 1 || b.Level > maxLevel {
			return fmt.Errorf("reference tables: activity band %d level %d out of range", i, b.Level)
		}
		if b.Level < prevLevel {
			return fmt.Errorf("reference tables: activity band levels must not decrease (band %d)", i)
		}
		prevLevel = b.Level
		if i == len(bands)-1 {
			break
		}
		if !b.Ceiling.Valid {
			return fmt.Errorf("reference tables: activity band %d is unbounded but not last", i)
		}
		if prev.Valid && !b.Ceiling.Decimal.GreaterThan(prev.Decimal) {
			return fmt.Errorf("reference tables: activity band ceilings must be ascending")
		}
		prev = b.Ceiling
	}
	return nil
}

// IsHomeCountry reports whether the nationality is the home country.
func (t *Tables) IsHomeCountry(country string) bool {
	return normalize(country) == normalize(t.HomeCountry)
}

// IsHighRiskCountry never matches the home country, even when an override lists it.
func (t *Tables) IsHighRiskCountry(country string) bool {
	return !t.IsHomeCountry(country) && t.highRiskCountries.has(country)
}

func (t *Tables) IsMediumRiskCountry(country string) bool {
	return !t.IsHomeCountry(country) && t.mediumRiskCountries.has(country)
}

func (t *Tables) IsBorderLocality(locality string) bool {
	return t.borderLocalities.has(locality)
}

func (t *Tables) IsHighRiskProvince(area string) bool {
	return t.highRiskProvinces.has(area)
}

func (t *Tables) IsHighRiskOccupation(occupation string) bool {
	return t.highRiskOccupations.has(occupation)
}

func (t *Tables) IsHighRiskActivity(activity string) bool {
	return t.highRiskActivities.has(activity)
}

// AreaRiskLevel returns the registered level of a city within a province, or 1
// when the pair is not on the register.
func (t *Tables) AreaRiskLevel(area, locality string) int {
	if cities, ok := t.areaLevels[normalize(area)]; ok {
		if level, ok := cities[normalize(locality)]; ok {
			return level
		}
	}
	return 1
}

type set map[string]struct{}

func newSet(items []string) set {
	s := make(set, len(items))
	for _, it := range items {
		if n := normalize(it); n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

func (s set) has(v string) bool {
	n := normalize(v)
	if n == "" {
		return false
	}
	_, ok := s[n]
	return ok
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
