// Package reference loads the risk reference tables from YAML.
package reference

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/kyc-risk-service/internal/domain/reference"
)

// File is the YAML layout. Omitted sections keep their built-in defaults.
type File struct {
	HomeCountry          string       `yaml:"home_country"`
	Lists                *ListsFile   `yaml:"lists"`
	IndividualIncome     []BucketFile `yaml:"individual_income"`
	EntityIncome         []BucketFile `yaml:"entity_income"`
	ActivityBands        []BandFile   `yaml:"activity_bands"`
	IndividualMultiplier *string      `yaml:"individual_multiplier"`
	EntityMultiplier     *string      `yaml:"entity_multiplier"`
}

type ListsFile struct {
	HighRiskCountries   []string                  `yaml:"high_risk_countries"`
	MediumRiskCountries []string                  `yaml:"medium_risk_countries"`
	BorderLocalities    []string                  `yaml:"border_localities"`
	HighRiskProvinces   []string                  `yaml:"high_risk_provinces"`
	HighRiskOccupations []string                  `yaml:"high_risk_occupations"`
	HighRiskActivities  []string                  `yaml:"high_risk_activities"`
	HighRiskAreas       map[string]map[string]int `yaml:"high_risk_areas"`
}

// BucketFile is an income bucket. A missing ceiling marks the unbounded bucket.
type BucketFile struct {
	Ceiling               *string `yaml:"ceiling"`
	Level                 int     `yaml:"level"`
	DocumentationRequired bool    `yaml:"documentation_required"`
}

type BandFile struct {
	Ceiling *string `yaml:"ceiling"`
	Level   int     `yaml:"level"`
}

// LoadFile reads path and builds the tables. An empty path yields the built-in
// tables. A non-empty homeCountry overrides the file.
func LoadFile(path, homeCountry string) (*reference.Tables, error) {
	if path == "" {
		return Parse(nil, homeCountry)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference tables %s: %w", path, err)
	}
	return Parse(data, homeCountry)
}

// Parse builds tables from YAML data merged over the defaults.
func Parse(data []byte, homeCountry string) (*reference.Tables, error) {
	var f File
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse reference tables: %w", err)
		}
	}

	defaults := reference.Default()
	home := defaults.HomeCountry
	if f.HomeCountry != "" {
		home = f.HomeCountry
	}
	if homeCountry != "" {
		home = homeCountry
	}

	lists := reference.DefaultLists()
	if f.Lists != nil {
		lists = mergeLists(lists, *f.Lists)
	}

	individual := defaults.IndividualIncome
	if len(f.IndividualIncome) > 0 {
		b, err := toBuckets("individual_income", f.IndividualIncome)
		if err != nil {
			return nil, err
		}
		individual = b
	}
	entity := defaults.EntityIncome
	if len(f.EntityIncome) > 0 {
		b, err := toBuckets("entity_income", f.EntityIncome)
		if err != nil {
			return nil, err
		}
		entity = b
	}
	bands := defaults.ActivityBands
	if len(f.ActivityBands) > 0 {
		b, err := toBands(f.ActivityBands)
		if err != nil {
			return nil, err
		}
		bands = b
	}

	individualMult, err := decimalOr("individual_multiplier", f.IndividualMultiplier, defaults.IndividualMultiplier)
	if err != nil {
		return nil, err
	}
	entityMult, err := decimalOr("entity_multiplier", f.EntityMultiplier, defaults.EntityMultiplier)
	if err != nil {
		return nil, err
	}

	return reference.New(home, lists, individual, entity, bands, individualMult, entityMult, defaults.Documents)
}

func mergeLists(base reference.Lists, f ListsFile) reference.Lists {
	if f.HighRiskCountries != nil {
		base.HighRiskCountries = f.HighRiskCountries
	}
	if f.MediumRiskCountries != nil {
		base.MediumRiskCountries = f.MediumRiskCountries
	}
	if f.BorderLocalities != nil {
		base.BorderLocalities = f.BorderLocalities
	}
	if f.HighRiskProvinces != nil {
		base.HighRiskProvinces = f.HighRiskProvinces
	}
	if f.HighRiskOccupations != nil {
		base.HighRiskOccupations = f.HighRiskOccupations
	}
	if f.HighRiskActivities != nil {
		base.HighRiskActivities = f.HighRiskActivities
	}
	if f.HighRiskAreas != nil {
		base.HighRiskAreas = f.HighRiskAreas
	}
	return base
}

func toBuckets(name string, in []BucketFile) ([]reference.IncomeBucket, error) {
	out := make([]reference.IncomeBucket, 0, len(in))
	for i, b := range in {
		ceiling, err := parseCeiling(b.Ceiling)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
		}
		out = append(out, reference.IncomeBucket{Ceiling: ceiling, Level: b.Level, DocumentationRequired: b.DocumentationRequired})
	}
	return out, nil
}

func toBands(in []BandFile) ([]reference.ActivityBand, error) {
	out := make([]reference.ActivityBand, 0, len(in))
	for i, b := range in {
		ceiling, err := parseCeiling(b.Ceiling)
		if err != nil {
			return nil, fmt.Errorf("activity_bands[%d]: %w", i, err)
		}
		out = append(out, reference.ActivityBand{Ceiling: ceiling, Level: b.Level})
	}
	return out, nil
}

func parseCeiling(s *string) (decimal.NullDecimal, error) {
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid ceiling %q", *s)
	}
	return decimal.NewNullDecimal(d), nil
}

func decimalOr(name string, s *string, fallback decimal.Decimal) (decimal.Decimal, error) {
	if s == nil {
		return fallback, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: invalid decimal %q", name, *s)
	}
	return d, nil
}
