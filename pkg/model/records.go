// pkg/model/records.go
package model

import "strings"

// Element names used by the report
const (
	ElementAreaHarvested = "Area harvested"
	ElementYield         = "Yield"
	ElementProduction    = "Production"
)

// Source Area labels accepted by the report
const (
	AreaGhana       = "Ghana"
	AreaCoteDIvoire = "Côte d'Ivoire"
)

// SourceAreas returns the accepted source Area labels
func SourceAreas() []string {
	return []string{AreaGhana, AreaCoteDIvoire}
}

// Country labels after normalization
const (
	CountryGhana      = "Ghana"
	CountryIvoryCoast = "Ivory Coast (Côte d'Ivoire)"
)

// RawRecord is one row of the long-format source table
type RawRecord struct {
	Area    string // Country or region name
	Item    string // Category name, e.g. "Cocoa, beans"
	Element string // Metric name, e.g. "Yield"
	Year    int    // Reporting year
	Value   string // Raw cell text; empty means missing
}

// HasValue reports whether the record carries a non-blank value
func (r RawRecord) HasValue() bool {
	return strings.TrimSpace(r.Value) != ""
}

// WideRecord is one (Year, Country) row after the pivot
// Values holds one entry per Element observed for the key; absent keys are missing.
type WideRecord struct {
	Year    int
	Country string
	Values  map[string]string
}

// Value returns the value for an element and whether it is present
func (w WideRecord) Value(element string) (string, bool) {
	if w.Values == nil {
		return "", false
	}
	v, ok := w.Values[element]
	return v, ok
}

// CleanRecord is a fully populated, numerically valid row
type CleanRecord struct {
	Year          int
	Country       string
	AreaHarvested float64 // ha
	Yield         float64 // hg/ha
	Production    float64 // tonnes
}

// YearRange returns the smallest and largest year across records
// ok is false when records is empty.
func YearRange(records ...[]CleanRecord) (minYear, maxYear int, ok bool) {
	for _, set := range records {
		for _, r := range set {
			if !ok {
				minYear, maxYear, ok = r.Year, r.Year, true
				continue
			}
			if r.Year < minYear {
				minYear = r.Year
			}
			if r.Year > maxYear {
				maxYear = r.Year
			}
		}
	}
	return minYear, maxYear, ok
}
