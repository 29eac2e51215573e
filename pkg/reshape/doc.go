// pkg/reshape/doc.go

// Package reshape turns long-format source rows into one wide record per
// (Year, Country): Filter keeps the rows of interest, Pivot projects each
// Element into its own column and Normalize applies the country labels used
// by the report.
//
// Duplicate (Year, Area, Element) triples are resolved by the arithmetic mean
// of their numeric values. A single value is passed through untouched, so
// the pivot never alters a value it does not have to aggregate.
package reshape
