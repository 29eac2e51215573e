// pkg/model/cleaning.go
package model

// Cleaning operations and reasons recorded in the audit
const (
	OperationDropRecord = "drop_record"

	ReasonMissingField = "missing_field"
	ReasonNonNumeric   = "non_numeric"
)

// CleaningOperation represents a single record dropped by the cleaner
type CleaningOperation struct {
	RunID         string  // Pipeline run that produced the operation
	Year          int     // Year of the dropped record
	Country       string  // Country of the dropped record
	Field         string  // First field that failed
	OriginalValue *string // Original value (nil when the field was missing)
	Operation     string  // Type of cleaning performed (e.g., "drop_record")
	Reason        string  // Reason for cleaning (e.g., "missing_field")
}
