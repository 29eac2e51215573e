// pkg/cleaner/operations.go
package cleaner

import "github.com/David-Botos/cocoa-report/pkg/model"

// dropMissing describes a record dropped because a required field is absent
func dropMissing(runID string, row model.WideRecord, field string) *model.CleaningOperation {
	return &model.CleaningOperation{
		RunID:         runID,
		Year:          row.Year,
		Country:       row.Country,
		Field:         field,
		OriginalValue: nil,
		Operation:     model.OperationDropRecord,
		Reason:        model.ReasonMissingField,
	}
}

// dropNonNumeric describes a record dropped because a metric failed numeric coercion
func dropNonNumeric(runID string, row model.WideRecord, field, value string) *model.CleaningOperation {
	return &model.CleaningOperation{
		RunID:         runID,
		Year:          row.Year,
		Country:       row.Country,
		Field:         field,
		OriginalValue: &value,
		Operation:     model.OperationDropRecord,
		Reason:        model.ReasonNonNumeric,
	}
}

// CountByReason tallies cleaning operations per reason
func CountByReason(operations []model.CleaningOperation) map[string]int {
	counts := make(map[string]int)
	for _, op := range operations {
		counts[op.Reason]++
	}
	return counts
}
