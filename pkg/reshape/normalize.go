// pkg/reshape/normalize.go
package reshape

import "github.com/David-Botos/cocoa-report/pkg/model"

// CountryLabels maps source Area labels to the labels used in the report
var CountryLabels = map[string]string{
	model.AreaCoteDIvoire: model.CountryIvoryCoast,
}

// Normalize rewrites country labels using CountryLabels
// Labels without an entry pass through unchanged. The input is not modified.
func Normalize(records []model.WideRecord) []model.WideRecord {
	return NormalizeWith(records, CountryLabels)
}

// NormalizeWith rewrites country labels using the given table
func NormalizeWith(records []model.WideRecord, labels map[string]string) []model.WideRecord {
	out := make([]model.WideRecord, len(records))
	for i, r := range records {
		if renamed, ok := labels[r.Country]; ok {
			r.Country = renamed
		}
		out[i] = r
	}
	return out
}
