// pkg/reshape/filter.go
package reshape

import "github.com/David-Botos/cocoa-report/pkg/model"

// Filter retains records whose Area is one of countries and whose Item equals item
// Input order is preserved.
func Filter(records []model.RawRecord, countries []string, item string) []model.RawRecord {
	accepted := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		accepted[c] = struct{}{}
	}

	kept := make([]model.RawRecord, 0)
	for _, r := range records {
		if r.Item != item {
			continue
		}
		if _, ok := accepted[r.Area]; !ok {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
