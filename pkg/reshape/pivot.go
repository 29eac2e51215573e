// pkg/reshape/pivot.go
package reshape

import (
	"sort"

	"github.com/David-Botos/cocoa-report/pkg/converter"
	"github.com/David-Botos/cocoa-report/pkg/model"
)

// PivotResult holds the wide records and what the pivot observed
type PivotResult struct {
	Records    []model.WideRecord // sorted by Year, then Country
	Columns    []string           // distinct Elements, sorted
	Duplicates int                // (Year, Area, Element) triples seen more than once, blank or not
	Blank      int                // (Year, Area) groups dropped because every value was blank
}

type groupKey struct {
	year int
	area string
}

// cell collects every occurrence of one (Year, Area, Element) triple
type cell struct {
	seen   int
	values []string // non-blank values in input order
}

// Pivot groups records by (Year, Area) and projects Element values into named fields
// Blank values leave their element missing, and a group with no value at all
// produces no record.
func Pivot(records []model.RawRecord) PivotResult {
	groups := make(map[groupKey]map[string]*cell)
	columns := make(map[string]struct{})

	for _, r := range records {
		columns[r.Element] = struct{}{}

		key := groupKey{year: r.Year, area: r.Area}
		elements, ok := groups[key]
		if !ok {
			elements = make(map[string]*cell)
			groups[key] = elements
		}
		c, ok := elements[r.Element]
		if !ok {
			c = &cell{}
			elements[r.Element] = c
		}
		c.seen++
		if r.HasValue() {
			c.values = append(c.values, r.Value)
		}
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].area < keys[j].area
	})

	result := PivotResult{
		Records: make([]model.WideRecord, 0, len(keys)),
		Columns: make([]string, 0, len(columns)),
	}
	for c := range columns {
		result.Columns = append(result.Columns, c)
	}
	sort.Strings(result.Columns)

	for _, k := range keys {
		values := make(map[string]string, len(groups[k]))
		for element, c := range groups[k] {
			if c.seen > 1 {
				result.Duplicates++
			}
			if v, ok := resolve(c.values); ok {
				values[element] = v
			}
		}
		if len(values) == 0 {
			result.Blank++
			continue
		}
		result.Records = append(result.Records, model.WideRecord{
			Year:    k.year,
			Country: k.area,
			Values:  values,
		})
	}

	return result
}

// resolve collapses the values seen for one (Year, Area, Element) triple
func resolve(raw []string) (string, bool) {
	switch len(raw) {
	case 0:
		return "", false
	case 1:
		return raw[0], true
	}

	sum, n := 0.0, 0
	for _, v := range raw {
		f, err := converter.ToFloat(v)
		if err != nil {
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return "", false
	}
	return converter.FormatFloat(sum / float64(n)), true
}
