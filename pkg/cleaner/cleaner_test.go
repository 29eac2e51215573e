package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/David-Botos/cocoa-report/pkg/converter"
	"github.com/David-Botos/cocoa-report/pkg/model"
)

func newTestCleaner(t *testing.T) *DataCleaner {
	t.Helper()
	c, err := NewDataCleaner(converter.NewTypeConverter(zap.NewNop()), zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func wide(year int, country string, values map[string]string) model.WideRecord {
	return model.WideRecord{Year: year, Country: country, Values: values}
}

func TestNewDataCleaner(t *testing.T) {
	_, err := NewDataCleaner(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewDataCleaner(converter.NewTypeConverter(nil), nil)
	assert.Error(t, err)
}

func TestCleanRows(t *testing.T) {
	c := newTestCleaner(t).WithRunID("run-1")

	rows := []model.WideRecord{
		wide(2000, "Ghana", map[string]string{
			"Yield": "500", "Area harvested": "100", "Production": "50000", "Seed": "3",
		}),
		wide(2001, "Ghana", map[string]string{"Yield": "510", "Production": "51000"}),
		wide(2002, "Ghana", map[string]string{"Yield": "abc", "Area harvested": "100", "Production": "1"}),
		wide(2003, model.CountryIvoryCoast, map[string]string{
			"Yield": "6000.5", "Area harvested": "1e6", "Production": "600000",
		}),
		wide(2004, "Ghana", map[string]string{"Yield": "NaN", "Area harvested": "1", "Production": "1"}),
		wide(2005, "Ghana", nil),
	}

	clean, ops := c.CleanRows(rows)

	assert.Equal(t, []model.CleanRecord{
		{Year: 2000, Country: "Ghana", AreaHarvested: 100, Yield: 500, Production: 50000},
		{Year: 2003, Country: model.CountryIvoryCoast, AreaHarvested: 1e6, Yield: 6000.5, Production: 600000},
	}, clean)

	require.Len(t, ops, 4)
	assert.Equal(t, 2001, ops[0].Year)
	assert.Equal(t, "Area harvested", ops[0].Field)
	assert.Equal(t, model.ReasonMissingField, ops[0].Reason)
	assert.Nil(t, ops[0].OriginalValue)
	assert.Equal(t, "run-1", ops[0].RunID)

	assert.Equal(t, 2002, ops[1].Year)
	assert.Equal(t, "Yield", ops[1].Field)
	assert.Equal(t, model.ReasonNonNumeric, ops[1].Reason)
	require.NotNil(t, ops[1].OriginalValue)
	assert.Equal(t, "abc", *ops[1].OriginalValue)

	assert.Equal(t, model.ReasonMissingField, ops[2].Reason, "NaN text is a null token")
	assert.Equal(t, model.ReasonMissingField, ops[3].Reason)

	assert.Equal(t, map[string]int{model.ReasonMissingField: 3, model.ReasonNonNumeric: 1}, CountByReason(ops))
}

func TestCleanRowsEmpty(t *testing.T) {
	clean, ops := newTestCleaner(t).CleanRows(nil)
	assert.Empty(t, clean)
	assert.Empty(t, ops)
}

func TestCleanRowsInfinity(t *testing.T) {
	clean, ops := newTestCleaner(t).CleanRows([]model.WideRecord{
		wide(2000, "Ghana", map[string]string{"Yield": "Inf", "Area harvested": "1", "Production": "1"}),
	})
	assert.Empty(t, clean)
	require.Len(t, ops, 1)
	assert.Equal(t, model.ReasonNonNumeric, ops[0].Reason)
}

func TestCleanRowsMissingCountry(t *testing.T) {
	_, ops := newTestCleaner(t).CleanRows([]model.WideRecord{
		wide(2000, "", map[string]string{"Yield": "1", "Area harvested": "1", "Production": "1"}),
	})
	require.Len(t, ops, 1)
	assert.Equal(t, "Country", ops[0].Field)
}
