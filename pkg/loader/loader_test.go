package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/David-Botos/cocoa-report/pkg/model"
)

// Helper to create a temporary CSV file for testing
func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cocoa_production_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write temp CSV file")
	return path
}

func TestCSVLoader_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("FAOSTAT export with extra columns", func(t *testing.T) {
		content := "Domain,Area,Element,Item,Year,Unit,Value,Flag\n" +
			"Crops,Ghana,Yield,\"Cocoa, beans\",2000,hg/ha,500,A\n" +
			"Crops,Côte d'Ivoire,Production,\"Cocoa, beans\",2001,t,1212000,A\n"
		path := createTempCSV(t, content)

		records, err := NewCSVLoader(path, 0, zaptest.NewLogger(t)).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.RawRecord{
			{Area: "Ghana", Item: "Cocoa, beans", Element: "Yield", Year: 2000, Value: "500"},
			{Area: "Côte d'Ivoire", Item: "Cocoa, beans", Element: "Production", Year: 2001, Value: "1212000"},
		}, records)
	})

	t.Run("BOM, missing values and bad rows", func(t *testing.T) {
		content := "\ufeffArea,Item,Element,Year,Value\n" +
			"Ghana,\"Cocoa, beans\",Yield,2000,\n" +
			"Ghana,\"Cocoa, beans\",Yield,not-a-year,5\n" +
			"Ghana,\"Cocoa, beans\",Yield\n" +
			"Ghana,\"Cocoa, beans\",Production,2002,abc\n"
		path := createTempCSV(t, content)

		records, err := NewCSVLoader(path, ',', nil).Load(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "", records[0].Value)
		assert.False(t, records[0].HasValue())
		assert.Equal(t, "abc", records[1].Value)
		assert.Equal(t, 2002, records[1].Year)
	})

	t.Run("Semicolon delimiter", func(t *testing.T) {
		path := createTempCSV(t, "Area;Item;Element;Year;Value\nGhana;Cocoa, beans;Yield;1961;3000\n")

		records, err := NewCSVLoader(path, ';', nil).Load(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Cocoa, beans", records[0].Item)
	})

	t.Run("Empty file", func(t *testing.T) {
		path := createTempCSV(t, "")

		records, err := NewCSVLoader(path, 0, nil).Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Missing required column", func(t *testing.T) {
		path := createTempCSV(t, "Area,Item,Year,Value\nGhana,Cocoa,2000,1\n")

		_, err := NewCSVLoader(path, 0, nil).Load(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Element")
		assert.False(t, IsMissingInput(err))
	})
}

func TestCSVLoader_MissingInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cocoa_production_data.csv")

	_, err := NewCSVLoader(path, 0, nil).Load(context.Background())
	require.Error(t, err)
	assert.True(t, IsMissingInput(err))

	var missing *MissingInputError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "cocoa_production_data.csv", missing.FileName())
	assert.Equal(t,
		"Error: The file 'cocoa_production_data.csv' was not found.\n"+
			"Please make sure the file is in the same directory as this program.\n",
		missing.UserMessage())
}

func TestBuildWarehouseQuery(t *testing.T) {
	query, args := buildWarehouseQuery("FAOSTAT.PUBLIC.CROPS", "Cocoa, beans", []string{"Ghana", "Côte d'Ivoire"})

	assert.Equal(t, "SELECT AREA, ITEM, ELEMENT, YEAR, VALUE FROM FAOSTAT.PUBLIC.CROPS "+
		"WHERE ITEM = ? AND AREA IN (?, ?) ORDER BY YEAR, AREA, ELEMENT", query)
	assert.Equal(t, []interface{}{"Cocoa, beans", "Ghana", "Côte d'Ivoire"}, args)

	query, args = buildWarehouseQuery("T", "Cocoa, beans", nil)
	assert.NotContains(t, query, "AREA IN")
	assert.Len(t, args, 1)
}

func TestConvertWarehouseRows(t *testing.T) {
	rows := []warehouseRow{
		{
			Area:    nullString("Ghana"),
			Item:    nullString("Cocoa, beans"),
			Element: nullString("Yield"),
			Year:    nullInt(2000),
			Value:   nullString("500"),
		},
		{Area: nullString("Ghana"), Year: nullInt(2001)},
		{Area: nullString("Ghana")},
	}

	records := convertWarehouseRows(rows)
	require.Len(t, records, 2)
	assert.Equal(t, model.RawRecord{Area: "Ghana", Item: "Cocoa, beans", Element: "Yield", Year: 2000, Value: "500"}, records[0])
	assert.Equal(t, "", records[1].Value)
}
