package productcontroller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func sheetOf(t *testing.T, rows ...[]string) *xlsx.Sheet {
	t.Helper()
	sheet, err := xlsx.NewFile().AddSheet("Products")
	require.NoError(t, err)
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}
	return sheet
}

func TestParseSheet(t *testing.T) {
	sheet := sheetOf(t,
		[]string{"Name", "Price", "Discount", "Cost", "Stock", "Images"},
		[]string{"Phone X", "500", "10", "300", "4", "/a.jpg, /b.jpg"},
		[]string{"", "", "", "", "", ""},
		[]string{"Phone Y", "NaN", "", "", "", ""},
		[]string{"Phone Z", "100", "Inf", "", "", ""},
		[]string{"Phone W", "abc", "", "", "", ""},
	)

	rows, problems := parseSheet(sheet)
	require.Len(t, rows, 1)
	assert.Equal(t, "Phone X", *rows[0].Name)
	assert.Equal(t, 500.0, *rows[0].Price)
	assert.Equal(t, 4, *rows[0].Stock)
	assert.Equal(t, []string{"/a.jpg", "/b.jpg"}, rows[0].Images)
	assert.Equal(t, []string{
		"row 4: invalid Price",
		"row 5: invalid Discount",
		"row 6: invalid Price",
	}, problems)
}
