package render

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-radar/internal/aggregate"
	"listing-radar/internal/filter"
	"listing-radar/internal/listing"
)

func sampleViews() aggregate.Views {
	return aggregate.Compute([]listing.Listing{
		{ID: 1, Price: 500000, Rooms: 2, District: "Центральный", Address: "ул. Тверская, д. 15",
			Coordinates: &listing.Coordinates{Lat: 55.7558, Lon: 37.6173}},
		{ID: 2, Price: 300000, Rooms: 1, District: "Южный", Address: "ул. Чертановская, д. 28"},
		{ID: 3, Price: 1234.56, Rooms: 2, District: "Центральный", Address: "ул. Арбат, д. 23"},
	})
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "500,000", FormatPrice(500000))
	assert.Equal(t, "1,234.56", FormatPrice(1234.56))
	assert.Equal(t, "0", FormatPrice(0))
}

func TestFormatPriceBeyondInt64(t *testing.T) {
	out := FormatPrice(1e20)
	assert.False(t, strings.HasPrefix(out, "-"))
	assert.Equal(t, "100,000,000,000,000,000,000", out)
}

func TestChartBar(t *testing.T) {
	node := Chart(filter.ChartBar, sampleViews())

	assert.Equal(t, KindBar, node.Kind)
	assert.Equal(t, []Bar{
		{Label: "Центральный", Count: 2, Width: 100},
		{Label: "Южный", Count: 1, Width: 50},
	}, node.Bars)
}

func TestChartUnknownKindFallsBackToBar(t *testing.T) {
	assert.Equal(t, KindBar, Chart(filter.ChartKind("radar"), sampleViews()).Kind)
}

func TestChartPie(t *testing.T) {
	node := Chart(filter.ChartPie, aggregate.Compute([]listing.Listing{{Rooms: 1}, {Rooms: 2}}))

	require.Len(t, node.Slices, 2)
	assert.Equal(t, "1 комн.: 1 (50.0%)", node.Slices[0].Label)
	assert.Equal(t, "#ff6384", node.Slices[0].Color)
	assert.Equal(t, "#36a2eb", node.Slices[1].Color)
	assert.Equal(t, "M 100 100 L 100.00 20.00 A 80 80 0 0 1 100.00 180.00 Z", node.Slices[0].Path)
	assert.False(t, node.Slices[0].Full)
}

func TestChartPieSingleSliceIsFullCircle(t *testing.T) {
	node := Chart(filter.ChartPie, aggregate.Compute([]listing.Listing{{Rooms: 3}, {Rooms: 3}}))

	require.Len(t, node.Slices, 1)
	assert.True(t, node.Slices[0].Full)
	assert.Empty(t, node.Slices[0].Path)
}

func TestChartNotices(t *testing.T) {
	empty := aggregate.Compute(nil)
	assert.Equal(t, NoDataNotice, Chart(filter.ChartPie, empty).Notice)
	assert.Equal(t, NoDataNotice, Chart(filter.ChartLine, empty).Notice)
	assert.Equal(t, NoDataNotice, Map(empty).Notice)

	zero := aggregate.Compute([]listing.Listing{{Price: 0}, {Price: 0}})
	assert.Equal(t, NoValidDataNotice, Chart(filter.ChartLine, zero).Notice)
}

func TestChartLine(t *testing.T) {
	node := Chart(filter.ChartLine, aggregate.Compute([]listing.Listing{{Price: 200}, {Price: 100}}))

	assert.Equal(t, []Point{
		{Price: "100 руб.", Height: 50},
		{Price: "200 руб.", Height: 100},
	}, node.Points)
}

func TestChartTable(t *testing.T) {
	node := Chart(filter.ChartTable, sampleViews())

	require.Len(t, node.Rows, 3)
	assert.Equal(t, TableRow{ID: 1, Price: "500,000 руб.", Rooms: 2, District: "Центральный", Address: "ул. Тверская, д. 15"}, node.Rows[0])
}

func TestMap(t *testing.T) {
	node := Map(sampleViews())

	require.Len(t, node.Markers, 3)
	assert.True(t, node.Markers[0].Located)
	assert.Equal(t, "2 комн.", node.Markers[0].Rooms)
	assert.False(t, node.Markers[1].Located)
	assert.Empty(t, node.Notice)
}

func TestHTML(t *testing.T) {
	views := sampleViews()
	spec := filter.Default().Merge(filter.Patch{Chart: ptr(filter.ChartPie)})

	var buf bytes.Buffer
	err := HTML(&buf, Page{
		Spec:        spec,
		Count:       3,
		Districts:   []string{"Центральный", "Южный"},
		RoomOptions: []int{1, 2},
		Chart:       Chart(spec.Chart, views),
		Map:         Map(views),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Распределение по количеству комнат")
	assert.Contains(t, out, "<path d=")
	assert.Contains(t, out, "Карта объявлений")
	assert.Contains(t, out, "500,000 руб.")
	assert.Contains(t, out, `name="price_max" value="1000000"`)
	assert.Contains(t, out, `<option value="pie" selected>`)
	assert.Contains(t, out, "Найдено объявлений: 3")
}

func TestHTMLEscapesContent(t *testing.T) {
	views := aggregate.Compute([]listing.Listing{{Price: 1, Address: "<script>alert(1)</script>"}})

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, Page{Spec: filter.Default(), Chart: Chart(filter.ChartTable, views), Map: Map(views)}))
	assert.NotContains(t, buf.String(), "<script>")
}

func TestText(t *testing.T) {
	out := Text(Chart(filter.ChartBar, sampleViews()))
	assert.True(t, strings.HasPrefix(out, "Распределение объявлений по районам\n"))
	assert.Contains(t, out, "Центральный: "+strings.Repeat("█", maxBarWidth)+" 2\n")
	assert.Contains(t, out, "Южный: "+strings.Repeat("█", maxBarWidth/2)+" 1")

	assert.Equal(t, "Динамика цен\n"+NoDataNotice, Text(Chart(filter.ChartLine, aggregate.Compute(nil))))
}

func TestTextBarWidthIsBounded(t *testing.T) {
	records := make([]listing.Listing, 5000)
	for i := range records {
		records[i] = listing.Listing{Price: 1, District: "Центральный"}
	}
	records = append(records, listing.Listing{Price: 1, District: "Южный"})

	out := Text(Chart(filter.ChartBar, aggregate.Compute(records)))
	assert.Contains(t, out, "Центральный: "+strings.Repeat("█", maxBarWidth)+" 5000")
	assert.Contains(t, out, "Южный: █ 1")
	assert.LessOrEqual(t, utf8.RuneCountInString(out), maxTextRunes)
}

func TestTextCapsMessageLength(t *testing.T) {
	long := strings.Repeat("ул. Длинная ", 50)
	records := make([]listing.Listing, maxTextLines)
	for i := range records {
		records[i] = listing.Listing{ID: uint(i + 1), Price: 1, Address: long}
	}

	out := Text(Chart(filter.ChartTable, aggregate.Compute(records)))
	assert.Equal(t, maxTextRunes, utf8.RuneCountInString(out))
	assert.True(t, strings.HasSuffix(out, "…"))
}

func TestTextTruncatesLongOutput(t *testing.T) {
	records := make([]listing.Listing, maxTextLines+5)
	for i := range records {
		records[i] = listing.Listing{ID: uint(i + 1), Price: 1, Address: "x"}
	}

	out := Text(Chart(filter.ChartTable, aggregate.Compute(records)))
	assert.Contains(t, out, "… и ещё 5")
}

func ptr[T any](v T) *T { return &v }
