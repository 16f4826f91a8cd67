package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-radar/internal/listing"
)

func dataset() []listing.Listing {
	return []listing.Listing{
		{ID: 1, Price: 500000, Rooms: 2, District: "Центральный", Address: "ул. Тверская, д. 15"},
		{ID: 2, Price: 750000, Rooms: 3, District: "Северный", Address: "пр. Ленинградский, д. 42"},
		{ID: 3, Price: 300000, Rooms: 1, District: "Южный", Address: "ул. Чертановская, д. 28"},
		{ID: 4, Price: 900000, Rooms: 4, District: "Западный", Address: "ул. Можайский Вал, д. 12"},
		{ID: 5, Price: 500000, Rooms: 2, District: "Восточный", Address: "ул. Щербаковская, д. 35"},
		{ID: 6, Price: 1200000, Rooms: 3, District: "Центральный", Address: "ул. Арбат, д. 23"},
		{ID: 7, Price: 0, Rooms: 0, District: "", Address: "пр. Мира, 10"},
	}
}

func ids(listings []listing.Listing) []uint {
	out := make([]uint, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestComputeNoopFilterKeepsEverything(t *testing.T) {
	spec := Spec{PriceMin: 0, PriceMax: math.Inf(1), Chart: ChartBar}
	all := dataset()

	got := Compute(spec, all)
	require.Len(t, got, len(all))
	assert.Equal(t, []uint{6, 4, 2, 1, 5, 3, 7}, ids(got))
}

func TestComputeIsSortedAndStable(t *testing.T) {
	got := Compute(Default(), dataset())

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Price, got[i].Price, "position %d", i)
	}

	// 1 and 5 share a price and keep load order
	assert.Equal(t, []uint{4, 2, 1, 5, 3, 7}, ids(got))
}

func TestComputeDefaultDropsAboveMax(t *testing.T) {
	got := Compute(Default(), dataset())
	for _, l := range got {
		assert.LessOrEqual(t, l.Price, float64(DefaultPriceMax))
	}
	assert.NotContains(t, ids(got), uint(6))
}

func TestComputeFilters(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want []uint
	}{
		{"price range inclusive", Spec{PriceMin: 500000, PriceMax: 750000}, []uint{2, 1, 5}},
		{"rooms", Spec{PriceMin: 0, PriceMax: math.Inf(1), Rooms: ptr(3)}, []uint{6, 2}},
		{"district", Spec{PriceMin: 0, PriceMax: math.Inf(1), District: ptr("Центральный")}, []uint{6, 1}},
		{"rooms and district", Spec{PriceMin: 0, PriceMax: math.Inf(1), Rooms: ptr(2), District: ptr("Центральный")}, []uint{1}},
		{"zero rooms is a real constraint", Spec{PriceMin: 0, PriceMax: 10, Rooms: ptr(0)}, []uint{7}},
		{"nothing matches", Spec{PriceMin: 2, PriceMax: 1}, []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Compute(tt.spec, dataset())))
		})
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	all := dataset()
	Compute(Default(), all)
	assert.Equal(t, dataset(), all)
}

func TestMergeKeepsUnsuppliedFields(t *testing.T) {
	spec := Default().Merge(Patch{Rooms: ptr(2), District: ptr("Южный")})
	spec = spec.Merge(Patch{Chart: ptr(ChartPie)})

	assert.Equal(t, 2, *spec.Rooms)
	assert.Equal(t, "Южный", *spec.District)
	assert.Equal(t, ChartPie, spec.Chart)
	assert.EqualValues(t, DefaultPriceMin, spec.PriceMin)
	assert.EqualValues(t, DefaultPriceMax, spec.PriceMax)

	spec = spec.Merge(Patch{PriceRange: &[2]float64{100, 200}, ClearRooms: true})
	assert.Nil(t, spec.Rooms)
	assert.Equal(t, "Южный", *spec.District)
	assert.Equal(t, 100.0, spec.PriceMin)
	assert.Equal(t, 200.0, spec.PriceMax)

	spec = spec.Merge(Patch{ClearDistrict: true})
	assert.Nil(t, spec.District)
}

func TestMergeDoesNotAliasPatch(t *testing.T) {
	rooms := 2
	spec := Default().Merge(Patch{Rooms: &rooms})
	rooms = 5
	assert.Equal(t, 2, *spec.Rooms)
}

func TestSession(t *testing.T) {
	s := NewSession()
	assert.Equal(t, Default(), s.Spec())

	got := s.ApplyFilter(Patch{District: ptr("Центральный")}, dataset())
	assert.Equal(t, []uint{1}, ids(got))

	got = s.ApplyFilter(Patch{PriceRange: &[2]float64{0, math.Inf(1)}}, dataset())
	assert.Equal(t, []uint{6, 1}, ids(got))

	got = s.ResetFilter(dataset())
	assert.Equal(t, Default(), s.Spec())
	assert.Len(t, got, 6)
}

func TestResumeDefaultsChart(t *testing.T) {
	s := Resume(Spec{PriceMin: 1, PriceMax: 2})
	assert.Equal(t, ChartBar, s.Spec().Chart)
}

func TestParseChartKind(t *testing.T) {
	kind, err := ParseChartKind(" Pie ")
	require.NoError(t, err)
	assert.Equal(t, ChartPie, kind)

	_, err = ParseChartKind("radar")
	assert.Error(t, err)
}

func TestSpecKey(t *testing.T) {
	a := Default()
	b := Default().Merge(Patch{Rooms: ptr(2)})
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, a.Key(), Default().Key())
}
