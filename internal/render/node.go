package render

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"listing-radar/internal/aggregate"
	"listing-radar/internal/filter"
)

type Kind string

const (
	KindBar   Kind = "bar"
	KindPie   Kind = "pie"
	KindLine  Kind = "line"
	KindTable Kind = "table"
	KindMap   Kind = "map"
)

const (
	NoDataNotice      = "Нет данных для отображения"
	NoValidDataNotice = "Нет корректных данных о ценах"

	barUnit     = 50
	pieSize     = 200
	pieRadius   = 80
	currency    = "руб."
	roomsSuffix = "комн."
)

var palette = []string{
	"#ff6384", "#36a2eb", "#ffce56", "#4bc0c0",
	"#9966ff", "#ff9f40", "#8ac6d1", "#ff6b6b",
}

var titles = map[Kind]string{
	KindBar:   "Распределение объявлений по районам",
	KindPie:   "Распределение по количеству комнат",
	KindLine:  "Динамика цен",
	KindTable: "Таблица данных",
	KindMap:   "Карта объявлений",
}

// Node is a render-ready section of the page. Only the slice matching Kind
// is populated; Notice replaces the body when there is nothing to draw.
type Node struct {
	Kind    Kind
	Title   string
	Notice  string
	Bars    []Bar
	Slices  []Slice
	Points  []Point
	Rows    []TableRow
	Markers []Marker
}

type Bar struct {
	Label string
	Count int
	Width int
}

type Slice struct {
	Label   string
	Color   string
	Path    string
	Full    bool
	Count   int
	Percent float64
}

type Point struct {
	Price  string
	Height float64
}

type TableRow struct {
	ID       uint
	Price    string
	Rooms    int
	District string
	Address  string
}

type Marker struct {
	Price    string
	Rooms    string
	District string
	Address  string
	Located  bool
	Lat, Lon float64
}

// Chart builds the section for the chosen chart kind. Unknown kinds fall back
// to the bar chart.
func Chart(kind filter.ChartKind, views aggregate.Views) *Node {
	switch kind {
	case filter.ChartPie:
		return pie(views.Rooms)
	case filter.ChartLine:
		return line(views.Prices)
	case filter.ChartTable:
		return table(views.Rows)
	default:
		return bar(views.Districts)
	}
}

func Map(views aggregate.Views) *Node {
	node := &Node{Kind: KindMap, Title: titles[KindMap]}
	for _, m := range views.Map.Markers {
		node.Markers = append(node.Markers, Marker{
			Price:    FormatPrice(m.Price) + " " + currency,
			Rooms:    fmt.Sprintf("%d %s", m.Rooms, roomsSuffix),
			District: m.District,
			Address:  m.Address,
			Located:  m.Located,
			Lat:      m.Lat,
			Lon:      m.Lon,
		})
	}
	if len(node.Markers) == 0 {
		node.Notice = NoDataNotice
	}
	return node
}

func bar(districts []aggregate.DistrictCount) *Node {
	node := &Node{Kind: KindBar, Title: titles[KindBar]}
	for _, d := range districts {
		node.Bars = append(node.Bars, Bar{Label: d.District, Count: d.Count, Width: d.Count * barUnit})
	}
	return node
}

func pie(rooms []aggregate.RoomShare) *Node {
	node := &Node{Kind: KindPie, Title: titles[KindPie]}
	if len(rooms) == 0 {
		node.Notice = NoDataNotice
		return node
	}

	var current float64
	for i, r := range rooms {
		angle := r.Percent / 100 * 360
		s := Slice{
			Label:   fmt.Sprintf("%d %s: %d (%.1f%%)", r.Rooms, roomsSuffix, r.Count, r.Label()),
			Color:   palette[i%len(palette)],
			Count:   r.Count,
			Percent: r.Label(),
		}
		if angle >= 360 {
			s.Full = true
		} else {
			s.Path = arcPath(current, current+angle)
		}
		node.Slices = append(node.Slices, s)
		current += angle
	}
	return node
}

// arcPath draws a wedge from start to end degrees, clockwise from twelve
// o'clock.
func arcPath(start, end float64) string {
	c := float64(pieSize / 2)
	startRad := (start - 90) * math.Pi / 180
	endRad := (end - 90) * math.Pi / 180

	large := 0
	if end-start > 180 {
		large = 1
	}

	return fmt.Sprintf("M %g %g L %.2f %.2f A %d %d 0 %d 1 %.2f %.2f Z",
		c, c,
		c+pieRadius*math.Cos(startRad), c+pieRadius*math.Sin(startRad),
		pieRadius, pieRadius, large,
		c+pieRadius*math.Cos(endRad), c+pieRadius*math.Sin(endRad))
}

func line(prices aggregate.PriceSeries) *Node {
	node := &Node{Kind: KindLine, Title: titles[KindLine]}
	switch prices.Status {
	case aggregate.NoData:
		node.Notice = NoDataNotice
	case aggregate.NoValidData:
		node.Notice = NoValidDataNotice
	default:
		for i, h := range prices.Relative() {
			node.Points = append(node.Points, Point{
				Price:  FormatPrice(prices.Prices[i]) + " " + currency,
				Height: h,
			})
		}
	}
	return node
}

func table(rows []aggregate.Row) *Node {
	node := &Node{Kind: KindTable, Title: titles[KindTable]}
	for _, r := range rows {
		node.Rows = append(node.Rows, TableRow{
			ID:       r.ID,
			Price:    FormatPrice(r.Price) + " " + currency,
			Rooms:    r.Rooms,
			District: r.District,
			Address:  r.Address,
		})
	}
	return node
}

var printer = message.NewPrinter(language.English)

// FormatPrice groups thousands with commas and drops a zero fraction.
func FormatPrice(price float64) string {
	if price == math.Trunc(price) {
		if math.Abs(price) < 1<<63 {
			return printer.Sprintf("%d", int64(price))
		}
		return printer.Sprintf("%.0f", price)
	}
	return printer.Sprintf("%.2f", price)
}
