package render

import (
	"embed"
	"html/template"
	"io"
	"math"
	"strconv"

	"listing-radar/internal/filter"
)

//go:embed templates/page.html
var templates embed.FS

var pageTemplate = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"price": func(v float64) string {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
	"roomsSelected": func(spec filter.Spec, rooms int) bool {
		return spec.Rooms != nil && *spec.Rooms == rooms
	},
	"districtSelected": func(spec filter.Spec, district string) bool {
		return spec.District != nil && *spec.District == district
	},
}).ParseFS(templates, "templates/page.html"))

// Page is everything the dashboard shows for one session.
type Page struct {
	Spec        filter.Spec
	Count       int
	Districts   []string
	RoomOptions []int
	ChartKinds  []filter.ChartKind
	Chart       *Node
	Map         *Node
}

func HTML(w io.Writer, page Page) error {
	if page.ChartKinds == nil {
		page.ChartKinds = []filter.ChartKind{filter.ChartBar, filter.ChartPie, filter.ChartLine, filter.ChartTable}
	}
	return pageTemplate.Execute(w, page)
}
