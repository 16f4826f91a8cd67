package web

import (
	"bytes"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"listing-radar/internal/cache"
	"listing-radar/internal/filter"
	"listing-radar/internal/render"
	"listing-radar/internal/views"
)

const (
	sessionCookie    = "session_id"
	sessionCookieAge = 30 * 24 * 60 * 60
	anyValue         = "any"
)

type Handler struct {
	views  *views.Service
	source views.Source
	cache  cache.Cache
	logger *logrus.Logger
}

// FilterForm is the dashboard filter form. Empty fields leave the current
// value unchanged, except the price bounds which fall back to 0 and
// 1,000,000.
type FilterForm struct {
	Action    string `form:"action"`
	PriceMin  string `form:"price_min"`
	PriceMax  string `form:"price_max"`
	Rooms     string `form:"rooms"`
	District  string `form:"district"`
	ChartType string `form:"chart_type"`
}

func NewHandler(svc *views.Service, source views.Source, c cache.Cache, logger *logrus.Logger) *Handler {
	return &Handler{views: svc, source: source, cache: c, logger: logger}
}

func (h *Handler) Index(c *gin.Context) {
	key, session := h.session(c)
	h.renderPage(c, key, session)
}

func (h *Handler) Submit(c *gin.Context) {
	key, session := h.session(c)

	var form FilterForm
	if err := c.ShouldBind(&form); err != nil {
		h.logger.WithError(err).Error("Failed to parse filter form")
	}

	switch form.Action {
	case "apply_filters":
		session.Update(form.Patch())
	case "reset_filters":
		session.Reset()
	}

	if err := h.cache.SaveSession(key, session.Spec()); err != nil {
		h.logger.WithError(err).Warn("Failed to save filter session")
	}
	h.renderPage(c, key, session)
}

func (h *Handler) GetListings(c *gin.Context) {
	_, session := h.session(c)

	all, err := h.source.LoadAll(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load listings")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to load listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filter":   session.Spec(),
		"listings": filter.Compute(session.Spec(), all),
	})
}

func (h *Handler) GetViews(c *gin.Context) {
	_, session := h.session(c)

	v, err := h.views.Views(c.Request.Context(), session.Spec())
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute views")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to compute views"})
		return
	}

	c.JSON(http.StatusOK, v)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) renderPage(c *gin.Context, key string, session *filter.Session) {
	ctx := c.Request.Context()
	spec := session.Spec()

	v, err := h.views.Views(ctx, spec)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute views")
		c.String(http.StatusServiceUnavailable, "Хранилище недоступно")
		return
	}

	opts, err := h.views.Options(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load filter options")
		c.String(http.StatusServiceUnavailable, "Хранилище недоступно")
		return
	}

	var buf bytes.Buffer
	err = render.HTML(&buf, render.Page{
		Spec:        spec,
		Count:       len(v.Rows),
		Districts:   opts.Districts,
		RoomOptions: opts.Rooms,
		Chart:       render.Chart(spec.Chart, v),
		Map:         render.Map(v),
	})
	if err != nil {
		h.logger.WithError(err).WithField("session", key).Error("Failed to render page")
		c.String(http.StatusInternalServerError, "Ошибка отображения")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// session returns the caller's filter session, issuing a cookie on first
// visit.
func (h *Handler) session(c *gin.Context) (string, *filter.Session) {
	id, err := c.Cookie(sessionCookie)
	if err != nil || id == "" {
		id = uuid.NewString()
		c.SetCookie(sessionCookie, id, sessionCookieAge, "/", "", false, true)
	}

	key := "web:" + id
	if spec, ok := h.cache.LoadSession(key); ok {
		return key, filter.Resume(spec)
	}
	return key, filter.NewSession()
}

// Patch turns the form into a filter update.
func (f FilterForm) Patch() filter.Patch {
	lo := parseBound(f.PriceMin, filter.DefaultPriceMin)
	hi := parseBound(f.PriceMax, filter.DefaultPriceMax)
	patch := filter.Patch{PriceRange: &[2]float64{lo, hi}}

	switch rooms := strings.TrimSpace(f.Rooms); {
	case rooms == anyValue:
		patch.ClearRooms = true
	case rooms != "":
		if n, err := strconv.Atoi(rooms); err == nil && n >= 0 {
			patch.Rooms = &n
		}
	}

	switch district := strings.TrimSpace(f.District); district {
	case anyValue:
		patch.ClearDistrict = true
	case "":
	default:
		patch.District = &district
	}

	kind, err := filter.ParseChartKind(f.ChartType)
	if err != nil {
		kind = filter.ChartBar
	}
	patch.Chart = &kind
	return patch
}

// parseBound reads a price bound; empty, zero or malformed input gives def.
func parseBound(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return def
	}
	return v
}
