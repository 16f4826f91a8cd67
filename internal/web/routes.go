package web

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"listing-radar/internal/metrics"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.Use(countRequests)

	router.GET("/", handler.Index)
	router.POST("/", handler.Submit)
	router.GET("/healthz", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/listings", handler.GetListings)
		api.GET("/views", handler.GetViews)
	}
}

func countRequests(c *gin.Context) {
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	metrics.DashboardRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
}
