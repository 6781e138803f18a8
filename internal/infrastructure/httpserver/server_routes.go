package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (s *Server) setupRoutes() {
	s.echo.GET("/", s.root)
	s.echo.GET("/ping", s.ping)
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api")

	newsGroup := api.Group("/news")
	newsGroup.GET("", s.getNews, s.middleware.RateLimit.Handler(isForcedRefresh))
	newsGroup.GET("/", s.getNews, s.middleware.RateLimit.Handler(isForcedRefresh))
	newsGroup.GET("/categories", s.getCategories)
	newsGroup.GET("/metrics", s.getCacheMetrics)
	newsGroup.POST("/refresh", s.refreshCache, s.middleware.Admin.RequireAdmin(), s.middleware.RateLimit.Handler(nil))

	items := api.Group("/items")
	items.GET("", s.listItems)
	items.GET("/:id", s.getItem)
	items.POST("", s.createItem, s.middleware.Admin.RequireAdmin())
	items.PUT("/:id", s.updateItem, s.middleware.Admin.RequireAdmin())
	items.DELETE("/:id", s.deleteItem, s.middleware.Admin.RequireAdmin())
}

// isForcedRefresh selects feed requests that bypass the cache and hit the upstream.
func isForcedRefresh(c echo.Context) bool {
	v, err := strconv.ParseBool(c.QueryParam("force_refresh"))
	return err == nil && v && c.Request().Method == http.MethodGet
}
