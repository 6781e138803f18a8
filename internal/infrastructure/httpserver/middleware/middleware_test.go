package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/news-dashboard/go/internal/infrastructure/httpserver/helpers"
	"github.com/avatarctic/news-dashboard/go/internal/infrastructure/httpserver/middleware"
	"github.com/avatarctic/news-dashboard/go/internal/testutil"
)

func TestAdminMiddleware_DisabledPassesThrough(t *testing.T) {
	e := echo.New()
	m := middleware.NewAdminMiddleware(&testutil.AdminTokensMock{}, logrus.New())
	h := m.RequireAdmin()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	require.NoError(t, h(c))
	require.Equal(t, "anonymous", helpers.GetAdminSubject(c))
}

func TestAdminMiddleware_MissingTokenReturns401(t *testing.T) {
	e := echo.New()
	m := middleware.NewAdminMiddleware(&testutil.AdminTokensMock{EnabledValue: true}, logrus.New())
	h := m.RequireAdmin()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
	err := h(c)
	require.Error(t, err)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, htErr.Code)
}

func TestAdminMiddleware_ValidTokenSetsClaims(t *testing.T) {
	e := echo.New()
	m := middleware.NewAdminMiddleware(&testutil.AdminTokensMock{EnabledValue: true}, logrus.New())
	h := m.RequireAdmin()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	c := e.NewContext(req, httptest.NewRecorder())
	require.NoError(t, h(c))
	require.Equal(t, "ops", helpers.GetAdminSubject(c))
}

func TestRateLimitMiddleware_SkipsWhenPredicateFalse(t *testing.T) {
	e := echo.New()
	limiter := &testutil.RateLimiterMock{}
	m := middleware.NewRateLimitMiddleware(limiter, logrus.New())
	h := m.Handler(func(c echo.Context) bool { return false })(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	require.NoError(t, h(c))
	require.Empty(t, limiter.Clients)
}

func TestMetricsMiddleware_RecordsRouteAndErrorStatus(t *testing.T) {
	total := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "t_requests_total"}, []string{"method", "endpoint", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "t_request_duration_seconds"}, []string{"method", "endpoint"})
	m := middleware.NewMetricsMiddleware(total, duration)

	e := echo.New()
	e.Use(m.CollectHTTPMetrics())
	e.GET("/api/items/:id", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound, "item not found") })
	e.GET("/metrics", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, target := range []string{"/api/items/1", "/api/items/2", "/metrics"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	require.Equal(t, 2.0, promtest.ToFloat64(total.WithLabelValues(http.MethodGet, "/api/items/:id", "404")))
	require.Equal(t, 1, promtest.CollectAndCount(total))
}

func TestAdminMiddleware_BearerSchemeIsCaseInsensitive(t *testing.T) {
	e := echo.New()
	m := middleware.NewAdminMiddleware(&testutil.AdminTokensMock{EnabledValue: true}, logrus.New())
	h := m.RequireAdmin()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "bearer   good")
	c := e.NewContext(req, httptest.NewRecorder())
	require.NoError(t, h(c))
}

func TestRateLimitMiddleware_ExceededSetsRetryAfter(t *testing.T) {
	limiter := &testutil.RateLimiterMock{AllowFn: func(ctx context.Context, clientID string) (bool, int, int, time.Time, error) {
		return false, 0, 15, time.Now().Add(30 * time.Second), nil
	}}
	m := middleware.NewRateLimitMiddleware(limiter, logrus.New())
	h := m.Handler(nil)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/api/news/refresh", nil), rec)
	err := h(c)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusTooManyRequests, htErr.Code)
	require.Equal(t, "15", rec.Header().Get("X-RateLimit-Limit"))
	require.NotEmpty(t, rec.Header().Get(echo.HeaderRetryAfter))
}
