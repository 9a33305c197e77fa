package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSettlement(t *testing.T) {
	m := New()

	m.ObserveSettlement(2, decimal.Zero)
	m.ObserveSettlement(1, decimal.RequireFromString("0.01"))
	m.ObserveSettlement(1, decimal.RequireFromString("60"))

	assert.Equal(t, float64(3), testutil.ToFloat64(m.settlementReports))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.settlementResidual))
}

func TestMiddleware_RecordsRouteTemplate(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/v1/trips/:tripId", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trips/"+id, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	got := testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/api/v1/trips/:tripId", "204"))
	assert.Equal(t, float64(2), got)
}

func TestMiddleware_RecordsHandlerErrors(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "nope")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/boom", "418")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New()
	m.RegisterGauge("websocket_clients", "Connected websocket clients.", func() float64 { return 4 })
	m.ObserveSettlement(3, decimal.Zero)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(body, "tripsplit_settlement_reports_total 1"))
	assert.True(t, strings.Contains(body, "tripsplit_websocket_clients 4"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
