package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/internal/visitors"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type countingVisitors struct {
	count int64
}

func (c *countingVisitors) Track(context.Context) (visitors.Count, error) {
	c.count++
	return visitors.Count{Count: c.count}, nil
}

func (c *countingVisitors) Current(context.Context) (visitors.Count, error) {
	return visitors.Count{Count: c.count}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test"})
}

func TestVisitorTrackCountsOncePerCookie(t *testing.T) {
	svc := &countingVisitors{}
	handler := VisitorTrack(svc, VisitorCookie{TTL: 24 * time.Hour, Secure: true}, testLogger())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/visitor", nil))
	require.Equal(t, http.StatusOK, first.Code)
	require.EqualValues(t, 1, svc.count)

	cookies := first.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	require.Equal(t, "visitor-tracked", cookie.Name)
	require.True(t, cookie.HttpOnly)
	require.True(t, cookie.Secure)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, 86400, cookie.MaxAge)

	second := httptest.NewRequest(http.MethodPost, "/visitor", nil)
	second.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, second)
	require.Equal(t, http.StatusOK, resp.Code)
	require.EqualValues(t, 1, svc.count)
	require.Empty(t, resp.Result().Cookies())
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReadyReportsFailingDependency(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	ok := httptest.NewRecorder()
	HealthReady(cfg, testLogger(), map[string]Pinger{"db": stubPinger{}, "redis": stubPinger{}}).
		ServeHTTP(ok, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, ok.Code)

	failing := httptest.NewRecorder()
	HealthReady(cfg, testLogger(), map[string]Pinger{"db": stubPinger{}, "redis": stubPinger{err: errors.New("down")}}).
		ServeHTTP(failing, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, failing.Code)
	require.Contains(t, failing.Body.String(), `"redis":"error"`)
}
