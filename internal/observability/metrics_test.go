package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/sentinel-iam/sentinel/testing"
)

func TestMetricsEndpoint(t *testing.T) {
	m := NewMetrics()
	m.IncAuthAttempt("password", "failure")
	m.IncAuthAttempt("password", "success")
	m.IncAuthAttempt("google", "success")

	res := httptest.NewRecorder()
	m.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, res.Code)

	body := res.Body.String()
	assert.Contains(t, body, `sentinel_auth_attempts_total{flow="password",result="success"} 1`)
	assert.Contains(t, body, `sentinel_auth_attempts_total{flow="google",result="success"} 1`)
}

func TestMiddlewareCountsRequests(t *testing.T) {
	m := NewMetrics()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	res := httptest.NewRecorder()
	m.Middleware(next).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/somewhere", nil))
	require.Equal(t, http.StatusTeapot, res.Code)

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), `sentinel_http_requests_total{code="418",route="/somewhere"} 1`)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.IncAuthAttempt("password", "success")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	res := httptest.NewRecorder()
	m.Middleware(next).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, res.Code)

	res = httptest.NewRecorder()
	m.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
}
