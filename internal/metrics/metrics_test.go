package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.IncFollow()
	m.IncFollow()
	m.IncUnfollow()
	m.IncRegistration()
	m.IncFavorite("add")
	m.ObserveRequest("GET", 201)
	m.ObserveRequest("GET", 404)

	body := scrape(t, m)
	assert.Contains(t, body, "foodgram_follows_total 2")
	assert.Contains(t, body, "foodgram_unfollows_total 1")
	assert.Contains(t, body, "foodgram_registrations_total 1")
	assert.Contains(t, body, `foodgram_favorites_total{action="add"} 1`)
	assert.Contains(t, body, `foodgram_http_requests_total{method="GET",status="2xx"} 1`)
	assert.Contains(t, body, `foodgram_http_requests_total{method="GET",status="4xx"} 1`)
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncFollow()
		m.IncRegistration()
		m.IncShoppingCart("remove")
		m.ObserveRequest("POST", 500)
	})
}
