package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_BusinessCounters(t *testing.T) {
	r := New()

	r.OrderCreated(decimal.RequireFromString("46.00"))
	r.OrderCreated(decimal.RequireFromString("4.50"))
	r.OrderRejected("product_not_found")
	r.OutboxPublished(3)
	r.OutboxFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ordersCreated))
	assert.InDelta(t, 50.5, testutil.ToFloat64(r.orderValue), 0.0001)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.orderRejections.WithLabelValues("product_not_found")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.outboxPublished))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outboxFailures))
}

func TestRegistry_Handler(t *testing.T) {
	r := New()
	r.ObserveRequest("POST /orders", "POST", 201, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `sweetshop_http_requests_total{method="POST",route="POST /orders",status="201"} 1`)
	assert.Contains(t, string(body), "sweetshop_http_request_duration_seconds_bucket")
}
