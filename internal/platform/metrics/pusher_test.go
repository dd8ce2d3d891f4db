package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auction_backend/internal/feature/auctions/usecase"
)

func sampleReport() usecase.RunReport {
	return usecase.RunReport{
		Listings: 120,
		Items:    40,
		Upsert:   usecase.UpsertResult{Items: 40, Prices: 38, Failed: 2},
		Backfill: usecase.BackfillReport{Requested: 10, Resolved: 8, Unresolved: 1, Failed: 1, Remaining: 15},
		Duration: 1500 * time.Millisecond,
	}
}

func TestRunMetrics_Observe(t *testing.T) {
	t.Parallel()

	m := NewRunMetrics()
	finished := time.Unix(1700000000, 0)

	m.Observe(sampleReport(), finished)

	assert.Equal(t, float64(120), testutil.ToFloat64(m.Listings))
	assert.Equal(t, float64(40), testutil.ToFloat64(m.Items))
	assert.Equal(t, float64(38), testutil.ToFloat64(m.PricesWritten))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.StatementsFailed))
	assert.Equal(t, float64(8), testutil.ToFloat64(m.MetadataResolved))
	assert.Equal(t, float64(15), testutil.ToFloat64(m.MetadataPending))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.DurationSeconds))
	assert.Equal(t, float64(1700000000), testutil.ToFloat64(m.LastSuccessUnixTS))
}

func TestRunMetrics_Observe_UnknownBacklogKeepsPreviousValue(t *testing.T) {
	t.Parallel()

	m := NewRunMetrics()
	m.Observe(sampleReport(), time.Now())

	r := sampleReport()
	r.Backfill.Remaining = -1
	m.Observe(r, time.Now())

	assert.Equal(t, float64(15), testutil.ToFloat64(m.MetadataPending))
}

func TestRunMetrics_Push(t *testing.T) {
	t.Parallel()

	got := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := NewRunMetrics()
	m.Observe(sampleReport(), time.Now())

	err := m.Push(context.Background(), server.Client(), server.URL, "auction_collector", "host1")

	require.NoError(t, err)
	assert.Equal(t, "PUT /metrics/job/auction_collector/instance/host1", <-got)
}

func TestRunMetrics_Push_GatewayError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := NewRunMetrics().Push(context.Background(), nil, server.URL, "auction_collector", "")

	assert.ErrorContains(t, err, "push metrics")
}
