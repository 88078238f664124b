package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrzlen/speech-golang/pkg/speech"
)

var _ speech.Observer = (*PrometheusObserver)(nil)

func TestPrometheusObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	observer := NewPrometheusObserver(reg)

	observer.ObserveRequest("success", 120*time.Millisecond)
	observer.ObserveRequest("success", 80*time.Millisecond)
	observer.ObserveRequest(speech.KindRateLimited.String(), 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(observer.requestsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(observer.requestsTotal.WithLabelValues("rate_limited")))
	assert.Equal(t, 2, testutil.CollectAndCount(observer.requestDuration))

	expected := `
# HELP speech_requests_total Total number of speech synthesis requests
# TYPE speech_requests_total counter
speech_requests_total{outcome="rate_limited"} 1
speech_requests_total{outcome="success"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "speech_requests_total"))
}

func TestNewPrometheusObserver_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusObserver(reg)

	assert.Panics(t, func() {
		NewPrometheusObserver(reg)
	})
}
