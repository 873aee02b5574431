// Package metrics2 records application metrics in Prometheus.
//
// Metrics are identified by a measurement name plus a set of tags. Names and
// tag keys are cleaned so that they conform to Prometheus's restrictions,
// e.g. "http.response" becomes "http_response".
package metrics2

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pairedstats/infra/go/sklog"
)

// Counter is a monotonically increasing count.
type Counter interface {
	// Inc adds i to the counter.
	Inc(i int64)
	// Get returns the current value of the counter.
	Get() int64
}

// Float64SummaryMetric tracks the distribution of observed values.
type Float64SummaryMetric interface {
	Observe(v float64)
}

// Client creates metrics.
type Client interface {
	GetCounter(name string, tags ...map[string]string) Counter
	GetFloat64SummaryMetric(name string, tags ...map[string]string) Float64SummaryMetric
}

var (
	defaultClientMutex sync.Mutex
	defaultClient      = newPromClient(prometheus.DefaultRegisterer)
)

// GetCounter returns a Counter from the default client.
func GetCounter(name string, tags ...map[string]string) Counter {
	return getDefaultClient().GetCounter(name, tags...)
}

// GetFloat64SummaryMetric returns a Float64SummaryMetric from the default
// client.
func GetFloat64SummaryMetric(name string, tags ...map[string]string) Float64SummaryMetric {
	return getDefaultClient().GetFloat64SummaryMetric(name, tags...)
}

func getDefaultClient() Client {
	defaultClientMutex.Lock()
	defer defaultClientMutex.Unlock()
	return defaultClient
}

// InitPrometheus starts serving the default registry at /metrics on port,
// e.g. ":20000". An empty port disables the listener.
func InitPrometheus(port string) {
	if port == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		sklog.Infof("Serving metrics at http://localhost%s/metrics", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			sklog.Errorf("Metrics server failed: %s", err)
		}
	}()
}
