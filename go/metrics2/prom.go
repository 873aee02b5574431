package metrics2

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pairedstats/infra/go/sklog"
)

var (
	// invalidChar is used to force metric and tag names to conform to Prometheus's restrictions.
	invalidChar = regexp.MustCompile("([^a-zA-Z0-9_:])")
)

func clean(s string) string {
	return invalidChar.ReplaceAllLiteralString(s, "_")
}

// promCounter implements Counter.
type promCounter struct {
	counter prometheus.Counter
	mutex   sync.Mutex
	i       int64
}

func (c *promCounter) Inc(i int64) {
	if i < 0 {
		sklog.Warningf("Counters only go up, ignoring Inc(%d)", i)
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.i += i
	c.counter.Add(float64(i))
}

func (c *promCounter) Get() int64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.i
}

// promFloat64Summary implements Float64SummaryMetric.
type promFloat64Summary struct {
	summary prometheus.Observer
}

func (m *promFloat64Summary) Observe(v float64) {
	m.summary.Observe(v)
}

// promClient implements Client.
type promClient struct {
	registerer prometheus.Registerer

	counterMutex sync.Mutex
	counterVecs  map[string]*prometheus.CounterVec
	counters     map[string]*promCounter

	summaryMutex sync.Mutex
	summaryVecs  map[string]*prometheus.SummaryVec
	summaries    map[string]*promFloat64Summary
}

func newPromClient(registerer prometheus.Registerer) *promClient {
	return &promClient{
		registerer:  registerer,
		counterVecs: map[string]*prometheus.CounterVec{},
		counters:    map[string]*promCounter{},
		summaryVecs: map[string]*prometheus.SummaryVec{},
		summaries:   map[string]*promFloat64Summary{},
	}
}

// commonGet returns the clean measurement name, the clean tags, the sorted
// tag keys, a key identifying the single metric and a key identifying the
// vector it belongs to.
func commonGet(measurement string, tags ...map[string]string) (string, map[string]string, []string, string, string) {
	measurement = clean(measurement)

	cleanTags := map[string]string{}
	for _, t := range tags {
		for k, v := range t {
			cleanTags[clean(k)] = v
		}
	}
	keys := slices.Sorted(maps.Keys(cleanTags))

	metricKeySrc := []string{measurement}
	for _, key := range keys {
		metricKeySrc = append(metricKeySrc, key, cleanTags[key])
	}
	metricKey := strings.Join(metricKeySrc, "-")
	vecKey := fmt.Sprintf("%s %v", measurement, keys)
	return measurement, cleanTags, keys, metricKey, vecKey
}

func (p *promClient) GetCounter(name string, tags ...map[string]string) Counter {
	measurement, cleanTags, keys, metricKey, vecKey := commonGet(name, tags...)

	p.counterMutex.Lock()
	defer p.counterMutex.Unlock()
	if ret, ok := p.counters[metricKey]; ok {
		return ret
	}
	vec, ok := p.counterVecs[vecKey]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: measurement,
			Help: measurement,
		}, keys)
		if err := p.registerer.Register(vec); err != nil {
			sklog.Fatalf("Failed to register %q: %s", measurement, err)
		}
		p.counterVecs[vecKey] = vec
	}
	counter, err := vec.GetMetricWith(prometheus.Labels(cleanTags))
	if err != nil {
		sklog.Fatalf("Failed to get counter: %s", err)
	}
	ret := &promCounter{counter: counter}
	p.counters[metricKey] = ret
	return ret
}

func (p *promClient) GetFloat64SummaryMetric(name string, tags ...map[string]string) Float64SummaryMetric {
	measurement, cleanTags, keys, metricKey, vecKey := commonGet(name, tags...)

	p.summaryMutex.Lock()
	defer p.summaryMutex.Unlock()
	if ret, ok := p.summaries[metricKey]; ok {
		return ret
	}
	vec, ok := p.summaryVecs[vecKey]
	if !ok {
		vec = prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       measurement,
			Help:       measurement,
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, keys)
		if err := p.registerer.Register(vec); err != nil {
			sklog.Fatalf("Failed to register %q: %s", measurement, err)
		}
		p.summaryVecs[vecKey] = vec
	}
	summary, err := vec.GetMetricWith(prometheus.Labels(cleanTags))
	if err != nil {
		sklog.Fatalf("Failed to get summary: %s", err)
	}
	ret := &promFloat64Summary{summary: summary}
	p.summaries[metricKey] = ret
	return ret
}

// Assert that we implement the interface.
var _ Client = (*promClient)(nil)
