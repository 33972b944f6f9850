// Package metrics records statement statistics with Prometheus.
package metrics

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	errMetricAlreadyRegistered = errors.New("metric already registered")
	errOddLabels               = errors.New("labels must be key/value pairs")
)

// Manager creates metrics by name and records values for them. Labels are
// passed as alternating key, value strings.
type Manager struct {
	mu         sync.RWMutex
	registerer prometheus.Registerer
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
}

// NewManager registers metrics on reg; nil means prometheus.DefaultRegisterer.
func NewManager(reg prometheus.Registerer) *Manager {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	return &Manager{
		registerer: reg,
		histograms: make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
	}
}

func (m *Manager) NewHistogram(name, desc string, buckets []float64, labelNames ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.histograms[name]; ok {
		return errMetricAlreadyRegistered
	}

	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: name, Help: desc, Buckets: buckets}, labelNames)
	if err := m.registerer.Register(h); err != nil {
		return err
	}

	m.histograms[name] = h

	return nil
}

func (m *Manager) NewCounter(name, desc string, labelNames ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.counters[name]; ok {
		return errMetricAlreadyRegistered
	}

	c := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: desc}, labelNames)
	if err := m.registerer.Register(c); err != nil {
		return err
	}

	m.counters[name] = c

	return nil
}

// RecordHistogram observes value. Unknown metrics and malformed labels are
// ignored so instrumentation never fails a statement.
func (m *Manager) RecordHistogram(_ context.Context, name string, value float64, labels ...string) {
	m.mu.RLock()
	h, ok := m.histograms[name]
	m.mu.RUnlock()

	if !ok {
		return
	}

	l, err := toLabels(labels)
	if err != nil {
		return
	}

	if o, err := h.GetMetricWith(l); err == nil {
		o.Observe(value)
	}
}

func (m *Manager) IncrementCounter(_ context.Context, name string, labels ...string) {
	m.mu.RLock()
	c, ok := m.counters[name]
	m.mu.RUnlock()

	if !ok {
		return
	}

	l, err := toLabels(labels)
	if err != nil {
		return
	}

	if counter, err := c.GetMetricWith(l); err == nil {
		counter.Inc()
	}
}

func toLabels(kv []string) (prometheus.Labels, error) {
	if len(kv)%2 != 0 {
		return nil, errOddLabels
	}

	l := make(prometheus.Labels, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		l[kv[i]] = kv[i+1]
	}

	return l, nil
}
