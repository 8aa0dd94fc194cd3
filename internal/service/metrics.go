package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds store level collectors. A nil *Metrics records nothing.
type Metrics struct {
	quotes     prometheus.Gauge
	operations *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		quotes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "quotes_total",
			Help: "Number of stored quotes as last observed by the service.",
		}),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quote_store_operations_total",
				Help: "Store operations by name and outcome.",
			},
			[]string{"operation", "outcome"},
		),
	}
	for _, c := range []prometheus.Collector{m.quotes, m.operations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) setQuotes(n int) {
	if m != nil {
		m.quotes.Set(float64(n))
	}
}

func (m *Metrics) addQuotes(delta float64) {
	if m != nil {
		m.quotes.Add(delta)
	}
}
