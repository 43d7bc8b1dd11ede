package metric

import "github.com/prometheus/client_golang/prometheus"

// StoreStats is the view of the store the collector reads at scrape time.
type StoreStats interface {
	Len() int
	Initialised() bool
}

// StoreCollector exports live store statistics.
type StoreCollector struct {
	store StoreStats

	keys        *prometheus.Desc
	initialised *prometheus.Desc
}

// NewStoreCollector creates a collector for store.
func NewStoreCollector(store StoreStats) *StoreCollector {
	return &StoreCollector{
		store: store,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "keys"),
			"Resident keys, including expired keys not yet read.",
			nil, nil,
		),
		initialised: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "initialised"),
			"1 when the store accepts operations, 0 after a reset.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
	ch <- c.initialised
}

// Collect implements prometheus.Collector.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(c.store.Len()))

	initialised := 0.0
	if c.store.Initialised() {
		initialised = 1
	}
	ch <- prometheus.MustNewConstMetric(c.initialised, prometheus.GaugeValue, initialised)
}
