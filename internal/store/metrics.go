package store

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/rollbook/internal/models"
)

// Load outcomes reported on rollbook_store_loads_total.
const (
	loadOK      = "ok"
	loadMissing = "missing"
	loadCorrupt = "corrupt"
	loadError   = "error"
)

type metrics struct {
	loads         *prometheus.CounterVec
	saves         *prometheus.CounterVec
	documentBytes prometheus.Gauge
	records       *prometheus.GaugeVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rollbook",
			Subsystem: "store",
			Name:      "loads_total",
			Help:      "Document loads by outcome.",
		}, []string{"result"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rollbook",
			Subsystem: "store",
			Name:      "saves_total",
			Help:      "Document saves by outcome.",
		}, []string{"result"}),
		documentBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rollbook",
			Subsystem: "store",
			Name:      "document_bytes",
			Help:      "Size of the last document loaded or saved.",
		}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "rollbook",
			Subsystem: "store",
			Name:      "records",
			Help:      "Entries per collection after the last load or save.",
		}, []string{"collection"}),
	}
	reg.MustRegister(m.loads, m.saves, m.documentBytes, m.records)
	return m
}

func (m *metrics) observe(d *models.Data, size int) {
	m.documentBytes.Set(float64(size))
	for name, n := range d.Counts() {
		m.records.WithLabelValues(name).Set(float64(n))
	}
}
