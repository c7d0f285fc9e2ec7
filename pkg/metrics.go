package hornlog

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry *prometheus.Registry

	// Counters
	nextConnectionID prometheus.CounterFunc
	saturationRounds prometheus.CounterFunc

	// Gauges
	openConnections prometheus.GaugeFunc
	knownFacts      prometheus.GaugeFunc
	generativeRules prometheus.GaugeFunc

	// Latency summaries
	queryLatency  prometheus.Summary
	assertLatency prometheus.Summary
}

func newMetrics(db *Database) *metrics {
	// Collector callbacks run on scrape, concurrently with statement
	// execution, so they take db.mu like any other engine reader.
	locked := func(read func() float64) func() float64 {
		return func() float64 {
			db.mu.Lock()
			defer db.mu.Unlock()
			return read()
		}
	}
	m := &metrics{
		nextConnectionID: prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "next_connection_id",
				Help: "number of connections to this server over its lifetime",
			},
			locked(func() float64 {
				return float64(db.nextConnectionID)
			}),
		),
		saturationRounds: prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "saturation_rounds",
				Help: "number of fixpoint rounds run over this server's lifetime",
			},
			locked(func() float64 {
				return float64(db.engine.NumRounds())
			}),
		),
		openConnections: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "open_connections",
				Help: "number of connections currently open",
			},
			locked(func() float64 {
				return float64(len(db.connections))
			}),
		),
		knownFacts: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "known_facts",
				Help: "number of facts in the fact set (seeds plus derived)",
			},
			locked(func() float64 {
				return float64(len(db.engine.facts))
			}),
		),
		generativeRules: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "generative_rules",
				Help: "number of generative rules loaded",
			},
			locked(func() float64 {
				return float64(len(db.engine.rules))
			}),
		),
		queryLatency: prometheus.NewSummary(
			prometheus.SummaryOpts{
				Name: "query_latency_ns",
				Help: "latency to answer a query, including saturation rounds",
			},
		),
		assertLatency: prometheus.NewSummary(
			prometheus.SummaryOpts{
				Name: "assert_latency_ns",
				Help: "latency to execute an assertion, including the statement log write",
			},
		),
	}
	m.registry = prometheus.NewPedanticRegistry()
	reg := m.registry

	reg.MustRegister(prometheus.NewProcessCollector(os.Getpid(), ""))
	reg.MustRegister(prometheus.NewGoCollector())

	reg.MustRegister(m.nextConnectionID)
	reg.MustRegister(m.saturationRounds)
	reg.MustRegister(m.openConnections)
	reg.MustRegister(m.knownFacts)
	reg.MustRegister(m.generativeRules)
	reg.MustRegister(m.queryLatency)
	reg.MustRegister(m.assertLatency)
	return m
}
