package sqlchain

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus instruments the Chain Executor (C7) updates
// around statement execution and chain commit/rollback (SPEC_FULL.md §4.14).
// A nil *Metrics is valid everywhere and is a no-op, matching the nil-safe
// receiver style the reference corpus uses throughout its own metrics layer.
type Metrics struct {
	StatementsExecuted prometheus.Counter
	ChainCommits        prometheus.Counter
	ChainRollbacks       prometheus.Counter
	RenderDuration       prometheus.Histogram
}

// NewMetrics registers and returns a Metrics bound to reg. Passing nil uses
// prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		StatementsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sqlchain_statements_executed_total",
			Help: "Number of statements executed across all chains.",
		}),
		ChainCommits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sqlchain_chain_commits_total",
			Help: "Number of chains committed successfully.",
		}),
		ChainRollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sqlchain_chain_rollbacks_total",
			Help: "Number of chains rolled back.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "sqlchain_render_duration_seconds",
			Help: "Time spent rendering a single statement to SQL text.",
		}),
	}
	reg.MustRegister(m.StatementsExecuted, m.ChainCommits, m.ChainRollbacks, m.RenderDuration)
	return m
}

func (m *Metrics) incStatement() {
	if m == nil || m.StatementsExecuted == nil {
		return
	}
	m.StatementsExecuted.Inc()
}

func (m *Metrics) incCommit() {
	if m == nil || m.ChainCommits == nil {
		return
	}
	m.ChainCommits.Inc()
}

func (m *Metrics) incRollback() {
	if m == nil || m.ChainRollbacks == nil {
		return
	}
	m.ChainRollbacks.Inc()
}

func (m *Metrics) observeRenderSeconds(seconds float64) {
	if m == nil || m.RenderDuration == nil {
		return
	}
	m.RenderDuration.Observe(seconds)
}
