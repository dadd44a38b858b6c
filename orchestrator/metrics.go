package orchestrator

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the orchestrator's optional Prometheus instrumentation.
// A nil *Metrics is safe to use; its methods are then no-ops.
type Metrics struct {
	epochTransitions  prometheus.Counter
	electionOutcomes  prometheus.Counter
	rfpPhaseDurations prometheus.Histogram
	irvRounds         prometheus.Histogram
}

// NewMetrics registers the orchestrator's collectors against reg. A
// nil reg yields a non-nil Metrics whose collectors still record but
// are not registered anywhere, so callers never need to nil-check.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		epochTransitions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "openswarm_epoch_transitions_total",
			Help: "Number of completed epoch transitions.",
		}),
		electionOutcomes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "openswarm_election_outcomes_total",
			Help: "Number of finalized Tier-1 elections.",
		}),
		rfpPhaseDurations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "openswarm_rfp_phase_duration_seconds",
			Help:    "Wall-clock duration of each RFP commit/reveal phase.",
			Buckets: prometheus.DefBuckets,
		}),
		irvRounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "openswarm_irv_rounds",
			Help:    "Number of IRV elimination rounds to reach a winner.",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}),
	}

	if reg == nil {
		return m
	}
	for _, c := range []prometheus.Collector{m.epochTransitions, m.electionOutcomes, m.rfpPhaseDurations, m.irvRounds} {
		if err := reg.Register(c); err != nil {
			// Already registered (e.g. shared registry across tests); ignore.
			continue
		}
	}
	return m
}

func (m *Metrics) recordEpochTransition() {
	if m == nil {
		return
	}
	m.epochTransitions.Inc()
}

func (m *Metrics) recordElectionOutcome() {
	if m == nil {
		return
	}
	m.electionOutcomes.Inc()
}

func (m *Metrics) recordRfpPhaseDuration(seconds float64) {
	if m == nil {
		return
	}
	m.rfpPhaseDurations.Observe(seconds)
}

func (m *Metrics) recordIrvRounds(rounds int) {
	if m == nil {
		return
	}
	m.irvRounds.Observe(float64(rounds))
}
