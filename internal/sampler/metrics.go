package sampler

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mcsim"

type metrics struct {
	runs               *prometheus.CounterVec
	generated          prometheus.Counter
	accepted           prometheus.Counter
	rejected           prometheus.Counter
	discarded          prometheus.Counter
	envelopeViolations prometheus.Counter
	numericErrors      prometheus.Counter
	runDuration        prometheus.Histogram
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{}
	var err error

	m.runs, err = register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Number of sampling runs by outcome",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}

	counters := []struct {
		dst  *prometheus.Counter
		name string
		help string
	}{
		{&m.generated, "samples_generated_total", "Number of candidates drawn from the proposal"},
		{&m.accepted, "samples_accepted_total", "Number of candidates accepted"},
		{&m.rejected, "samples_rejected_total", "Number of candidates rejected by the Bernoulli test"},
		{&m.discarded, "samples_discarded_total", "Number of candidates dropped by pipeline shutdown"},
		{&m.envelopeViolations, "envelope_violations_total", "Number of draws whose acceptance ratio exceeded 1"},
		{&m.numericErrors, "numeric_errors_total", "Number of draws discarded for a non-finite density"},
	}
	for _, c := range counters {
		*c.dst, err = register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      c.name,
			Help:      c.help,
		}))
		if err != nil {
			return nil, err
		}
	}

	m.runDuration, err = register(registerer, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of sampling runs",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	}))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to registerer, reusing an identical collector that another
// Sampler already registered.
func register[C prometheus.Collector](registerer prometheus.Registerer, c C) (C, error) {
	if err := registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *metrics) observe(outcome string, st Stats) {
	m.runs.WithLabelValues(outcome).Inc()
	m.generated.Add(float64(st.Generated))
	m.accepted.Add(float64(st.Accepted))
	m.rejected.Add(float64(st.Rejected))
	m.discarded.Add(float64(st.Discarded))
	m.envelopeViolations.Add(float64(st.EnvelopeViolations))
	m.numericErrors.Add(float64(st.NumericErrors))
	m.runDuration.Observe(st.Duration.Seconds())
}
