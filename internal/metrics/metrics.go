package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "oascms"

// Recorder collects counters for draws, payments and reconciliation.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	draws    prometheus.Counter
	winners  *prometheus.CounterVec
	payments prometheus.Counter
	warnings *prometheus.CounterVec
}

// New registers the counters on reg. A nil registerer yields a no-op recorder.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		return nil
	}

	r := &Recorder{
		draws: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lottery_draws_total",
			Help:      "Lottery rounds drawn.",
		}),
		winners: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lottery_winners_total",
			Help:      "Lottery winners, by whether a unit could be allocated.",
		}, []string{"allocated"}),
		payments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_recorded_total",
			Help:      "Payments appended to the ledger.",
		}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliation_warnings_total",
			Help:      "Data integrity warnings raised during reconciliation.",
		}, []string{"kind"}),
	}

	reg.MustRegister(r.draws, r.winners, r.payments, r.warnings)

	return r
}

func (r *Recorder) ObserveDraw(allocated, unallocated int) {
	if r == nil {
		return
	}

	r.draws.Inc()
	r.winners.WithLabelValues(strconv.FormatBool(true)).Add(float64(allocated))
	r.winners.WithLabelValues(strconv.FormatBool(false)).Add(float64(unallocated))
}

func (r *Recorder) IncPayment() {
	if r == nil {
		return
	}

	r.payments.Inc()
}

func (r *Recorder) IncWarning(kind string) {
	if r == nil {
		return
	}

	if kind == "" {
		kind = "unknown"
	}

	r.warnings.WithLabelValues(kind).Inc()
}
