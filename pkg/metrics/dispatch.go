package metrics

import "github.com/prometheus/client_golang/prometheus"

// DispatchMetrics records the outcomes of grab attempts and auto-dispatch runs.
type DispatchMetrics struct {
	grabAttempts *prometheus.CounterVec
	grabWins     prometheus.Counter
	grabLosses   *prometheus.CounterVec
	autoRetries  prometheus.Counter
}

// NewDispatchMetrics registers the dispatch metrics on the provided registerer.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	if reg == nil {
		return &DispatchMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_grab_attempts_total",
		Help: "Grab attempts by dispatch mode.",
	}, []string{"mode"})
	wins := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_grab_wins_total",
		Help: "Grab attempts that assigned the order.",
	})
	losses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_grab_losses_total",
		Help: "Grab attempts rejected, by reason.",
	}, []string{"reason"})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_auto_reselect_total",
		Help: "Auto-dispatch re-selections after a lost grab.",
	})
	reg.MustRegister(attempts, wins, losses, retries)
	return &DispatchMetrics{
		grabAttempts: attempts,
		grabWins:     wins,
		grabLosses:   losses,
		autoRetries:  retries,
	}
}

// IncAttempt counts one grab attempt in the given mode ("manual" or "auto").
func (d *DispatchMetrics) IncAttempt(mode string) {
	if d == nil || d.grabAttempts == nil {
		return
	}
	d.grabAttempts.WithLabelValues(normalizeLabel(mode)).Inc()
}

// IncWin counts a grab that assigned the order to the rider.
func (d *DispatchMetrics) IncWin() {
	if d == nil || d.grabWins == nil {
		return
	}
	d.grabWins.Inc()
}

// IncLoss counts a rejected grab; reason is "lock" or "cas".
func (d *DispatchMetrics) IncLoss(reason string) {
	if d == nil || d.grabLosses == nil {
		return
	}
	d.grabLosses.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncAutoReselect counts one re-selection pass inside auto-dispatch.
func (d *DispatchMetrics) IncAutoReselect() {
	if d == nil || d.autoRetries == nil {
		return
	}
	d.autoRetries.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
