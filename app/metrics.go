package app

import (
	"strconv"

	"github.com/iov-one/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects counters about processed transactions.
type Metrics struct {
	txs    *prometheus.CounterVec
	height prometheus.Gauge
}

// NewMetrics creates the application collectors and registers them with
// reg. A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "custody",
			Name:      "transactions_total",
			Help:      "Number of processed transactions by phase, codespace and result code.",
		}, []string{"phase", "codespace", "code"}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "custody",
			Name:      "block_height",
			Help:      "Height of the last committed block.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.txs, m.height)
	}
	return m
}

func (m *Metrics) observeTx(phase string, err error) {
	if m == nil {
		return
	}
	code := errors.ProgramCode(err)
	m.txs.WithLabelValues(phase, errors.Codespace(code), strconv.FormatUint(uint64(code), 10)).Inc()
}

func (m *Metrics) observeCommit(height int64) {
	if m == nil {
		return
	}
	m.height.Set(float64(height))
}
