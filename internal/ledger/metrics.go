package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	transactions *prometheus.CounterVec
	gasPayer     *prometheus.CounterVec
	blockNumber  prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	factory := promauto.With(reg)
	return &metrics{
		transactions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bloomgov_ledger_transactions_total",
			Help: "number of submitted transactions by outcome",
		}, []string{"status"}),
		gasPayer: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bloomgov_ledger_gas_payer_total",
			Help: "number of included transactions by who paid the gas",
		}, []string{"payer"}),
		blockNumber: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bloomgov_ledger_block_number",
			Help: "current block number",
		}),
	}
}

func (m *metrics) transaction(status string) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(status).Inc()
}

func (m *metrics) included(payer string, block uint64) {
	if m == nil {
		return
	}
	m.gasPayer.WithLabelValues(payer).Inc()
	m.blockNumber.Set(float64(block))
}

func (m *metrics) setBlock(block uint64) {
	if m == nil {
		return
	}
	m.blockNumber.Set(float64(block))
}
