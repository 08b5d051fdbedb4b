package paymaster

import (
	"math/big"

	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	sponsoredTotal prometheus.Counter
	declinedTotal  *prometheus.CounterVec
	gasPaidWei     prometheus.Counter
	balanceWei     prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	factory := promauto.With(reg)
	return &metrics{
		sponsoredTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "bloomgov_paymaster_sponsored_total",
			Help: "number of sponsored transactions",
		}),
		declinedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bloomgov_paymaster_declined_total",
			Help: "number of declined sponsorship requests by reason",
		}, []string{"reason"}),
		gasPaidWei: factory.NewCounter(prometheus.CounterOpts{
			Name: "bloomgov_paymaster_gas_paid_wei_total",
			Help: "gas paid on behalf of users in wei",
		}),
		balanceWei: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bloomgov_paymaster_balance_wei",
			Help: "native balance held for sponsorship in wei",
		}),
	}
}

func weiFloat(v *big.Int) float64 {
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}

func (m *metrics) sponsored(cost, balance *big.Int) {
	if m == nil {
		return
	}
	m.sponsoredTotal.Inc()
	m.gasPaidWei.Add(weiFloat(cost))
	m.balanceWei.Set(weiFloat(balance))
}

func (m *metrics) declined(reason models.DeclineReason) {
	if m == nil {
		return
	}
	m.declinedTotal.WithLabelValues(string(reason)).Inc()
}

func (m *metrics) setBalance(balance *big.Int) {
	if m == nil {
		return
	}
	m.balanceWei.Set(weiFloat(balance))
}
