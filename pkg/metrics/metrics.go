// Package metrics holds the domain counters exported on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmetix_orders_total",
			Help: "Order operations by action and result",
		},
		[]string{"action", "result"},
	)

	StockAdjustments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmetix_stock_adjustments_total",
			Help: "Inventory ledger adjustments by operation",
		},
		[]string{"operation"},
	)

	StockUnits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmetix_stock_units_total",
			Help: "Units moved through the inventory ledger",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(OrdersTotal, StockAdjustments, StockUnits)
}

// Result label value for an error.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
