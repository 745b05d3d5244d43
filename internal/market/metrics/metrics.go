package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ListingsCreated     prometheus.Counter
	ListingsCancelled   prometheus.Counter
	ListingsUpdated     prometheus.Counter
	OpenListings        prometheus.Gauge
	ItemsSold           prometheus.Counter
	SettlementFailures  prometheus.Counter
	Withdrawals         prometheus.Counter
	WithdrawalFailures  prometheus.Counter
	InvariantViolations prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ListingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nftmarket_listings_created_total",
			Help: "Total number of listings created",
		}),
		ListingsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nftmarket_listings_cancelled_total",
			Help: "Total number of listings cancelled by their seller",
		}),
		ListingsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nftmarket_listings_updated_total",
			Help: "Total number of listing price updates",
		}),
		OpenListings: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "nftmarket_open_listings",
			Help: "Current number of active listings",
		}),
		ItemsSold: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nftmarket_items_sold_total",
			Help: "Total number of settled sales",
		}),
		SettlementFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nftmarket_settlement_failures_total",
			Help: "Total number of settlements rolled back after a failed asset transfer",
		}),
		Withdrawals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nftmarket_withdrawals_total",
			Help: "Total number of successful proceeds withdrawals",
		}),
		WithdrawalFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nftmarket_withdrawal_failures_total",
			Help: "Total number of withdrawals rolled back after a failed payment release",
		}),
		InvariantViolations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nftmarket_ledger_invariant_violations_total",
			Help: "Ledger discrepancies detected during settlement rollback",
		}),
	}
}
