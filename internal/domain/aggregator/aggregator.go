// Package aggregator computes dashboard statistics over a snapshot of checks.
package aggregator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/checks-dashboard/backend/internal/domain/classifier"
	"github.com/checks-dashboard/backend/internal/domain/entity"
)

// DashboardStats summarises a snapshot of checks.
type DashboardStats struct {
	// TotalAmount sums amounts across every currency. It is an advisory
	// magnitude only; CurrencyStats carries the real per-currency totals.
	TotalAmount   decimal.Decimal
	OverdueCount  int
	UpcomingCount int
	TotalChecks   int
}

// CurrencyTotal is the count and summed amount for a single currency.
type CurrencyTotal struct {
	Currency    string
	Count       int
	TotalAmount decimal.Decimal
}

// CurrencyStats lists per-currency totals in first-occurrence order.
type CurrencyStats []CurrencyTotal

// Get returns the totals for the given currency code.
func (s CurrencyStats) Get(currency string) (CurrencyTotal, bool) {
	for _, t := range s {
		if t.Currency == currency {
			return t, true
		}
	}
	return CurrencyTotal{}, false
}

// ComputeDashboardStats aggregates the snapshot relative to now.
// Overdue and upcoming counts use the same rules as the list filters.
func ComputeDashboardStats(checks []*entity.Check, now time.Time) DashboardStats {
	stats := DashboardStats{
		TotalAmount: decimal.Zero,
		TotalChecks: len(checks),
	}

	for _, c := range checks {
		stats.TotalAmount = stats.TotalAmount.Add(c.Amount)
		if classifier.MatchesFilter(c, classifier.FilterOverdue, now) {
			stats.OverdueCount++
		}
		if classifier.MatchesFilter(c, classifier.FilterUpcoming, now) {
			stats.UpcomingCount++
		}
	}

	return stats
}

// ComputeCurrencyStats groups the snapshot by currency in a single pass.
func ComputeCurrencyStats(checks []*entity.Check) CurrencyStats {
	index := make(map[string]int)
	stats := make(CurrencyStats, 0)

	for _, c := range checks {
		currency := c.Currency
		if currency == "" {
			currency = entity.DefaultCurrency
		}

		i, ok := index[currency]
		if !ok {
			i = len(stats)
			index[currency] = i
			stats = append(stats, CurrencyTotal{Currency: currency, TotalAmount: decimal.Zero})
		}

		stats[i].Count++
		stats[i].TotalAmount = stats[i].TotalAmount.Add(c.Amount)
	}

	return stats
}
