// Package metrics computes derived figures from domain entities. Everything
// here is pure: callers load rows from repositories and aggregate in memory.
package metrics

import (
	"time"

	"github.com/infinitetechnologys/crm/internal/domain"
)

// CommissionAmount is the percentage fee earned on a deal: the final price
// when set, otherwise the offer price, times the deal's commission rate.
func CommissionAmount(deal domain.Deal) float64 {
	price := deal.EffectivePrice()
	if price == 0 {
		return 0
	}
	return price * (deal.CommissionRate / 100)
}

// SumCommission totals CommissionAmount over the given deals.
func SumCommission(deals []domain.Deal) float64 {
	var total float64
	for _, deal := range deals {
		total += CommissionAmount(deal)
	}
	return total
}

// MonthlySales aggregates one calendar month of closed business.
type MonthlySales struct {
	Month      string  `json:"month"`
	TotalSales float64 `json:"total_sales"`
	Commission float64 `json:"commission"`
	Deals      int     `json:"deals"`
}

// MonthlyBreakdown buckets closed deals into the 12 calendar months of the
// given year by closing date. Month boundaries are half-open: a deal closing
// on the first of a month counts toward that month. Deals that are not
// closed, have no closing date, or closed in another year are skipped.
func MonthlyBreakdown(deals []domain.Deal, year int) []MonthlySales {
	months := make([]MonthlySales, 12)
	for i := range months {
		months[i].Month = time.Month(i + 1).String()
	}

	for _, deal := range deals {
		if deal.Status != domain.DealStatusClosed || deal.ClosingDate == nil {
			continue
		}
		closed := *deal.ClosingDate
		if closed.Year() != year {
			continue
		}
		idx := int(closed.Month()) - 1
		months[idx].TotalSales += deal.EffectivePrice()
		months[idx].Commission += CommissionAmount(deal)
		months[idx].Deals++
	}
	return months
}

// GroupCount tallies items by key. Empty keys are dropped when skipEmpty is
// set (client sources); status breakdowns keep every key.
func GroupCount[T any](items []T, key func(T) string, skipEmpty bool) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		k := key(item)
		if skipEmpty && k == "" {
			continue
		}
		counts[k]++
	}
	return counts
}
