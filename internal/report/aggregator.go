// Package report computes period-filtered sales reports. Every function is
// pure over (ledger, now): no mutation, safe to recompute on each view.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/abgdnv/bakerypos/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period selects the reporting window relative to now.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period string.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return Period(s), nil
	default:
		return "", fmt.Errorf("unknown report period: %q", s)
	}
}

// OtherCategory is the bucket for lines with a blank category.
const OtherCategory = "Other"

// Summary holds the headline statistics for a set of sales.
type Summary struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalItemsSold   int64           `json:"total_items_sold"`
	AverageSaleValue decimal.Decimal `json:"average_sale_value"`
	TotalChangeGiven decimal.Decimal `json:"total_change_given"`
	SaleCount        int             `json:"sale_count"`
}

// ShiftTotals aggregates revenue and item count for one shift bucket.
type ShiftTotals struct {
	Revenue decimal.Decimal `json:"revenue"`
	Items   int64           `json:"items"`
}

// ShiftSummary partitions classified sales into the two shift buckets.
// Unclassified sales belong to neither bucket but still count in Summary.
type ShiftSummary struct {
	Morning   ShiftTotals `json:"morning"`
	Afternoon ShiftTotals `json:"afternoon"`
}

// CategoryTotals aggregates sold quantity and revenue for one category.
type CategoryTotals struct {
	Category string          `json:"category"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// HistoryEntry is one ledger row rendered for display.
type HistoryEntry struct {
	SaleID    uuid.UUID       `json:"sale_id"`
	Timestamp time.Time       `json:"timestamp"`
	Shift     domain.Shift    `json:"shift,omitempty"`
	Products  string          `json:"products"`
	Total     decimal.Decimal `json:"total"`
	Tendered  decimal.Decimal `json:"tendered"`
	Change    decimal.Decimal `json:"change"`
}

// Report is the full aggregation for one period.
type Report struct {
	Period     Period           `json:"period"`
	Summary    Summary          `json:"summary"`
	Shifts     ShiftSummary     `json:"shifts"`
	Categories []CategoryTotals `json:"categories"`
	History    []HistoryEntry   `json:"history"`
}

// Build assembles the full report for the given period.
func Build(ledger []domain.Sale, period Period, now time.Time) Report {
	sales := FilterByPeriod(ledger, period, now)
	return Report{
		Period:     period,
		Summary:    SummaryStats(sales),
		Shifts:     ShiftBreakdown(sales),
		Categories: CategoryBreakdown(sales),
		History:    SalesHistory(sales),
	}
}

// FilterByPeriod keeps the sales falling inside the period that contains now.
// Day and month compare calendar fields in local time; week spans from the
// most recent Sunday at 00:00:00 local time.
func FilterByPeriod(ledger []domain.Sale, period Period, now time.Time) []domain.Sale {
	out := make([]domain.Sale, 0, len(ledger))
	switch period {
	case PeriodDay:
		y, m, d := now.Date()
		for _, s := range ledger {
			sy, sm, sd := s.Timestamp.Date()
			if sy == y && sm == m && sd == d {
				out = append(out, s)
			}
		}
	case PeriodWeek:
		y, m, d := now.Date()
		weekStart := time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, now.Location())
		for _, s := range ledger {
			if !s.Timestamp.Before(weekStart) {
				out = append(out, s)
			}
		}
	case PeriodMonth:
		for _, s := range ledger {
			if s.Timestamp.Month() == now.Month() && s.Timestamp.Year() == now.Year() {
				out = append(out, s)
			}
		}
	}
	return out
}

// SummaryStats computes the headline totals over the given sales.
func SummaryStats(sales []domain.Sale) Summary {
	sum := Summary{
		TotalRevenue:     decimal.Zero,
		AverageSaleValue: decimal.Zero,
		TotalChangeGiven: decimal.Zero,
		SaleCount:        len(sales),
	}
	for _, s := range sales {
		sum.TotalRevenue = sum.TotalRevenue.Add(s.Total)
		sum.TotalItemsSold += s.ItemCount()
		sum.TotalChangeGiven = sum.TotalChangeGiven.Add(s.ChangeReturned)
	}
	if len(sales) > 0 {
		sum.AverageSaleValue = sum.TotalRevenue.Div(decimal.NewFromInt(int64(len(sales)))).Round(2)
	}
	return sum
}

// ShiftBreakdown partitions sales by shift. Sales without a shift are
// excluded from both buckets.
func ShiftBreakdown(sales []domain.Sale) ShiftSummary {
	out := ShiftSummary{
		Morning:   ShiftTotals{Revenue: decimal.Zero},
		Afternoon: ShiftTotals{Revenue: decimal.Zero},
	}
	for _, s := range sales {
		switch s.Shift {
		case domain.ShiftMorning:
			out.Morning.Revenue = out.Morning.Revenue.Add(s.Total)
			out.Morning.Items += s.ItemCount()
		case domain.ShiftAfternoon:
			out.Afternoon.Revenue = out.Afternoon.Revenue.Add(s.Total)
			out.Afternoon.Items += s.ItemCount()
		}
	}
	return out
}

// CategoryBreakdown flattens all lines across all sales and groups them by
// category, in first-encounter order. Revenue is quantity times unit price
// per line, not re-derived from sale totals.
func CategoryBreakdown(sales []domain.Sale) []CategoryTotals {
	index := make(map[string]int)
	var out []CategoryTotals
	for _, s := range sales {
		for _, l := range s.Lines {
			category := l.Category
			if category == "" {
				category = OtherCategory
			}
			i, ok := index[category]
			if !ok {
				i = len(out)
				index[category] = i
				out = append(out, CategoryTotals{Category: category, Revenue: decimal.Zero})
			}
			out[i].Quantity += int64(l.Quantity)
			out[i].Revenue = out[i].Revenue.Add(l.LineTotal())
		}
	}
	return out
}

// SalesHistory renders the sales for display, preserving ledger order
// (most recent first). Product lines become a "<qty>x <name>" list.
func SalesHistory(sales []domain.Sale) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(sales))
	for _, s := range sales {
		parts := make([]string, 0, len(s.Lines))
		for _, l := range s.Lines {
			parts = append(parts, fmt.Sprintf("%dx %s", l.Quantity, l.Name))
		}
		out = append(out, HistoryEntry{
			SaleID:    s.ID,
			Timestamp: s.Timestamp,
			Shift:     s.Shift,
			Products:  strings.Join(parts, ", "),
			Total:     s.Total,
			Tendered:  s.AmountTendered,
			Change:    s.ChangeReturned,
		})
	}
	return out
}
