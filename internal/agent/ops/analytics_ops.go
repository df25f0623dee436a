package ops

import (
	"context"

	"github.com/texfolio/stockroom/internal/agent/catalog"
	"github.com/texfolio/stockroom/internal/periods"
	"github.com/texfolio/stockroom/internal/repo"
)

// Trend directions reported by the sales-trends operation.
const (
	TrendRising  = "rising"
	TrendFalling = "falling"
	TrendStable  = "stable"
)

// trendBand is the percentage change within which a trend still counts
// as stable.
const trendBand = 10.0

// periodStats is the profit-stats payload: the window's aggregates plus
// the change against the immediately preceding equal-length window.
type periodStats struct {
	Period string `json:"period"`
	repo.ProfitStats
	// Comparison fields are omitted for the unbounded "all" period.
	PreviousProfit   *float64 `json:"previous_profit,omitempty"`
	ProfitChangePct  *float64 `json:"profit_change_pct,omitempty"`
	RevenueChangePct *float64 `json:"revenue_change_pct,omitempty"`
}

func (e *Executor) profitStats(ctx context.Context, args any) catalog.Result {
	a := args.(*PeriodArgs)
	period := orDefaultStr(a.Period, defaultPeriod)

	from, to, err := periods.Window(period, e.now())
	if err != nil {
		return catalog.Fail(catalog.CodeValidation, err.Error())
	}

	stats, err := e.analytics.ProfitStats(ctx, from, to)
	if err != nil {
		return failure(err)
	}
	out := periodStats{Period: period, ProfitStats: stats}

	if !from.IsZero() {
		prevFrom, prevTo := periods.Previous(from, to)
		prev, err := e.analytics.ProfitStats(ctx, prevFrom, prevTo)
		if err != nil {
			return failure(err)
		}
		profitChange := periods.PercentChange(stats.Profit, prev.Profit)
		revenueChange := periods.PercentChange(stats.Revenue, prev.Revenue)
		out.PreviousProfit = &prev.Profit
		out.ProfitChangePct = &profitChange
		out.RevenueChangePct = &revenueChange
	}
	return catalog.OK(out)
}

func (e *Executor) inventorySummary(ctx context.Context, args any) catalog.Result {
	summary, err := e.analytics.InventorySummary(ctx, e.lowStockThreshold)
	if err != nil {
		return failure(err)
	}
	return catalog.OK(summary)
}

func (e *Executor) monthlyProfits(ctx context.Context, args any) catalog.Result {
	a := args.(*MonthlyProfitsArgs)

	months := orDefault(a.Months, defaultMonths)
	series, err := e.analytics.MonthlyProfits(ctx, months)
	if err != nil {
		return failure(err)
	}
	return catalog.OK(map[string]any{
		"months":  months,
		"profits": series,
	})
}

func (e *Executor) topProducts(ctx context.Context, args any) catalog.Result {
	a := args.(*TopProductsArgs)

	period := orDefaultStr(a.Period, defaultPeriod)
	from, to, err := periods.Window(period, e.now())
	if err != nil {
		return catalog.Fail(catalog.CodeValidation, err.Error())
	}
	sortBy := orDefaultStr(a.SortBy, repo.TopByRevenue)
	limit := orDefault(a.Limit, defaultTopLimit)

	top, err := e.analytics.TopProducts(ctx, from, to, sortBy, limit)
	if err != nil {
		return failure(err)
	}
	return catalog.OK(map[string]any{
		"period":   period,
		"sort_by":  sortBy,
		"products": top,
	})
}

// trendReport is the sales-trends payload.
type trendReport struct {
	Period        string  `json:"period"`
	TotalSales    int     `json:"total_sales"`
	TotalRevenue  float64 `json:"total_revenue"`
	AveragePerDay float64 `json:"average_per_day"`
	Trend         string  `json:"trend"`
	ChangePct     float64 `json:"change_pct"`
}

func (e *Executor) salesTrends(ctx context.Context, args any) catalog.Result {
	a := args.(*SalesTrendsArgs)
	period := orDefaultStr(a.Period, defaultPeriod)

	from, to, err := periods.Window(period, e.now())
	if err != nil {
		return catalog.Fail(catalog.CodeValidation, err.Error())
	}

	current, err := e.analytics.ProfitStats(ctx, from, to)
	if err != nil {
		return failure(err)
	}
	prevFrom, prevTo := periods.Previous(from, to)
	previous, err := e.analytics.ProfitStats(ctx, prevFrom, prevTo)
	if err != nil {
		return failure(err)
	}

	days := to.Sub(from).Hours() / 24
	if days < 1 {
		days = 1
	}
	change := periods.PercentChange(float64(current.SalesCount), float64(previous.SalesCount))

	report := trendReport{
		Period:        period,
		TotalSales:    current.SalesCount,
		TotalRevenue:  current.Revenue,
		AveragePerDay: float64(current.SalesCount) / days,
		ChangePct:     change,
	}
	switch {
	case change > trendBand:
		report.Trend = TrendRising
	case change < -trendBand:
		report.Trend = TrendFalling
	default:
		report.Trend = TrendStable
	}
	return catalog.OK(report)
}
