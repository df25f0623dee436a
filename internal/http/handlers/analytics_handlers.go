package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/texfolio/stockroom/internal/periods"
	"github.com/texfolio/stockroom/internal/repo"
)

// InventorySummaryHandler godoc
// @Summary Whole-inventory summary
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} repo.InventorySummary
// @Router /analytics/summary [get]
func InventorySummaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := analyticsRepo.InventorySummary(r.Context(), lowStockThreshold)
	if err != nil {
		http.Error(w, "could not compute summary", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ProfitStatsHandler godoc
// @Summary Profit statistics for a period
// @Description Includes the percentage change against the preceding equal-length window
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param period query string false "today, week, month, 2months, year, or all (default month)"
// @Success 200 {object} map[string]any
// @Router /analytics/profit [get]
func ProfitStatsHandler(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = periods.Month
	}
	from, to, err := periods.Window(period, time.Now())
	if err != nil {
		http.Error(w, "unknown period", http.StatusBadRequest)
		return
	}

	stats, err := analyticsRepo.ProfitStats(r.Context(), from, to)
	if err != nil {
		http.Error(w, "could not compute profit stats", http.StatusInternalServerError)
		return
	}

	payload := map[string]any{
		"period":         period,
		"total_revenue":  stats.Revenue,
		"total_cost":     stats.Cost,
		"total_profit":   stats.Profit,
		"sales_count":    stats.SalesCount,
		"average_profit": stats.AverageProfit,
		"profit_margin":  stats.ProfitMargin,
	}
	if !from.IsZero() {
		prevFrom, prevTo := periods.Previous(from, to)
		prev, err := analyticsRepo.ProfitStats(r.Context(), prevFrom, prevTo)
		if err != nil {
			http.Error(w, "could not compute profit stats", http.StatusInternalServerError)
			return
		}
		payload["previous_profit"] = prev.Profit
		payload["profit_change_pct"] = periods.PercentChange(stats.Profit, prev.Profit)
		payload["revenue_change_pct"] = periods.PercentChange(stats.Revenue, prev.Revenue)
	}
	writeJSON(w, http.StatusOK, payload)
}

// MonthlyProfitsHandler godoc
// @Summary Monthly profit series
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param months query int false "Number of months, default 6"
// @Success 200 {array} repo.MonthlyProfit
// @Router /analytics/monthly-profits [get]
func MonthlyProfitsHandler(w http.ResponseWriter, r *http.Request) {
	months := 6
	if v := r.URL.Query().Get("months"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 24 {
			http.Error(w, "invalid months", http.StatusBadRequest)
			return
		}
		months = parsed
	}

	series, err := analyticsRepo.MonthlyProfits(r.Context(), months)
	if err != nil {
		http.Error(w, "could not compute monthly profits", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// TopProductsHandler godoc
// @Summary Top products by revenue, quantity, or profit
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param period query string false "Time period, default month"
// @Param sort_by query string false "revenue, quantity, or profit"
// @Param limit query int false "Number of products, default 5"
// @Success 200 {array} repo.TopProduct
// @Router /analytics/top-products [get]
func TopProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	period := q.Get("period")
	if period == "" {
		period = periods.Month
	}
	from, to, err := periods.Window(period, time.Now())
	if err != nil {
		http.Error(w, "unknown period", http.StatusBadRequest)
		return
	}

	sortBy := q.Get("sort_by")
	switch sortBy {
	case "", repo.TopByRevenue:
		sortBy = repo.TopByRevenue
	case repo.TopByQuantity, repo.TopByProfit:
	default:
		http.Error(w, "invalid sort_by", http.StatusBadRequest)
		return
	}

	limit := 5
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	top, err := analyticsRepo.TopProducts(r.Context(), from, to, sortBy, limit)
	if err != nil {
		http.Error(w, "could not compute top products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

// LowStockHandler godoc
// @Summary Products below a stock threshold
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param threshold query int false "Defaults to the configured threshold"
// @Success 200 {object} ProductsSearchResult
// @Router /analytics/low-stock [get]
func LowStockHandler(w http.ResponseWriter, r *http.Request) {
	threshold := lowStockThreshold
	if v := r.URL.Query().Get("threshold"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid threshold", http.StatusBadRequest)
			return
		}
		threshold = parsed
	}

	products, total, err := productRepo.Filter(r.Context(), repo.ProductFilter{LowStockBelow: &threshold})
	if err != nil {
		http.Error(w, "could not fetch products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ProductsSearchResult{
		Data: toProductResponses(products),
		Meta: Meta{TotalCount: total},
	})
}

// SalesTrendsHandler godoc
// @Summary Sales volume trend for a period
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param period query string false "week, month, 2months, or year (default month)"
// @Success 200 {object} map[string]any
// @Router /analytics/trends [get]
func SalesTrendsHandler(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = periods.Month
	}
	if period == periods.Today || period == periods.All {
		http.Error(w, "unknown period", http.StatusBadRequest)
		return
	}
	from, to, err := periods.Window(period, time.Now())
	if err != nil {
		http.Error(w, "unknown period", http.StatusBadRequest)
		return
	}

	current, err := analyticsRepo.ProfitStats(r.Context(), from, to)
	if err != nil {
		http.Error(w, "could not compute trends", http.StatusInternalServerError)
		return
	}
	prevFrom, prevTo := periods.Previous(from, to)
	previous, err := analyticsRepo.ProfitStats(r.Context(), prevFrom, prevTo)
	if err != nil {
		http.Error(w, "could not compute trends", http.StatusInternalServerError)
		return
	}

	days := to.Sub(from).Hours() / 24
	if days < 1 {
		days = 1
	}
	change := periods.PercentChange(float64(current.SalesCount), float64(previous.SalesCount))
	trend := "stable"
	if change > 10 {
		trend = "rising"
	} else if change < -10 {
		trend = "falling"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"period":          period,
		"total_sales":     current.SalesCount,
		"total_revenue":   current.Revenue,
		"average_per_day": float64(current.SalesCount) / days,
		"trend":           trend,
		"change_pct":      change,
	})
}
