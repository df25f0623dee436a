package ops

import (
	"github.com/texfolio/stockroom/internal/agent/catalog"
)

func object(props map[string]catalog.Field, required ...string) catalog.Contract {
	return catalog.Contract{Type: "object", Properties: props, Required: required}
}

var categoryEnum = []string{"bed-covers", "cushion-covers", "sarees", "towels"}
var periodEnum = []string{"today", "week", "month", "2months", "year", "all"}

var costBreakdownField = catalog.Field{
	Type:        "array",
	Description: "Itemized cost components, e.g. Material, Embroidery, End Stitching",
	Items: &catalog.Field{
		Type: "object",
	},
}

// Catalog builds the fixed operation registry over this executor. The
// set never changes at runtime; the reasoning service picks from it and
// nothing else.
func (e *Executor) Catalog() (*catalog.Registry, error) {
	return catalog.NewRegistry(
		catalog.Operation{
			Name:        "add_product",
			Description: "Add a new product to the inventory. Use when the user wants to add, create, or insert a new product.",
			Contract: object(map[string]catalog.Field{
				"name":           {Type: "string", Description: "The name of the product"},
				"type":           {Type: "string", Description: "Product category", Enum: categoryEnum},
				"quantity":       {Type: "integer", Description: "The quantity to add", Minimum: catalog.Min(0)},
				"price":          {Type: "number", Description: "The selling price per unit", Minimum: catalog.Min(0)},
				"sku":            {Type: "string", Description: "SKU code; auto-generated when omitted"},
				"cost":           {Type: "number", Description: "Total cost price per unit", Minimum: catalog.Min(0)},
				"cost_breakdown": costBreakdownField,
				"description":    {Type: "string", Description: "Product description, max 500 chars"},
				"caption":        {Type: "string", Description: "Short caption or tagline, max 200 chars"},
			}, "name", "type", "quantity", "price"),
			Decode: catalog.DecodeInto[AddProductArgs](),
			Handle: e.addProduct,
		},
		catalog.Operation{
			Name:        "update_product",
			Description: "Update an existing product's details like name, SKU, price, cost, description, caption, or cost breakdown.",
			Contract: object(map[string]catalog.Field{
				"product_identifier": {Type: "string", Description: "Product name, SKU, or id to update"},
				"name":               {Type: "string", Description: "New product name"},
				"sku":                {Type: "string", Description: "New SKU"},
				"type":               {Type: "string", Description: "New product category", Enum: categoryEnum},
				"quantity":           {Type: "integer", Description: "New quantity", Minimum: catalog.Min(0)},
				"price":              {Type: "number", Description: "New price", Minimum: catalog.Min(0)},
				"cost":               {Type: "number", Description: "New cost", Minimum: catalog.Min(0)},
				"cost_breakdown":     costBreakdownField,
				"description":        {Type: "string", Description: "New description"},
				"caption":            {Type: "string", Description: "New caption"},
			}, "product_identifier"),
			Decode: catalog.DecodeInto[UpdateProductArgs](),
			Handle: e.updateProduct,
		},
		catalog.Operation{
			Name:        "update_inventory",
			Description: "Change the stock level of an existing product, either by a relative amount or to an absolute quantity.",
			Contract: object(map[string]catalog.Field{
				"product_name":    {Type: "string", Description: "Name, SKU, or id of the product"},
				"quantity_change": {Type: "integer", Description: "Relative change, positive to add and negative to remove"},
				"new_quantity":    {Type: "integer", Description: "Absolute quantity to set instead", Minimum: catalog.Min(0)},
			}, "product_name"),
			Decode: catalog.DecodeInto[UpdateInventoryArgs](),
			Handle: e.updateInventory,
		},
		catalog.Operation{
			Name:        "search_products",
			Description: "Search products by name, description, or SKU, optionally filtered by category or low stock.",
			Contract: object(map[string]catalog.Field{
				"search_term": {Type: "string", Description: "Term matched against name, description, and SKU"},
				"type":        {Type: "string", Description: "Filter by category", Enum: categoryEnum},
				"low_stock":   {Type: "boolean", Description: "Only products below the low-stock threshold"},
			}),
			Decode: catalog.DecodeInto[SearchProductsArgs](),
			Handle: e.searchProducts,
		},
		catalog.Operation{
			Name:        "list_products",
			Description: "List products, optionally one category or only low-stock items.",
			Contract: object(map[string]catalog.Field{
				"type":      {Type: "string", Description: "Category filter, or all", Enum: append(append([]string{}, categoryEnum...), "all")},
				"low_stock": {Type: "boolean", Description: "Only products below the low-stock threshold"},
			}),
			Decode: catalog.DecodeInto[ListProductsArgs](),
			Handle: e.listProducts,
		},
		catalog.Operation{
			Name:        "get_product",
			Description: "Get detailed information about one product by name, SKU, or id.",
			Contract: object(map[string]catalog.Field{
				"product_identifier": {Type: "string", Description: "Product name, SKU, or id"},
			}, "product_identifier"),
			Decode: catalog.DecodeInto[ProductIdentifierArgs](),
			Handle: e.getProduct,
		},
		catalog.Operation{
			Name:        "delete_product",
			Description: "Delete a product from the inventory permanently.",
			Contract: object(map[string]catalog.Field{
				"product_identifier": {Type: "string", Description: "Product name, SKU, or id to delete"},
			}, "product_identifier"),
			Decode: catalog.DecodeInto[ProductIdentifierArgs](),
			Handle: e.deleteProduct,
		},
		catalog.Operation{
			Name:        "record_sale",
			Description: "Record a sale of a product. Reduces the product's stock automatically.",
			Contract: object(map[string]catalog.Field{
				"product_name": {Type: "string", Description: "Name, SKU, or id of the product sold"},
				"quantity":     {Type: "integer", Description: "Units sold", Minimum: catalog.Min(1)},
				"sell_price":   {Type: "number", Description: "Actual sale price per unit; defaults to the list price", Minimum: catalog.Min(0)},
				"sale_date":    {Type: "string", Description: "Backdate the sale, RFC 3339 or YYYY-MM-DD"},
			}, "product_name", "quantity"),
			Decode: catalog.DecodeInto[RecordSaleArgs](),
			Handle: e.recordSale,
		},
		catalog.Operation{
			Name:        "delete_sale",
			Description: "Delete a recorded sale and restore its quantity to the product's stock.",
			Contract: object(map[string]catalog.Field{
				"sale_id": {Type: "integer", Description: "Id of the sale to delete", Minimum: catalog.Min(1)},
			}, "sale_id"),
			Decode: catalog.DecodeInto[DeleteSaleArgs](),
			Handle: e.deleteSale,
		},
		catalog.Operation{
			Name:        "get_sales_history",
			Description: "Get sales history, optionally filtered by product and date range.",
			Contract: object(map[string]catalog.Field{
				"product_name": {Type: "string", Description: "Filter by product name, SKU, or id"},
				"start_date":   {Type: "string", Description: "Range start, RFC 3339 or YYYY-MM-DD"},
				"end_date":     {Type: "string", Description: "Range end, RFC 3339 or YYYY-MM-DD"},
				"limit":        {Type: "integer", Description: "Maximum sales to return, default 10", Minimum: catalog.Min(1)},
			}),
			Decode: catalog.DecodeInto[SalesHistoryArgs](),
			Handle: e.salesHistory,
		},
		catalog.Operation{
			Name:        "get_recent_sales",
			Description: "Get the most recent sales.",
			Contract: object(map[string]catalog.Field{
				"limit": {Type: "integer", Description: "Number of sales, default 5", Minimum: catalog.Min(1)},
			}),
			Decode: catalog.DecodeInto[RecentSalesArgs](),
			Handle: e.recentSales,
		},
		catalog.Operation{
			Name:        "get_inventory_summary",
			Description: "Get the whole-inventory summary: totals, stock value, low-stock count, and per-category breakdown.",
			Contract:    object(map[string]catalog.Field{}),
			Decode:      catalog.DecodeInto[InventorySummaryArgs](),
			Handle:      e.inventorySummary,
		},
		catalog.Operation{
			Name:        "view_analytics",
			Description: "Get sales analytics for a period: revenue, profit, sales count, and margin, compared against the previous period.",
			Contract: object(map[string]catalog.Field{
				"period": {Type: "string", Description: "Time period", Enum: periodEnum},
			}, "period"),
			Decode: catalog.DecodeInto[PeriodArgs](),
			Handle: e.profitStats,
		},
		catalog.Operation{
			Name:        "get_profit_stats",
			Description: "Get detailed profit statistics for a period, default month.",
			Contract: object(map[string]catalog.Field{
				"period": {Type: "string", Description: "Time period, default month", Enum: periodEnum},
			}),
			Decode: catalog.DecodeInto[PeriodArgs](),
			Handle: e.profitStats,
		},
		catalog.Operation{
			Name:        "get_monthly_profits",
			Description: "Get the monthly profit series for the last N months, default 6.",
			Contract: object(map[string]catalog.Field{
				"months": {Type: "integer", Description: "Number of months", Minimum: catalog.Min(1)},
			}),
			Decode: catalog.DecodeInto[MonthlyProfitsArgs](),
			Handle: e.monthlyProfits,
		},
		catalog.Operation{
			Name:        "get_top_products",
			Description: "Get top-selling products ranked by revenue, quantity sold, or profit.",
			Contract: object(map[string]catalog.Field{
				"period":  {Type: "string", Description: "Time period, default month", Enum: periodEnum},
				"sort_by": {Type: "string", Description: "Ranking, default revenue", Enum: []string{"revenue", "quantity", "profit"}},
				"limit":   {Type: "integer", Description: "Number of products, default 5", Minimum: catalog.Min(1)},
			}),
			Decode: catalog.DecodeInto[TopProductsArgs](),
			Handle: e.topProducts,
		},
		catalog.Operation{
			Name:        "get_low_stock_alerts",
			Description: "Get products that are low on stock or out of stock.",
			Contract: object(map[string]catalog.Field{
				"threshold": {Type: "integer", Description: "Stock threshold, default from configuration", Minimum: catalog.Min(0)},
			}),
			Decode: catalog.DecodeInto[LowStockAlertsArgs](),
			Handle: e.lowStockAlerts,
		},
		catalog.Operation{
			Name:        "get_sales_trends",
			Description: "Get sales volume trends for a period compared against the previous one.",
			Contract: object(map[string]catalog.Field{
				"period": {Type: "string", Description: "Trend period, default month", Enum: []string{"week", "month", "2months", "year"}},
			}),
			Decode: catalog.DecodeInto[SalesTrendsArgs](),
			Handle: e.salesTrends,
		},
	)
}
