package ops

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/texfolio/stockroom/internal/agent/catalog"
	"github.com/texfolio/stockroom/internal/repo"
)

func (e *Executor) recordSale(ctx context.Context, args any) catalog.Result {
	a := args.(*RecordSaleArgs)

	product, err := e.resolve.Resolve(ctx, a.ProductName)
	if err != nil {
		return failure(err)
	}

	sellPrice := product.Price
	if a.SellPrice != nil {
		sellPrice = *a.SellPrice
	}

	var soldAt time.Time
	if a.SaleDate != "" {
		soldAt, err = parseDay(a.SaleDate)
		if err != nil {
			return catalog.Fail(catalog.CodeValidation, err.Error())
		}
	}

	sale, err := e.sales.RecordSale(ctx, repo.RecordSaleParams{
		ProductID: product.ID,
		SKU:       product.SKU,
		Quantity:  *a.Quantity,
		SellPrice: sellPrice,
		SoldAt:    soldAt,
	})
	if err != nil {
		if errors.Is(err, repo.ErrInsufficientStock) {
			return catalog.Fail(catalog.CodeInsufficientStock, fmt.Sprintf(
				"cannot sell %d units of %q, only %d in stock", *a.Quantity, product.Name, product.Quantity))
		}
		return failure(err)
	}
	return catalog.OK(saleViewOf(sale))
}

func (e *Executor) deleteSale(ctx context.Context, args any) catalog.Result {
	a := args.(*DeleteSaleArgs)

	sale, err := e.sales.DeleteSale(ctx, *a.SaleID)
	if err != nil {
		return failure(err)
	}
	return catalog.OK(map[string]any{
		"deleted":           true,
		"sale":              saleViewOf(sale),
		"restored_quantity": sale.Quantity,
	})
}

func (e *Executor) salesHistory(ctx context.Context, args any) catalog.Result {
	a := args.(*SalesHistoryArgs)

	sf := repo.SaleFilter{}
	if a.ProductName != "" {
		product, err := e.resolve.Resolve(ctx, a.ProductName)
		if err != nil {
			return failure(err)
		}
		sf.ProductID = &product.ID
	}
	if a.StartDate != "" {
		since, err := parseDay(a.StartDate)
		if err != nil {
			return catalog.Fail(catalog.CodeValidation, err.Error())
		}
		sf.Since = &since
	}
	if a.EndDate != "" {
		until, err := parseDay(a.EndDate)
		if err != nil {
			return catalog.Fail(catalog.CodeValidation, err.Error())
		}
		sf.Until = &until
	}
	limit := orDefault(a.Limit, defaultHistoryLimit)
	sf.Limit = &limit

	sales, total, err := e.sales.Filter(ctx, sf)
	if err != nil {
		return failure(err)
	}
	views := make([]saleView, 0, len(sales))
	for _, s := range sales {
		views = append(views, saleViewOf(s))
	}
	return catalog.OK(map[string]any{
		"sales": views,
		"total": total,
	})
}

func (e *Executor) recentSales(ctx context.Context, args any) catalog.Result {
	a := args.(*RecentSalesArgs)

	limit := orDefault(a.Limit, defaultRecentLimit)
	sales, total, err := e.sales.Filter(ctx, repo.SaleFilter{Limit: &limit})
	if err != nil {
		return failure(err)
	}
	views := make([]saleView, 0, len(sales))
	for _, s := range sales {
		views = append(views, saleViewOf(s))
	}
	return catalog.OK(map[string]any{
		"sales": views,
		"total": total,
	})
}
