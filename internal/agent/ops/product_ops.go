package ops

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/texfolio/stockroom/internal/agent/catalog"
	"github.com/texfolio/stockroom/internal/agent/imagecache"
	"github.com/texfolio/stockroom/internal/models"
	"github.com/texfolio/stockroom/internal/repo"
	"github.com/texfolio/stockroom/internal/skugen"
)

func (e *Executor) addProduct(ctx context.Context, args any) catalog.Result {
	a := args.(*AddProductArgs)

	product := models.Product{
		Name:          a.Name,
		SKU:           a.SKU,
		Category:      a.Type,
		Quantity:      *a.Quantity,
		Price:         *a.Price,
		Cost:          a.Cost,
		CostBreakdown: a.CostBreakdown,
		Description:   a.Description,
		Caption:       a.Caption,
	}

	// An image uploaded just before this turn rides in on a single-use
	// token; spend it now so a retry cannot attach it twice.
	if token := imagecache.TokenFrom(ctx); token != "" && e.images != nil {
		entry, ok, err := e.images.Consume(ctx, token)
		switch {
		case err != nil:
			e.logger.Warn("image context lookup failed", zap.Error(err))
		case !ok:
			e.logger.Info("image context token expired or already spent")
		default:
			product.Images = append(product.Images, models.ImageRef{
				AssetID:     entry.AssetID,
				StorageKey:  entry.StorageKey,
				Bucket:      entry.Bucket,
				URL:         entry.URL,
				Filename:    entry.Filename,
				ContentType: entry.ContentType,
				Size:        entry.Size,
				Caption:     entry.Caption,
			})
			if product.Caption == "" && entry.Caption != "" {
				product.Caption = entry.Caption
			}
		}
	}

	created, err := e.createWithSKU(ctx, product)
	if err != nil {
		return failure(err)
	}
	return catalog.OK(viewOf(created))
}

// createWithSKU fills in a derived SKU when none was given, retrying a
// handful of shifted suffixes on collision. An operator-supplied SKU is
// never rewritten; its collision surfaces as a duplicate-key failure.
func (e *Executor) createWithSKU(ctx context.Context, product models.Product) (models.Product, error) {
	if product.SKU != "" {
		return e.products.Create(ctx, product)
	}

	seed := e.now().UnixNano()
	var lastErr error
	for attempt := 0; attempt < skuRetryAttempts; attempt++ {
		product.SKU = skugen.Derive(product.Name, seed, attempt)
		created, err := e.products.Create(ctx, product)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, repo.ErrDuplicateSKU) {
			return models.Product{}, err
		}
		lastErr = err
	}
	return models.Product{}, fmt.Errorf("deriving unique sku for %q: %w", product.Name, lastErr)
}

func (e *Executor) getProduct(ctx context.Context, args any) catalog.Result {
	a := args.(*ProductIdentifierArgs)

	product, err := e.resolve.Resolve(ctx, a.ProductIdentifier)
	if err != nil {
		return failure(err)
	}
	return catalog.OK(viewOf(product))
}

func (e *Executor) searchProducts(ctx context.Context, args any) catalog.Result {
	a := args.(*SearchProductsArgs)

	pf := repo.ProductFilter{Search: a.SearchTerm, Category: a.Type}
	if a.LowStock {
		threshold := e.lowStockThreshold
		pf.LowStockBelow = &threshold
	}
	products, total, err := e.products.Filter(ctx, pf)
	if err != nil {
		return failure(err)
	}
	return catalog.OK(map[string]any{
		"products": viewsOf(products),
		"total":    total,
	})
}

func (e *Executor) listProducts(ctx context.Context, args any) catalog.Result {
	a := args.(*ListProductsArgs)

	pf := repo.ProductFilter{}
	if a.Type != "" && a.Type != "all" {
		pf.Category = a.Type
	}
	if a.LowStock {
		threshold := e.lowStockThreshold
		pf.LowStockBelow = &threshold
	}
	products, total, err := e.products.Filter(ctx, pf)
	if err != nil {
		return failure(err)
	}
	return catalog.OK(map[string]any{
		"products": viewsOf(products),
		"total":    total,
	})
}

func (e *Executor) updateProduct(ctx context.Context, args any) catalog.Result {
	a := args.(*UpdateProductArgs)

	product, err := e.resolve.Resolve(ctx, a.ProductIdentifier)
	if err != nil {
		return failure(err)
	}

	if a.Name != nil {
		product.Name = *a.Name
	}
	if a.SKU != nil {
		product.SKU = *a.SKU
	}
	if a.Type != nil {
		product.Category = *a.Type
	}
	if a.Quantity != nil {
		product.Quantity = *a.Quantity
	}
	if a.Price != nil {
		product.Price = *a.Price
	}
	if a.Cost != nil {
		product.Cost = *a.Cost
	}
	if a.CostBreakdown != nil {
		product.CostBreakdown = *a.CostBreakdown
	}
	if a.Description != nil {
		product.Description = *a.Description
	}
	if a.Caption != nil {
		product.Caption = *a.Caption
	}

	updated, err := e.products.Update(ctx, product)
	if err != nil {
		return failure(err)
	}
	return catalog.OK(viewOf(updated))
}

func (e *Executor) updateInventory(ctx context.Context, args any) catalog.Result {
	a := args.(*UpdateInventoryArgs)

	if a.QuantityChange == nil && a.NewQuantity == nil {
		return catalog.Fail(catalog.CodeValidation,
			"either quantity_change or new_quantity must be given")
	}

	product, err := e.resolve.Resolve(ctx, a.ProductName)
	if err != nil {
		return failure(err)
	}

	// An absolute quantity wins when both are supplied.
	delta := 0
	if a.QuantityChange != nil {
		delta = *a.QuantityChange
	}
	if a.NewQuantity != nil {
		delta = *a.NewQuantity - product.Quantity
	}

	updated, err := e.products.AdjustQuantity(ctx, product.ID, delta)
	if err != nil {
		if errors.Is(err, repo.ErrInsufficientStock) {
			return catalog.Fail(catalog.CodeInsufficientStock, fmt.Sprintf(
				"cannot remove %d units of %q, only %d in stock", -delta, product.Name, product.Quantity))
		}
		return failure(err)
	}

	if e.movements != nil && delta != 0 {
		if err := e.movements.Log(ctx, updated.ID, delta, models.MovementAdjustment); err != nil {
			e.logger.Warn("recording stock movement failed",
				zap.Int("product_id", updated.ID), zap.Error(err))
		}
	}
	return catalog.OK(viewOf(updated))
}

func (e *Executor) deleteProduct(ctx context.Context, args any) catalog.Result {
	a := args.(*ProductIdentifierArgs)

	product, err := e.resolve.Resolve(ctx, a.ProductIdentifier)
	if err != nil {
		return failure(err)
	}
	if err := e.products.Delete(ctx, product.ID); err != nil {
		return failure(err)
	}
	return catalog.OK(map[string]any{
		"deleted": true,
		"id":      product.ID,
		"name":    product.Name,
		"sku":     product.SKU,
	})
}

func (e *Executor) lowStockAlerts(ctx context.Context, args any) catalog.Result {
	a := args.(*LowStockAlertsArgs)

	threshold := e.lowStockThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	pf := repo.ProductFilter{LowStockBelow: &threshold}
	products, total, err := e.products.Filter(ctx, pf)
	if err != nil {
		return failure(err)
	}
	return catalog.OK(map[string]any{
		"threshold": threshold,
		"products":  viewsOf(products),
		"total":     total,
	})
}
