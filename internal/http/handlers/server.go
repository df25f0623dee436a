// Package handlers implements the HTTP endpoints. Dependencies are
// injected once at startup through the Set functions.
package handlers

import (
	"go.uber.org/zap"

	"github.com/texfolio/stockroom/internal/agent"
	"github.com/texfolio/stockroom/internal/agent/imagecache"
	"github.com/texfolio/stockroom/internal/agent/resolver"
	"github.com/texfolio/stockroom/internal/assets"
	"github.com/texfolio/stockroom/internal/auth"
	"github.com/texfolio/stockroom/internal/repo"
)

var (
	productRepo   repo.ProductRepository
	saleRepo      repo.SaleRepository
	movementRepo  repo.MovementRepository
	analyticsRepo repo.AnalyticsRepository

	productResolver *resolver.Resolver
	authService     *auth.Service
	assistant       *agent.Assistant
	imageCache      *imagecache.Cache
	assetStore      assets.Store

	logger            = zap.NewNop()
	lowStockThreshold = 10
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
	productResolver = resolver.New(r)
}

func SetSaleRepo(r repo.SaleRepository) {
	saleRepo = r
}

func SetMovementRepo(r repo.MovementRepository) {
	movementRepo = r
}

func SetAnalyticsRepo(r repo.AnalyticsRepository) {
	analyticsRepo = r
}

func SetAuthService(s *auth.Service) {
	authService = s
}

func SetAssistant(a *agent.Assistant) {
	assistant = a
}

func SetImageCache(c *imagecache.Cache) {
	imageCache = c
}

func SetAssetStore(s assets.Store) {
	assetStore = s
}

func SetLogger(l *zap.Logger) {
	logger = l
}

func SetLowStockThreshold(t int) {
	if t > 0 {
		lowStockThreshold = t
	}
}
