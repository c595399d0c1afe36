package orders

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// BestSellers ranks delivered products by units sold per unit of price. The
// ranking is cached until the TTL lapses or another order is delivered.
func (s *service) BestSellers(ctx context.Context) ([]BestSeller, error) {
	var cached []BestSeller
	hit, err := s.cache.Load(ctx, bestSellersCacheKey, &cached)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "best sellers cache read failed")
	} else if hit {
		return cached, nil
	}

	ranked, err, _ := s.rankings.Do(bestSellersCacheKey, func() (any, error) {
		return s.rankBestSellers(ctx)
	})
	if err != nil {
		return nil, err
	}
	return ranked.([]BestSeller), nil
}

func (s *service) rankBestSellers(ctx context.Context) ([]BestSeller, error) {
	rows, err := s.repo.BestSellers(ctx, bestSellersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate best sellers")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	products, err := s.repo.FindProducts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load best seller products")
	}
	byID := make(map[uuid.UUID]ProductView, len(products))
	for _, p := range products {
		byID[p.ID] = toProductView(p)
	}

	ranked := make([]BestSeller, 0, len(rows))
	for _, row := range rows {
		product, ok := byID[row.ProductID]
		if !ok || !row.Price.IsPositive() {
			continue
		}
		price, _ := row.Price.Float64()
		ranked = append(ranked, BestSeller{
			ProductID:      row.ProductID,
			TotalSold:      row.TotalSold,
			Score:          float64(row.TotalSold) / price,
			ProductDetails: product,
		})
	}

	if err := s.cache.Store(ctx, bestSellersCacheKey, ranked); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "best sellers cache write failed")
	}
	return ranked, nil
}

func (s *service) invalidateBestSellers(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, bestSellersCacheKey); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "best sellers cache invalidation failed")
	}
}
