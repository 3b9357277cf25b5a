package seed

import (
	"context"
	"fmt"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// DemoProducts is the catalog used for local development.
func DemoProducts() []domain.Product {
	return []domain.Product{
		{
			Key:           "classic-sneakers",
			Name:          "Classic Sneakers",
			Description:   "Everyday canvas sneakers",
			Price:         450000,
			Category:      "shoes",
			Images:        []string{"classic-sneakers.jpg"},
			Colors:        []string{"#1a1a2e", "#e94560", "#f5f5f5"},
			RatingAverage: 4.6,
			RatingCount:   128,
			IsFeatured:    true,
		},
		{
			Key:           "leather-tote",
			Name:          "Leather Tote",
			Description:   "Full grain leather tote bag",
			Price:         1250000,
			Category:      "bags",
			Images:        []string{"leather-tote.jpg"},
			Colors:        []string{"#1a1a2e", "#8b5a2b"},
			RatingAverage: 4.8,
			RatingCount:   54,
		},
		{
			Key:           "wireless-earbuds",
			Name:          "Wireless Earbuds",
			Description:   "Noise cancelling earbuds with charging case",
			Price:         899000,
			Category:      "electronics",
			Images:        []string{"wireless-earbuds.jpg"},
			RatingAverage: 4.3,
			RatingCount:   312,
			IsFeatured:    true,
		},
		{
			Key:         "ceramic-mug",
			Name:        "Ceramic Mug",
			Description: "Stoneware mug, 350ml",
			Price:       75000,
			Category:    "home",
			Colors:      []string{"#f5f5f5"},
		},
	}
}

// Apply upserts the demo catalog. It is idempotent via the product key.
func Apply(ctx context.Context, repo ProductWriter) (int, error) {
	products := DemoProducts()
	for _, p := range products {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return 0, fmt.Errorf("upsert product %s: %w", p.Key, err)
		}
	}
	return len(products), nil
}
