package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

// Service turns catalog products into cart line items.
type Service struct {
	catalog productCatalog
	logger  *zap.Logger
}

type productCatalog interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
}

func New(catalog productCatalog, logger *zap.Logger) *Service {
	return &Service{catalog: catalog, logger: logging.OrNop(logger).Named("cart_service")}
}

type AddInput struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Color     *string `json:"color,omitempty"`
}

// Summary is what clients render: lines plus both aggregates.
type Summary struct {
	Items   []domain.LineItem `json:"items"`
	Count   int               `json:"count"`
	Total   int64             `json:"total"`
	Version uint64            `json:"version"`
}

// AddProduct looks the product up and adds it to store. Name, price and
// image come from the catalog. The summary is the snapshot taken with the
// add itself.
func (s *Service) AddProduct(ctx context.Context, store *cart.Store, in AddInput) (Summary, error) {
	id := strings.TrimSpace(in.ProductID)
	if id == "" {
		return Summary{}, fmt.Errorf("%w: productId required", domain.ErrInvalidItem)
	}
	if in.Quantity < 1 || in.Quantity > cart.MaxQuantity {
		return Summary{}, fmt.Errorf("%w: quantity must be between 1 and %d", domain.ErrInvalidItem, cart.MaxQuantity)
	}

	product, err := s.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Summary{}, fmt.Errorf("%w: product %s not found", domain.ErrInvalidItem, id)
		}
		return Summary{}, err
	}

	var color *string
	if in.Color != nil {
		c := strings.TrimSpace(*in.Color)
		if !product.OffersColor(c) {
			return Summary{}, fmt.Errorf("%w: color %q not offered for product %s", domain.ErrInvalidItem, c, id)
		}
		color = &c
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	snap, err := store.Add(domain.LineItem{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Image:    image,
		Quantity: in.Quantity,
		Color:    color,
	})
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", domain.ErrInvalidItem, err)
	}
	s.logger.Debug("added", zap.String("product_id", product.ID), zap.Int("quantity", in.Quantity))
	return SummaryOf(snap), nil
}

func (s *Service) Remove(store *cart.Store, productID string) Summary {
	return SummaryOf(store.Remove(productID))
}

func (s *Service) Clear(store *cart.Store) Summary {
	return SummaryOf(store.Clear())
}

func (s *Service) Summary(store *cart.Store) Summary {
	return SummaryOf(store.Snapshot())
}

func SummaryOf(snap cart.Snapshot) Summary {
	items := snap.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return Summary{Items: items, Count: snap.Count, Total: snap.Total, Version: snap.Version}
}
