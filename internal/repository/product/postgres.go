package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger).Named("product_repo")}
}

const selectColumns = `id::text, key, name, COALESCE(description, ''), price, category, images, colors, rating_average, rating_count, is_featured, created_at`

func scanProduct(row pgx.Row, p *domain.Product) error {
	return row.Scan(&p.ID, &p.Key, &p.Name, &p.Description, &p.Price, &p.Category, &p.Images, &p.Colors, &p.RatingAverage, &p.RatingCount, &p.IsFeatured, &p.CreatedAt)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + selectColumns + ` FROM products ORDER BY is_featured DESC, created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("list rows", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("list", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	// ids are uuids; anything else cannot exist and would fail the cast
	if _, err := uuid.Parse(id); err != nil {
		r.logger.Debug("get malformed id", zap.String("id", id))
		return nil, domain.ErrNotFound
	}
	q := `SELECT ` + selectColumns + ` FROM products WHERE id = $1`
	var p domain.Product
	if err := scanProduct(r.pool.QueryRow(ctx, q, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("get not found", zap.String("id", id))
			return nil, domain.ErrNotFound
		}
		r.logger.Error("get", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("get", zap.String("id", id), zap.String("key", p.Key))
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, key, name, description, price, category, images, colors, rating_average, rating_count, is_featured)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (key) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    category = EXCLUDED.category,
    images = EXCLUDED.images,
    colors = EXCLUDED.colors,
    rating_average = EXCLUDED.rating_average,
    rating_count = EXCLUDED.rating_count,
    is_featured = EXCLUDED.is_featured
RETURNING id::text, created_at
`
	images := product.Images
	if images == nil {
		images = []string{}
	}
	colors := product.Colors
	if colors == nil {
		colors = []string{}
	}
	res := product
	err := r.pool.QueryRow(ctx, q,
		product.ID,
		product.Key,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		images,
		colors,
		product.RatingAverage,
		product.RatingCount,
		product.IsFeatured,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Error("upsert", zap.String("key", product.Key), zap.Error(err))
		return nil, err
	}
	if product.ID != "" && res.ID != product.ID {
		return nil, fmt.Errorf("product repo: id mismatch for key=%s existing_id=%s import_id=%s", product.Key, res.ID, product.ID)
	}
	res.Images = images
	res.Colors = colors
	r.logger.Debug("upserted", zap.String("key", res.Key), zap.String("id", res.ID))
	return &res, nil
}
