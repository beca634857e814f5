package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storekit/storefront/internal/domain"
)

const (
	keyProducts   = "catalog:products"
	keyCategories = "catalog:categories"
)

// CachedProvider is a read-through Redis cache in front of the catalog
// client. Cache failures degrade to a direct upstream fetch; the cache
// is an accelerator, never a source of truth.
type CachedProvider struct {
	next   Provider
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedProvider(next Provider, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedProvider {
	return &CachedProvider{next: next, client: client, ttl: ttl, logger: logger}
}

func (p *CachedProvider) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if p.lookup(ctx, keyProducts, &products) {
		return products, nil
	}

	products, err := p.next.Products(ctx)
	if err != nil {
		return nil, err
	}
	p.fill(ctx, keyProducts, products)
	return products, nil
}

func (p *CachedProvider) Product(ctx context.Context, id int) (domain.Product, error) {
	key := "catalog:product:" + strconv.Itoa(id)

	var product domain.Product
	if p.lookup(ctx, key, &product) {
		return product, nil
	}

	product, err := p.next.Product(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	p.fill(ctx, key, product)
	return product, nil
}

func (p *CachedProvider) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if p.lookup(ctx, keyCategories, &categories) {
		return categories, nil
	}

	categories, err := p.next.Categories(ctx)
	if err != nil {
		return nil, err
	}
	p.fill(ctx, keyCategories, categories)
	return categories, nil
}

func (p *CachedProvider) ProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	key := "catalog:category:" + category

	var products []domain.Product
	if p.lookup(ctx, key, &products) {
		return products, nil
	}

	products, err := p.next.ProductsByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	p.fill(ctx, key, products)
	return products, nil
}

// lookup reports whether the key was found and decoded. Errors other
// than a miss are logged and treated as a miss.
func (p *CachedProvider) lookup(ctx context.Context, key string, out any) bool {
	data, err := p.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			p.logger.WarnContext(ctx, "catalog cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		p.logger.WarnContext(ctx, "catalog cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (p *CachedProvider) fill(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := p.client.Set(ctx, key, data, p.ttl).Err(); err != nil {
		p.logger.WarnContext(ctx, "catalog cache write failed", "key", key, "error", err)
	}
}
