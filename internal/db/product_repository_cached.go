package db

import (
	"context"
	"fmt"
	"log"

	"github.com/prudhivi99/ecommerce-saga-go/internal/cache"
	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
	"github.com/redis/go-redis/v9"
)

// CachedProductRepository decorates the product repository with a Redis
// read-through cache. Every write path, stock debits and credits included,
// invalidates the affected keys so saga consumers and the API read the
// same stock counts.
type CachedProductRepository struct {
	repo  *ProductRepository
	cache *cache.RedisCache
}

func NewCachedProductRepository(repo *ProductRepository, cache *cache.RedisCache) *CachedProductRepository {
	return &CachedProductRepository{
		repo:  repo,
		cache: cache,
	}
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func allProductsKey() string {
	return "products:all"
}

// GetAll returns all products (with caching)
func (r *CachedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	cacheKey := allProductsKey()

	var products []models.Product
	err := r.cache.Get(ctx, cacheKey, &products)
	if err == nil {
		log.Println("📦 Cache HIT: all products")
		return products, nil
	}

	log.Println("💾 Cache MISS: all products - fetching from DB")
	products, err = r.repo.GetAll()
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey, products); err != nil {
		log.Printf("⚠️ Failed to cache products: %v", err)
	}

	return products, nil
}

// GetByID returns a single product (with caching)
func (r *CachedProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	cacheKey := productKey(id)

	var product models.Product
	err := r.cache.Get(ctx, cacheKey, &product)
	if err == nil {
		log.Printf("📦 Cache HIT: product %s", id)
		return &product, nil
	}

	if err != redis.Nil {
		log.Printf("⚠️ Cache error: %v", err)
	}

	log.Printf("💾 Cache MISS: product %s - fetching from DB", id)
	p, err := r.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey, p); err != nil {
		log.Printf("⚠️ Failed to cache product: %v", err)
	}

	return p, nil
}

// Create inserts a new product and invalidates the listing cache.
func (r *CachedProductRepository) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	product, err := r.repo.Create(req)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Delete(ctx, allProductsKey()); err != nil {
		log.Printf("⚠️ Failed to invalidate cache: %v", err)
	}

	return product, nil
}

// Delete removes a product and invalidates its caches.
func (r *CachedProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.repo.Delete(id); err != nil {
		return err
	}

	r.invalidate(ctx, id)
	return nil
}

// CheckStock reads through the cache; stale entries are bounded by the TTL
// and by write-path invalidation.
func (r *CachedProductRepository) CheckStock(ctx context.Context, productID string, quantity int) (bool, error) {
	product, err := r.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	return product.Stock >= quantity, nil
}

// DebitStock delegates to the conditional decrement and invalidates the
// product's cache entries on success.
func (r *CachedProductRepository) DebitStock(ctx context.Context, productID string, quantity int) error {
	if err := r.repo.DebitStock(productID, quantity); err != nil {
		return err
	}

	r.invalidate(ctx, productID)
	return nil
}

// CreditStock returns stock and invalidates the product's cache entries.
func (r *CachedProductRepository) CreditStock(ctx context.Context, productID string, quantity int) error {
	if err := r.repo.CreditStock(productID, quantity); err != nil {
		return err
	}

	r.invalidate(ctx, productID)
	return nil
}

func (r *CachedProductRepository) invalidate(ctx context.Context, productID string) {
	if err := r.cache.Delete(ctx, productKey(productID)); err != nil {
		log.Printf("⚠️ Failed to invalidate product cache: %v", err)
	}
	if err := r.cache.Delete(ctx, allProductsKey()); err != nil {
		log.Printf("⚠️ Failed to invalidate products cache: %v", err)
	}
}
