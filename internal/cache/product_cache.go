package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"stock-service/internal/models"
	"stock-service/internal/repository"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	keyAllProducts = "products:all"
	notFoundMarker = "notfound"
)

// CachedProductRepository decorates a ProductRepository with a redis read
// cache. Every redis failure degrades to the database; a cold or broken
// cache never fails a request.
type CachedProductRepository struct {
	realRepo repository.ProductRepository
	redis    *redis.Client
	ttl      time.Duration
	log      *logrus.Logger
}

func NewCachedProductRepository(realRepo repository.ProductRepository, redis *redis.Client, log *logrus.Logger) *CachedProductRepository {
	return &CachedProductRepository{
		realRepo: realRepo,
		redis:    redis,
		ttl:      5 * time.Minute,
		log:      log,
	}
}

func productKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id)
}

func (c *CachedProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	key := productKey(id)

	data, err := c.redis.Get(ctx, key).Bytes()

	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, repository.ErrNotFound
		}

		var product models.Product
		if err := json.Unmarshal(data, &product); err != nil {
			c.log.WithError(err).Warn("failed to unmarshal cached product, continuing with DB")
			break
		}

		return &product, nil

	case errors.Is(err, redis.Nil):

	default:
		c.log.WithError(err).Warn("redis error, continuing with DB")
	}

	product, err := c.realRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if setErr := c.redis.Set(ctx, key, notFoundMarker, 1*time.Minute).Err(); setErr != nil {
				c.log.WithError(setErr).Warn("failed to cache notfound marker")
			}
		}
		return nil, err
	}

	jsonData, err := json.Marshal(product)
	if err != nil {
		c.log.WithError(err).Warn("failed to marshal product for cache")
		return product, nil
	}

	if err := c.redis.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("failed to cache product")
	}

	return product, nil
}

func (c *CachedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	data, err := c.redis.Get(ctx, keyAllProducts).Bytes()

	if err == nil {
		var products []models.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
		c.log.Warn("failed to unmarshal cached product list, continuing with DB")
	} else if !errors.Is(err, redis.Nil) {
		c.log.WithError(err).Warn("redis error, continuing with DB")
	}

	products, err := c.realRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(products)
	if err != nil {
		c.log.WithError(err).Warn("failed to marshal product list for cache")
	} else if err := c.redis.Set(ctx, keyAllProducts, jsonData, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("failed to cache product list")
	}

	return products, nil
}

func (c *CachedProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := c.realRepo.Create(ctx, product); err != nil {
		return err
	}

	c.invalidate(ctx, product.ProductID)
	return nil
}

func (c *CachedProductRepository) UpdateStock(ctx context.Context, movement models.StockMovement) (*models.Product, *models.HistoryEntry, error) {
	product, entry, err := c.realRepo.UpdateStock(ctx, movement)
	if err != nil {
		return nil, nil, err
	}

	c.invalidate(ctx, movement.ProductID)
	return product, entry, nil
}

func (c *CachedProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.realRepo.Delete(ctx, id); err != nil {
		return err
	}

	c.invalidate(ctx, id)
	return nil
}

func (c *CachedProductRepository) invalidate(ctx context.Context, productID uuid.UUID) {
	if err := c.redis.Del(ctx, productKey(productID), keyAllProducts).Err(); err != nil {
		c.log.WithError(err).Warn("failed to invalidate product cache")
	}
}
