package cache

import (
	"context"
	"stock-service/internal/models"
	"stock-service/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// CachedHistoryRepository keeps the product cache honest: deleting a history
// entry reverses product stock behind the product repository's back, so the
// affected product keys are invalidated here.
type CachedHistoryRepository struct {
	realRepo repository.HistoryRepository
	redis    *redis.Client
	log      *logrus.Logger
}

func NewCachedHistoryRepository(realRepo repository.HistoryRepository, redis *redis.Client, log *logrus.Logger) *CachedHistoryRepository {
	return &CachedHistoryRepository{
		realRepo: realRepo,
		redis:    redis,
		log:      log,
	}
}

func (c *CachedHistoryRepository) GetByType(ctx context.Context, movementType models.MovementType) ([]models.HistoryEntry, error) {
	return c.realRepo.GetByType(ctx, movementType)
}

func (c *CachedHistoryRepository) Delete(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	reversed, err := c.realRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	keys := []string{keyAllProducts}
	if reversed != nil {
		keys = append(keys, productKey(*reversed))
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.log.WithError(err).Warn("failed to invalidate product cache")
	}

	return reversed, nil
}
