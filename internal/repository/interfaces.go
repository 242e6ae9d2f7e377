package repository

import (
	"context"
	"stock-service/internal/models"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateStock applies a movement to the product and records it in the
	// history ledger, both inside one transaction.
	UpdateStock(ctx context.Context, movement models.StockMovement) (*models.Product, *models.HistoryEntry, error)
}

type HistoryRepository interface {
	GetByType(ctx context.Context, movementType models.MovementType) ([]models.HistoryEntry, error)

	// Delete reverses the entry's effect on its product (when the product
	// still exists) and removes the entry, both inside one transaction.
	// It returns the id of the product whose stock was reversed, or nil
	// when the entry was already orphaned.
	Delete(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User, password string) error
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
