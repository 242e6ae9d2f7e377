package models

import (
	"time"

	"github.com/google/uuid"
)

// MovementType is the direction of a stock movement.
type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

// Delta returns the signed change a movement of this type applies to a
// product's stock. quantity is the stored magnitude, always positive.
func (t MovementType) Delta(quantity int64) int64 {
	if t == MovementOut {
		return -quantity
	}
	return quantity
}

// ReverseDelta returns the change that undoes a movement of this type,
// used when a history entry is deleted.
func (t MovementType) ReverseDelta(quantity int64) int64 {
	return -t.Delta(quantity)
}

type Product struct {
	ProductID     uuid.UUID `json:"id"`
	Name          string    `json:"name" validate:"required,min=1,max=255"`
	StockQuantity int64     `json:"stockQuantity"`
	Image         *string   `json:"image,omitempty"`
	Date          time.Time `json:"date"`
}

// MovementActor is the denormalized snapshot of the user who performed a
// movement, taken at write time.
type MovementActor struct {
	FullName string `json:"fullName"`
}

type HistoryEntry struct {
	HistoryID uuid.UUID `json:"id"`
	// ProductID is nil once the referenced product has been deleted; the
	// entry itself survives for auditability.
	ProductID     *uuid.UUID     `json:"productId"`
	Name          string         `json:"name"`
	Type          MovementType   `json:"type"`
	StockQuantity int64          `json:"stockQuantity"`
	Date          time.Time      `json:"date"`
	User          *MovementActor `json:"user,omitempty"`
	CreatedAt     time.Time      `json:"-"`
}

type User struct {
	UserID       uuid.UUID `json:"id"`
	FullName     string    `json:"fullName" validate:"required,min=2,max=150"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// StockMovement carries the validated inputs of a stock update into the
// repository layer.
type StockMovement struct {
	ProductID  uuid.UUID
	Type       MovementType
	Quantity   int64
	Date       time.Time
	Name       string
	ActorEmail string
}
