package repository

import (
	"context"
	"errors"
	"fmt"
	"stock-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type historyRepo struct {
	db *pgxpool.Pool
}

func NewHistoryRepository(db *pgxpool.Pool) HistoryRepository {
	return &historyRepo{db: db}
}

// GetByType matches the movement type exactly. An equality filter keeps an
// unexpected type value out of both lists instead of showing it in both.
func (r *historyRepo) GetByType(ctx context.Context, movementType models.MovementType) ([]models.HistoryEntry, error) {
	if !movementType.Valid() {
		return nil, fmt.Errorf("%w: movement type must be 'in' or 'out'", ErrInvalidInput)
	}

	sql := `
	SELECT
		history_id,
		product_id,
		name,
		movement_type,
		stock_quantity,
		movement_date,
		actor_name,
		created_at
	FROM history
	WHERE movement_type = $1
	ORDER BY movement_date DESC
	`

	rows, err := r.db.Query(ctx, sql, movementType)
	if err != nil {
		return nil, fmt.Errorf("failed to get history by type %s: %w", movementType, err)
	}

	defer rows.Close()

	var entries []models.HistoryEntry

	for rows.Next() {
		var e models.HistoryEntry
		var actorName *string

		err := rows.Scan(&e.HistoryID,
			&e.ProductID,
			&e.Name,
			&e.Type,
			&e.StockQuantity,
			&e.Date,
			&actorName,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entries: %w", err)
		}

		if actorName != nil {
			e.User = &models.MovementActor{FullName: *actorName}
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return entries, nil
}

// Delete reverses the entry's effect on the product before removing it, in
// one transaction. When product_id is already null or the product is gone
// the reversal is skipped: the movement's effect left with the product.
func (r *historyRepo) Delete(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var productID *uuid.UUID
	var movementType models.MovementType
	var quantity int64

	err = tx.QueryRow(ctx, `
	SELECT
		product_id,
		movement_type,
		stock_quantity
	FROM history
	WHERE history_id = $1
	`, id).Scan(&productID, &movementType, &quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get history entry %s: %w", id, err)
	}

	var reversed *uuid.UUID
	if productID != nil {
		result, err := tx.Exec(ctx,
			`UPDATE products SET stock_quantity = stock_quantity + $1 WHERE product_id = $2`,
			movementType.ReverseDelta(quantity),
			*productID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to reverse stock movement %s: %w", id, err)
		}
		// Matched-count zero means the product no longer exists; the entry
		// is deleted anyway, there is nothing left to reverse.
		if result.RowsAffected() > 0 {
			reversed = productID
		}
	}

	result, err := tx.Exec(ctx,
		`DELETE FROM history WHERE history_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete history entry %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return reversed, nil
}
