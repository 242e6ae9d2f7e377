package repository

import (
	"context"
	"errors"
	"fmt"
	"stock-service/internal/models"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productRepo struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name required", ErrInvalidInput)
	}

	sql := `
		INSERT INTO products (
			product_id,
			name,
			stock_quantity,
			image,
			date
	) VALUES ($1, $2, $3, $4, $5)
	`

	p.ProductID = uuid.New()
	p.Date = time.Now()

	_, err := r.db.Exec(ctx, sql,
		p.ProductID,
		p.Name,
		p.StockQuantity,
		p.Image,
		p.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	sql := `
		SELECT
			product_id,
			name,
			stock_quantity,
			image,
			date
		FROM products WHERE product_id = $1
		`

	var product models.Product

	err := r.db.QueryRow(ctx, sql, id).Scan(
		&product.ProductID,
		&product.Name,
		&product.StockQuantity,
		&product.Image,
		&product.Date,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by id %s: %w", id, err)
	}

	return &product, nil
}

func (r *productRepo) GetAll(ctx context.Context) ([]models.Product, error) {
	sql := `
	SELECT
		product_id,
		name,
		stock_quantity,
		image,
		date
	FROM products
	ORDER BY date DESC
`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}

	defer rows.Close()

	var products []models.Product

	for rows.Next() {
		var p models.Product

		err := rows.Scan(&p.ProductID,
			&p.Name,
			&p.StockQuantity,
			&p.Image,
			&p.Date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan products: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return products, nil
}

// UpdateStock applies the movement and appends the matching history entry in
// one transaction, so stock is never mutated without a ledger record.
func (r *productRepo) UpdateStock(ctx context.Context, m models.StockMovement) (*models.Product, *models.HistoryEntry, error) {
	if !m.Type.Valid() {
		return nil, nil, fmt.Errorf("%w: movement type must be 'in' or 'out'", ErrInvalidInput)
	}
	if m.Quantity <= 0 {
		return nil, nil, fmt.Errorf("%w: movement quantity must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(m.Name) == "" {
		return nil, nil, fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if m.Date.IsZero() {
		return nil, nil, fmt.Errorf("%w: movement date required", ErrInvalidInput)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// A movement without a resolvable actor is still recorded, just without
	// the snapshot.
	var actor *models.MovementActor
	if m.ActorEmail != "" {
		var fullName string
		err := tx.QueryRow(ctx,
			`SELECT full_name FROM users WHERE email = $1`,
			strings.ToLower(m.ActorEmail),
		).Scan(&fullName)
		switch {
		case err == nil:
			actor = &models.MovementActor{FullName: fullName}
		case errors.Is(err, pgx.ErrNoRows):
		default:
			return nil, nil, fmt.Errorf("failed to resolve movement actor: %w", err)
		}
	}

	update := `
	UPDATE products SET
		stock_quantity = stock_quantity + $1,
		date = $2
	WHERE product_id = $3
	RETURNING product_id, name, stock_quantity, image, date
	`

	var product models.Product

	err = tx.QueryRow(ctx, update,
		m.Type.Delta(m.Quantity),
		m.Date,
		m.ProductID,
	).Scan(
		&product.ProductID,
		&product.Name,
		&product.StockQuantity,
		&product.Image,
		&product.Date,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to update stock for product %s: %w", m.ProductID, err)
	}

	entry := models.HistoryEntry{
		HistoryID:     uuid.New(),
		ProductID:     &m.ProductID,
		Name:          m.Name,
		Type:          m.Type,
		StockQuantity: m.Quantity,
		Date:          m.Date,
		User:          actor,
	}

	var actorName *string
	if actor != nil {
		actorName = &actor.FullName
	}

	insert := `INSERT INTO history (
		history_id,
		product_id,
		name,
		movement_type,
		stock_quantity,
		movement_date,
		actor_name
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at
	`

	err = tx.QueryRow(ctx, insert,
		entry.HistoryID,
		entry.ProductID,
		entry.Name,
		entry.Type,
		entry.StockQuantity,
		entry.Date,
		actorName,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record stock movement: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &product, &entry, nil
}

// Delete removes the product and orphans its history entries instead of
// deleting them: product_id is nulled so the movement record survives.
func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Null the references first so the foreign key never dangles.
	_, err = tx.Exec(ctx,
		`UPDATE history SET product_id = NULL WHERE product_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to orphan history for product %s: %w", id, err)
	}

	result, err := tx.Exec(ctx,
		`DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
