package repository

import (
	"context"
	"errors"
	"fmt"
	"stock-service/internal/models"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type userRepo struct {
	db *pgxpool.Pool
}

var validate = validator.New()

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepo{db: db}
}

const defaultRole = "user"

func (r *userRepo) Create(ctx context.Context, u *models.User, password string) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	if err := validate.Struct(u); err != nil {
		var validationErr validator.ValidationErrors
		if errors.As(err, &validationErr) {
			firstErr := validationErr[0]
			switch firstErr.Field() {
			case "Email":
				return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
			case "FullName":
				return fmt.Errorf("%w: full_name must be 2-150 characters", ErrInvalidInput)
			}
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if password == "" {
		return fmt.Errorf("%w: password required", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	if u.Role == "" {
		u.Role = defaultRole
	}

	sql := `
		INSERT INTO users (
			user_id,
			full_name,
			email,
			password_hash,
			role,
			created_at
	) VALUES ($1, $2, $3, $4, $5, $6)
	`

	u.UserID = uuid.New()
	u.CreatedAt = time.Now()

	_, err = r.db.Exec(ctx, sql,
		u.UserID,
		u.FullName,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: email already exists", ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", ErrInvalidInput)
	}

	sql := `
		SELECT
			user_id,
			full_name,
			email,
			password_hash,
			role,
			created_at
		FROM users WHERE email = $1
	`

	var user models.User

	err := r.db.QueryRow(ctx, sql, email).Scan(
		&user.UserID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// Authenticate reports a credential mismatch the same way as a missing user,
// so the endpoint does not reveal which of the two it was.
func (r *userRepo) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrNotFound
	}

	user.PasswordHash = ""
	return user, nil
}
