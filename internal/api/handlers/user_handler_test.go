package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"stock-service/internal/models"
	"stock-service/internal/repository"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct {
	users map[string]models.User

	createErr error
	authErr   error
}

func (m *mockUserRepo) Create(_ context.Context, u *models.User, password string) error {
	if m.createErr != nil {
		return m.createErr
	}
	u.Email = strings.ToLower(u.Email)
	if m.users == nil {
		m.users = make(map[string]models.User)
	}
	if _, exists := m.users[u.Email]; exists {
		return repository.ErrDuplicate
	}
	u.UserID = uuid.New()
	u.Role = "user"
	u.CreatedAt = time.Now()
	m.users[u.Email] = *u
	return nil
}

func (m *mockUserRepo) Authenticate(_ context.Context, email, _ string) (*models.User, error) {
	if m.authErr != nil {
		return nil, m.authErr
	}
	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.PasswordHash = ""
	return &u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func newUserRouter(repo repository.UserRepository) http.Handler {
	h := NewUserHandler(repo, newTestLogger())

	r := chi.NewRouter()
	r.Post("/create-user", h.Create)
	r.Post("/user", h.Login)
	return r
}

func TestUserCreate(t *testing.T) {
	t.Run("success lowercases email and defaults role", func(t *testing.T) {
		repo := &mockUserRepo{}
		router := newUserRouter(repo)

		body := `{"fullName":"Ada Lovelace","email":"Ada@Example.COM","password":"secret"}`
		req := httptest.NewRequest(http.MethodPost, "/create-user", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp userResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "ada@example.com", resp.User.Email)
		assert.Equal(t, "user", resp.User.Role)
	})

	t.Run("duplicate email maps to 409 regardless of case", func(t *testing.T) {
		repo := &mockUserRepo{}
		router := newUserRouter(repo)

		first := `{"fullName":"Ada Lovelace","email":"ada@example.com","password":"secret"}`
		req := httptest.NewRequest(http.MethodPost, "/create-user", strings.NewReader(first))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		second := `{"fullName":"Ada L","email":"ADA@example.com","password":"other"}`
		req = httptest.NewRequest(http.MethodPost, "/create-user", strings.NewReader(second))
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		router := newUserRouter(&mockUserRepo{})

		req := httptest.NewRequest(http.MethodPost, "/create-user", strings.NewReader(`{"email":"ada@example.com"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserLogin(t *testing.T) {
	seed := func() *mockUserRepo {
		repo := &mockUserRepo{}
		_ = repo.Create(context.Background(), &models.User{
			FullName: "Ada Lovelace",
			Email:    "ada@example.com",
		}, "secret")
		return repo
	}

	t.Run("success never echoes credentials", func(t *testing.T) {
		router := newUserRouter(seed())

		body := `{"email":"ada@example.com","password":"secret"}`
		req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp userResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Ada Lovelace", resp.User.FullName)
		assert.NotContains(t, rec.Body.String(), "password")
		assert.NotContains(t, rec.Body.String(), "secret")
	})

	t.Run("unknown user maps to 404", func(t *testing.T) {
		router := newUserRouter(seed())

		body := `{"email":"nobody@example.com","password":"secret"}`
		req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("credential mismatch maps to 404", func(t *testing.T) {
		router := newUserRouter(&mockUserRepo{authErr: repository.ErrNotFound})

		body := `{"email":"ada@example.com","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		router := newUserRouter(&mockUserRepo{})

		req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
