package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"stock-service/internal/models"
	"stock-service/internal/repository"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockHistoryRepo struct {
	entries   []models.HistoryEntry
	listErr   error
	deleteErr error

	lastDeleted *uuid.UUID
	reversed    *uuid.UUID
}

func (m *mockHistoryRepo) GetByType(_ context.Context, movementType models.MovementType) ([]models.HistoryEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.HistoryEntry
	for _, e := range m.entries {
		if e.Type == movementType {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockHistoryRepo) Delete(_ context.Context, id uuid.UUID) (*uuid.UUID, error) {
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	m.lastDeleted = &id
	return m.reversed, nil
}

func newHistoryRouter(repo repository.HistoryRepository) http.Handler {
	h := NewHistoryHandler(repo, newTestLogger())

	r := chi.NewRouter()
	r.Get("/histories", h.GetAll)
	r.Delete("/history/delete/{id}", h.Delete)
	return r
}

func TestHistoryGetAll(t *testing.T) {
	t.Run("splits movements by direction", func(t *testing.T) {
		productID := uuid.New()
		repo := &mockHistoryRepo{
			entries: []models.HistoryEntry{
				{HistoryID: uuid.New(), ProductID: &productID, Name: "Widget", Type: models.MovementIn, StockQuantity: 5, Date: time.Now()},
				{HistoryID: uuid.New(), ProductID: &productID, Name: "Widget", Type: models.MovementOut, StockQuantity: 2, Date: time.Now()},
				{HistoryID: uuid.New(), ProductID: nil, Name: "Gadget", Type: models.MovementIn, StockQuantity: 1, Date: time.Now()},
			},
		}
		router := newHistoryRouter(repo)

		req := httptest.NewRequest(http.MethodGet, "/histories", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp historyListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Success)
		assert.Len(t, resp.StockIn, 2)
		assert.Len(t, resp.StockOut, 1)
		assert.Equal(t, models.MovementOut, resp.StockOut[0].Type)
		// Orphaned entries keep a null productId.
		assert.Nil(t, resp.StockIn[1].ProductID)
	})

	t.Run("empty ledger renders empty arrays", func(t *testing.T) {
		router := newHistoryRouter(&mockHistoryRepo{})

		req := httptest.NewRequest(http.MethodGet, "/histories", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"stockIn":[]`)
		assert.Contains(t, rec.Body.String(), `"stockOut":[]`)
	})
}

func TestHistoryDelete(t *testing.T) {
	historyID := uuid.New()

	t.Run("success", func(t *testing.T) {
		repo := &mockHistoryRepo{}
		router := newHistoryRouter(repo)

		req := httptest.NewRequest(http.MethodDelete, "/history/delete/"+historyID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, repo.lastDeleted)
		assert.Equal(t, historyID, *repo.lastDeleted)

		var resp messageResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Success)
	})

	t.Run("not found", func(t *testing.T) {
		router := newHistoryRouter(&mockHistoryRepo{deleteErr: repository.ErrNotFound})

		req := httptest.NewRequest(http.MethodDelete, "/history/delete/"+historyID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		router := newHistoryRouter(&mockHistoryRepo{})

		req := httptest.NewRequest(http.MethodDelete, "/history/delete/oops", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
