package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"stock-service/internal/models"
	"stock-service/internal/repository"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ProductHandler struct {
	repo repository.ProductRepository
	log  *logrus.Logger
}

func NewProductHandler(repo repository.ProductRepository, log *logrus.Logger) *ProductHandler {
	return &ProductHandler{repo: repo, log: log}
}

type ProductAddRequest struct {
	Name string `json:"name" validate:"required"`
	// Raw so that a malformed value coerces to 0 instead of failing the
	// whole request.
	StockQuantity json.RawMessage `json:"stockQuantity"`
	Image         *string         `json:"image"`
}

// coerceQuantity turns whatever the client sent into an integer, falling
// back to 0 for anything unusable.
func coerceQuantity(raw json.RawMessage) int64 {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int64(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return v
		}
	}
	return 0
}

type StockUpdateRequest struct {
	Type          string      `json:"type" validate:"required"`
	StockQuantity json.Number `json:"stockQuantity" validate:"required"`
	Date          string      `json:"date" validate:"required"`
	Name          string      `json:"name" validate:"required"`
	UserEmail     string      `json:"userEmail" validate:"omitempty,email"`
}

type productResponse struct {
	Success bool            `json:"success"`
	Product *models.Product `json:"product"`
}

type productListResponse struct {
	Success  bool             `json:"success"`
	Products []models.Product `json:"products"`
}

type stockUpdateResponse struct {
	Success bool                 `json:"success"`
	Product *models.Product      `json:"product"`
	History *models.HistoryEntry `json:"history"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Add handles POST /product/add. A missing or malformed stockQuantity is
// coerced to 0 rather than rejected.
func (h *ProductHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req ProductAddRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	p := models.Product{
		Name:          req.Name,
		StockQuantity: coerceQuantity(req.StockQuantity),
		Image:         req.Image,
	}

	if err := h.repo.Create(r.Context(), &p); err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.WithError(err).Error("failed to create product")
		writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	writeJSON(w, http.StatusOK, productResponse{Success: true, Product: &p})
}

// GetByID handles GET /product/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.log.WithError(err).Error("failed to get product")
		writeError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	writeJSON(w, http.StatusOK, productResponse{Success: true, Product: product})
}

// GetAll handles GET /products, newest first.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.GetAll(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to get products")
		writeError(w, http.StatusInternalServerError, "failed to get products")
		return
	}

	if products == nil {
		products = []models.Product{}
	}

	writeJSON(w, http.StatusOK, productListResponse{Success: true, Products: products})
}

// UpdateStock handles PATCH /product/update/{id}.
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req StockUpdateRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "type, stockQuantity, date and name are required")
		return
	}

	movementType := models.MovementType(req.Type)
	if !movementType.Valid() {
		writeError(w, http.StatusBadRequest, "type must be 'in' or 'out'")
		return
	}

	quantity, err := req.StockQuantity.Int64()
	if err != nil || quantity <= 0 {
		writeError(w, http.StatusBadRequest, "stockQuantity must be a positive integer")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	product, entry, err := h.repo.UpdateStock(r.Context(), models.StockMovement{
		ProductID:  id,
		Type:       movementType,
		Quantity:   quantity,
		Date:       date,
		Name:       req.Name,
		ActorEmail: req.UserEmail,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.WithError(err).Error("failed to update stock")
			writeError(w, http.StatusInternalServerError, "failed to update stock")
		}
		return
	}

	writeJSON(w, http.StatusOK, stockUpdateResponse{Success: true, Product: product, History: entry})
}

// Delete handles DELETE /product/delete/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.log.WithError(err).Error("failed to delete product")
		writeError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "product deleted"})
}

// Movement dates are accepted as RFC3339, a timezone-less datetime
// (2006-01-02T15:04:05) or a plain date (2006-01-02).
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(value string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
