package handlers

import (
	"errors"
	"net/http"
	"stock-service/internal/models"
	"stock-service/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type HistoryHandler struct {
	repo repository.HistoryRepository
	log  *logrus.Logger
}

func NewHistoryHandler(repo repository.HistoryRepository, log *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{repo: repo, log: log}
}

type historyListResponse struct {
	Success  bool                  `json:"success"`
	StockIn  []models.HistoryEntry `json:"stockIn"`
	StockOut []models.HistoryEntry `json:"stockOut"`
}

// GetAll handles GET /histories: both movement directions, each newest first.
func (h *HistoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	stockIn, err := h.repo.GetByType(r.Context(), models.MovementIn)
	if err != nil {
		h.log.WithError(err).Error("failed to get stock-in history")
		writeError(w, http.StatusInternalServerError, "failed to get histories")
		return
	}

	stockOut, err := h.repo.GetByType(r.Context(), models.MovementOut)
	if err != nil {
		h.log.WithError(err).Error("failed to get stock-out history")
		writeError(w, http.StatusInternalServerError, "failed to get histories")
		return
	}

	if stockIn == nil {
		stockIn = []models.HistoryEntry{}
	}
	if stockOut == nil {
		stockOut = []models.HistoryEntry{}
	}

	writeJSON(w, http.StatusOK, historyListResponse{
		Success:  true,
		StockIn:  stockIn,
		StockOut: stockOut,
	})
}

// Delete handles DELETE /history/delete/{id}.
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid history id")
		return
	}

	if _, err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "history entry not found")
			return
		}
		h.log.WithError(err).Error("failed to delete history entry")
		writeError(w, http.StatusInternalServerError, "failed to delete history entry")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "history entry deleted"})
}
