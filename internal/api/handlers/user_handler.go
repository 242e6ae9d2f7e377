package handlers

import (
	"errors"
	"net/http"
	"stock-service/internal/models"
	"stock-service/internal/repository"

	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	repo repository.UserRepository
	log  *logrus.Logger
}

func NewUserHandler(repo repository.UserRepository, log *logrus.Logger) *UserHandler {
	return &UserHandler{repo: repo, log: log}
}

type CreateUserRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *models.User `json:"user"`
}

// Create handles POST /create-user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "fullName, email and password are required")
		return
	}

	u := models.User{
		FullName: req.FullName,
		Email:    req.Email,
	}

	if err := h.repo.Create(r.Context(), &u, req.Password); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			writeError(w, http.StatusConflict, "email already exists")
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.WithError(err).Error("failed to create user")
			writeError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		Success: true,
		Message: "user created",
		User:    &u,
	})
}

// Login handles POST /user. Wrong email and wrong password are
// indistinguishable to the caller.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.repo.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "invalid credentials")
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.WithError(err).Error("failed to authenticate user")
			writeError(w, http.StatusInternalServerError, "failed to authenticate user")
		}
		return
	}

	writeJSON(w, http.StatusOK, userResponse{Success: true, User: user})
}
