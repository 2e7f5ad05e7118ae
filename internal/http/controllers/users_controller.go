// Package controllers contiene los controllers HTTP del servicio.
package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	httpx "github.com/dropDatabas3/notibox/internal/http"
	"github.com/dropDatabas3/notibox/internal/http/dto"
	"github.com/dropDatabas3/notibox/internal/observability/logger"
	"github.com/dropDatabas3/notibox/internal/service"
)

// UsersController maneja el alta y administración de cuentas.
type UsersController struct {
	users *service.UserService
}

func NewUsersController(users *service.UserService) *UsersController {
	return &UsersController{users: users}
}

// Create maneja POST /api/users
func (c *UsersController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UsersController.Create"))

	var req dto.CreateUserRequest
	if !httpx.ReadJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Email == "" {
		httpx.WriteFail(w, http.StatusBadRequest, "Username and email are required")
		return
	}

	u, err := c.users.CreateUser(ctx, req.Username, req.Email)
	if err != nil {
		var conflict *service.ConflictError
		if errors.As(err, &conflict) {
			httpx.WriteFail(w, http.StatusBadRequest, conflict.Message)
			return
		}
		log.Error("user creation failed", logger.Err(err))
		httpx.WriteFail(w, http.StatusInternalServerError,
			"An unexpected error occurred. Please try again later.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.OK("User created successfully", u))
}

// List maneja GET /api/users
func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := c.users.List(ctx)
	if err != nil {
		logger.From(ctx).Error("listing users failed",
			logger.Layer("controller"), logger.Err(err))
		httpx.WriteFail(w, http.StatusInternalServerError,
			"An unexpected error occurred. Please try again later.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.OK("", users))
}

// Delete maneja DELETE /api/users/{id}
func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httpx.WriteFail(w, http.StatusBadRequest, "User id is required")
		return
	}

	if !c.users.Delete(r.Context(), id) {
		httpx.WriteFail(w, http.StatusBadRequest, "User not found")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.OK("User deleted successfully", true))
}
