// Package list отдает операции пользователя.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/moneylens/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moneylens/internal/http/response"
	"github.com/magabrotheeeer/moneylens/internal/lib/sl"
	"github.com/magabrotheeeer/moneylens/internal/models"
	"github.com/magabrotheeeer/moneylens/internal/storage"
)

// Response — список операций в порядке добавления.
type Response struct {
	response.Response
	Operations []models.Operation `json:"operations"`
}

// Service читает операции.
type Service interface {
	List(ctx context.Context, login string) ([]models.Operation, error)
}

// Handler обрабатывает GET /api/users/{login}/operations.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список операций
// @Tags Operations
// @Produce json
// @Param login path string true "Логин"
// @Success 200 {object} Response
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{login}/operations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.operation.list"

	userLogin := middlewarectx.LoginFrom(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.Login(userLogin),
	)

	ops, err := h.service.List(r.Context(), userLogin)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, response.MsgUserNotFound)
		return
	case err != nil:
		log.Error("failed to list operations", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}
	if ops == nil {
		ops = []models.Operation{}
	}

	render.JSON(w, r, Response{Response: response.OK(), Operations: ops})
}
