// Package remove удаляет операцию пользователя.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/moneylens/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moneylens/internal/http/response"
	"github.com/magabrotheeeer/moneylens/internal/lib/sl"
	"github.com/magabrotheeeer/moneylens/internal/services/operation"
	"github.com/magabrotheeeer/moneylens/internal/storage"
)

// Service удаляет операции.
type Service interface {
	Delete(ctx context.Context, login, id string) error
}

// Handler обрабатывает DELETE /api/users/{login}/operations/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление операции
// @Tags Operations
// @Produce json
// @Param login path string true "Логин"
// @Param id path string true "Идентификатор операции"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{login}/operations/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.operation.remove"

	userLogin := middlewarectx.LoginFrom(r.Context())
	id := chi.URLParam(r, "id")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.Login(userLogin),
		slog.String("id", id),
	)

	err := h.service.Delete(r.Context(), userLogin, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, response.MsgUserNotFound)
		return
	case errors.Is(err, operation.ErrOperationNotFound):
		response.Fail(w, r, http.StatusNotFound, operation.ErrOperationNotFound.Error())
		return
	case err != nil:
		log.Error("failed to delete operation", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}

	render.JSON(w, r, response.OK())
}
