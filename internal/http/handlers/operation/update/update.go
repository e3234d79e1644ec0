// Package update заменяет поля существующей операции.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/moneylens/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moneylens/internal/http/request"
	"github.com/magabrotheeeer/moneylens/internal/http/response"
	"github.com/magabrotheeeer/moneylens/internal/lib/sl"
	"github.com/magabrotheeeer/moneylens/internal/models"
	"github.com/magabrotheeeer/moneylens/internal/services/operation"
	"github.com/magabrotheeeer/moneylens/internal/storage"
)

// Response — операция после изменения.
type Response struct {
	response.Response
	Operation *models.Operation `json:"operation"`
}

// Service изменяет операции.
type Service interface {
	Update(ctx context.Context, login, id string, payload models.OperationPayload) (*models.Operation, error)
}

// Handler обрабатывает PUT /api/users/{login}/operations/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Изменение операции
// @Description id и createdAt сохраняются, updatedAt обновляется.
// @Tags Operations
// @Accept json
// @Produce json
// @Param login path string true "Логин"
// @Param id path string true "Идентификатор операции"
// @Param request body models.OperationPayload true "Операция"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{login}/operations/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.operation.update"

	userLogin := middlewarectx.LoginFrom(r.Context())
	id := chi.URLParam(r, "id")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.Login(userLogin),
		slog.String("id", id),
	)

	var payload models.OperationPayload
	if err := request.Decode(r, &payload); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		request.Fail(w, r, err)
		return
	}

	updated, err := h.service.Update(r.Context(), userLogin, id, payload)
	var verr *operation.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Info("invalid operation", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, verr.Error())
		return
	case errors.Is(err, storage.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, response.MsgUserNotFound)
		return
	case errors.Is(err, operation.ErrOperationNotFound):
		response.Fail(w, r, http.StatusNotFound, operation.ErrOperationNotFound.Error())
		return
	case err != nil:
		log.Error("failed to update operation", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}

	render.JSON(w, r, Response{Response: response.OK(), Operation: updated})
}
