// Package create добавляет операцию пользователю.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

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

// Response — сохраненная операция.
type Response struct {
	response.Response
	Operation *models.Operation `json:"operation"`
}

// Service создает операции.
type Service interface {
	Create(ctx context.Context, login string, payload models.OperationPayload) (*models.Operation, error)
}

// Handler обрабатывает POST /api/users/{login}/operations.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Новая операция
// @Tags Operations
// @Accept json
// @Produce json
// @Param login path string true "Логин"
// @Param request body models.OperationPayload true "Операция"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /users/{login}/operations [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.operation.create"

	userLogin := middlewarectx.LoginFrom(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.Login(userLogin),
	)

	var payload models.OperationPayload
	if err := request.Decode(r, &payload); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		request.Fail(w, r, err)
		return
	}

	created, err := h.service.Create(r.Context(), userLogin, payload)
	var verr *operation.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Info("invalid operation", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, verr.Error())
		return
	case errors.Is(err, storage.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, response.MsgUserNotFound)
		return
	case errors.Is(err, operation.ErrOperationExists):
		response.Fail(w, r, http.StatusConflict, operation.ErrOperationExists.Error())
		return
	case err != nil:
		log.Error("failed to create operation", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}

	render.JSON(w, r, Response{Response: response.OK(), Operation: created})
}
