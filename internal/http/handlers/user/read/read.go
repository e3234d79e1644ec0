// Package read отдает публичные данные пользователя.
package read

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
	"github.com/magabrotheeeer/moneylens/internal/services/user"
)

// Response — логин и профиль.
type Response struct {
	response.Response
	User *models.UserView `json:"user"`
}

// Service читает пользователя.
type Service interface {
	Get(ctx context.Context, login string) (*models.UserView, error)
}

// Handler обрабатывает GET /api/users/{login}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Tags Users
// @Produce json
// @Param login path string true "Логин"
// @Success 200 {object} Response
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{login} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.read"

	userLogin := middlewarectx.LoginFrom(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.Login(userLogin),
	)

	view, err := h.service.Get(r.Context(), userLogin)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		response.Fail(w, r, http.StatusNotFound, response.MsgUserNotFound)
		return
	case err != nil:
		log.Error("failed to read user", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}

	render.JSON(w, r, Response{Response: response.OK(), User: view})
}
