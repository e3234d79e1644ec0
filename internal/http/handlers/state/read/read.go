// Package read отдает цели, бюджеты и счета пользователя.
package read

import (
	"context"
	"encoding/json"
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

// Response — состояние пользователя.
type Response struct {
	response.Response
	Goals    []json.RawMessage `json:"goals" swaggertype:"array,object"`
	Budgets  []json.RawMessage `json:"budgets" swaggertype:"array,object"`
	Accounts []string          `json:"accounts"`
}

// Service читает состояние.
type Service interface {
	GetState(ctx context.Context, login string) (*models.State, error)
}

// Handler обрабатывает GET /api/users/{login}/state.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Состояние пользователя
// @Tags State
// @Produce json
// @Param login path string true "Логин"
// @Success 200 {object} Response
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{login}/state [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.state.read"

	userLogin := middlewarectx.LoginFrom(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.Login(userLogin),
	)

	state, err := h.service.GetState(r.Context(), userLogin)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		response.Fail(w, r, http.StatusNotFound, response.MsgUserNotFound)
		return
	case err != nil:
		log.Error("failed to read state", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}

	render.JSON(w, r, Response{
		Response: response.OK(),
		Goals:    state.Goals,
		Budgets:  state.Budgets,
		Accounts: state.Accounts,
	})
}
