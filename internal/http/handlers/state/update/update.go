// Package update заменяет цели, бюджеты и счета пользователя.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/moneylens/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moneylens/internal/http/request"
	"github.com/magabrotheeeer/moneylens/internal/http/response"
	"github.com/magabrotheeeer/moneylens/internal/lib/sl"
	"github.com/magabrotheeeer/moneylens/internal/services/user"
)

// Request — новые значения. Поле применяется, только если это массив.
type Request struct {
	Goals    json.RawMessage `json:"goals,omitempty" swaggertype:"array,object"`
	Budgets  json.RawMessage `json:"budgets,omitempty" swaggertype:"array,object"`
	Accounts json.RawMessage `json:"accounts,omitempty" swaggertype:"array,string"`
}

// Service обновляет состояние.
type Service interface {
	UpdateState(ctx context.Context, login string, upd user.StateUpdate) error
}

// Handler обрабатывает PUT /api/users/{login}/state.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Изменение состояния
// @Tags State
// @Accept json
// @Produce json
// @Param login path string true "Логин"
// @Param request body Request true "Цели, бюджеты, счета"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{login}/state [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.state.update"

	userLogin := middlewarectx.LoginFrom(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.Login(userLogin),
	)

	var req Request
	if err := request.Decode(r, &req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		request.Fail(w, r, err)
		return
	}

	err := h.service.UpdateState(r.Context(), userLogin, user.StateUpdate{
		Goals:    req.Goals,
		Budgets:  req.Budgets,
		Accounts: req.Accounts,
	})
	switch {
	case errors.Is(err, user.ErrInvalidAccounts):
		response.Fail(w, r, http.StatusBadRequest, user.ErrInvalidAccounts.Error())
		return
	case errors.Is(err, user.ErrUserNotFound):
		response.Fail(w, r, http.StatusNotFound, response.MsgUserNotFound)
		return
	case err != nil:
		log.Error("failed to update state", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}

	log.Info("state updated")
	render.JSON(w, r, response.OK())
}
