// Package update меняет пароль и профиль пользователя.
package update

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
	"github.com/magabrotheeeer/moneylens/internal/services/user"
)

const msgLoginNotFound = "Логин не найден"

// Request — изменяемые поля. Отсутствующее поле или null не меняет значение.
type Request struct {
	Password any `json:"password,omitempty" swaggertype:"string"`
	Name     any `json:"name,omitempty" swaggertype:"string"`
	Email    any `json:"email,omitempty" swaggertype:"string"`
	Phone    any `json:"phone,omitempty" swaggertype:"string"`
}

// Response — логин и обновленный профиль.
type Response struct {
	response.Response
	User *models.UserView `json:"user"`
}

// Service обновляет профиль.
type Service interface {
	UpdateProfile(ctx context.Context, login string, upd user.ProfileUpdate) (*models.UserView, error)
}

// Handler обрабатывает PUT /api/users/{login}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Изменение профиля
// @Description Если пользователя нет и передан пароль, создается новая запись.
// @Tags Users
// @Accept json
// @Produce json
// @Param login path string true "Логин"
// @Param request body Request true "Поля профиля"
// @Success 200 {object} Response
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{login} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"

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

	view, err := h.service.UpdateProfile(r.Context(), userLogin, user.ProfileUpdate{
		Password: request.Text(req.Password),
		Name:     request.Text(req.Name),
		Email:    request.Text(req.Email),
		Phone:    request.Text(req.Phone),
	})
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		response.Fail(w, r, http.StatusNotFound, msgLoginNotFound)
		return
	case err != nil:
		log.Error("failed to update user", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}

	log.Info("profile updated")
	render.JSON(w, r, Response{Response: response.OK(), User: view})
}
