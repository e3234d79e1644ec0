// Package login реализует HTTP-обработчик входа пользователя.
//
// Пароль сверяется с сохраненным значением, токены не выдаются: клиент
// дальше обращается к ресурсам пользователя по логину.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/moneylens/internal/http/request"
	"github.com/magabrotheeeer/moneylens/internal/http/response"
	"github.com/magabrotheeeer/moneylens/internal/lib/sl"
	"github.com/magabrotheeeer/moneylens/internal/models"
	"github.com/magabrotheeeer/moneylens/internal/services/user"
)

// Сообщения для клиента на русском, их показывает интерфейс.
const (
	msgLoginNotFound = "Логин не найден"
	msgWrongPassword = "Неправильный пароль"
)

// Request — учетные данные.
type Request struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Response — данные вошедшего пользователя.
type Response struct {
	response.Response
	User *models.UserView `json:"user"`
}

// Service описывает вход пользователя.
type Service interface {
	Login(ctx context.Context, login, password string) (*models.UserView, error)
}

// Handler обрабатывает POST /api/login.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает обработчик входа.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Учетные данные"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := request.Decode(r, &req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		request.Fail(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Fail(w, r, http.StatusBadRequest, user.ErrMissingCredentials.Error())
		return
	}

	view, err := h.service.Login(r.Context(), req.Login, req.Password)
	switch {
	case errors.Is(err, user.ErrMissingCredentials):
		response.Fail(w, r, http.StatusBadRequest, user.ErrMissingCredentials.Error())
		return
	case errors.Is(err, user.ErrUserNotFound):
		log.Info("login not found")
		response.Fail(w, r, http.StatusNotFound, msgLoginNotFound)
		return
	case errors.Is(err, user.ErrWrongPassword):
		log.Info("wrong password", sl.Login(req.Login))
		response.Fail(w, r, http.StatusUnauthorized, msgWrongPassword)
		return
	case err != nil:
		log.Error("failed to login", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}

	log.Info("login success", sl.Login(view.Login))
	render.JSON(w, r, Response{Response: response.OK(), User: view})
}
