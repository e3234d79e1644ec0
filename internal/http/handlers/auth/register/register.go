// Package register реализует HTTP-обработчик регистрации пользователя.
package register

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
	"github.com/magabrotheeeer/moneylens/internal/services/user"
)

// Request — тело запроса регистрации.
type Request struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     any    `json:"name,omitempty" swaggertype:"string"`
	Email    any    `json:"email,omitempty" swaggertype:"string"`
	Phone    any    `json:"phone,omitempty" swaggertype:"string"`
}

// Response — ответ с нормализованным логином.
type Response struct {
	response.Response
	Login string `json:"login" example:"john.doe"`
}

// Service описывает регистрацию пользователя.
type Service interface {
	Register(ctx context.Context, in user.RegisterInput) (string, error)
}

// Handler обрабатывает POST /api/register.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает обработчик регистрации.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Логин, пароль и профиль"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Info("validation failed", slog.String("detail", response.ValidationError(verrs).Error))
		}
		response.Fail(w, r, http.StatusBadRequest, user.ErrMissingCredentials.Error())
		return
	}

	userLogin, err := h.service.Register(r.Context(), user.RegisterInput{
		Login:    req.Login,
		Password: req.Password,
		Name:     text(req.Name),
		Email:    text(req.Email),
		Phone:    text(req.Phone),
	})
	switch {
	case errors.Is(err, user.ErrMissingCredentials):
		response.Fail(w, r, http.StatusBadRequest, user.ErrMissingCredentials.Error())
		return
	case errors.Is(err, user.ErrUserExists):
		log.Info("user already exists")
		response.Fail(w, r, http.StatusConflict, "user already exists")
		return
	case err != nil:
		log.Error("failed to register user", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}

	log.Info("user registered", sl.Login(userLogin))
	render.JSON(w, r, Response{Response: response.OK(), Login: userLogin})
}

// text приводит необязательное поле профиля к строке, отсутствующее дает "".
func text(v any) string {
	if s := request.Text(v); s != nil {
		return *s
	}
	return ""
}
