package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/moneylens/internal/http/response"
	"github.com/magabrotheeeer/moneylens/internal/lib/login"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Login — ключ нормализованного логина в контексте.
const Login Key = "login"

// WithLogin кладет логин в контекст.
func WithLogin(ctx context.Context, userLogin string) context.Context {
	return context.WithValue(ctx, Login, userLogin)
}

// LoginFrom достает нормализованный логин из контекста.
func LoginFrom(ctx context.Context) string {
	v, _ := ctx.Value(Login).(string)
	return v
}

// LoginParam нормализует параметр пути {login} и кладет результат в контекст.
// Некорректный логин получает 400.
func LoginParam(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, "login")
			userLogin, err := login.Normalize(raw)
			if err != nil {
				log.Info("invalid login in path",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("login", raw),
				)
				response.Fail(w, r, http.StatusBadRequest, response.MsgInvalidLogin)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithLogin(r.Context(), userLogin)))
		})
	}
}
