// Package moneylens собирает HTTP-приложение: зависимости, маршруты и сервер.
package moneylens

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	_ "github.com/magabrotheeeer/moneylens/docs"
	"github.com/magabrotheeeer/moneylens/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/moneylens/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/moneylens/internal/http/handlers/health"
	opcreate "github.com/magabrotheeeer/moneylens/internal/http/handlers/operation/create"
	oplist "github.com/magabrotheeeer/moneylens/internal/http/handlers/operation/list"
	opremove "github.com/magabrotheeeer/moneylens/internal/http/handlers/operation/remove"
	opupdate "github.com/magabrotheeeer/moneylens/internal/http/handlers/operation/update"
	stateread "github.com/magabrotheeeer/moneylens/internal/http/handlers/state/read"
	stateupdate "github.com/magabrotheeeer/moneylens/internal/http/handlers/state/update"
	userread "github.com/magabrotheeeer/moneylens/internal/http/handlers/user/read"
	userupdate "github.com/magabrotheeeer/moneylens/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/moneylens/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moneylens/internal/http/response"
	"github.com/magabrotheeeer/moneylens/internal/metrics"
	"github.com/magabrotheeeer/moneylens/internal/services/operation"
	"github.com/magabrotheeeer/moneylens/internal/services/user"
	"github.com/magabrotheeeer/moneylens/internal/storage"
)

// Deps — все, что нужно маршрутам.
type Deps struct {
	Users        *user.Service
	Operations   *operation.Service
	Repo         storage.Repository
	Metrics      *metrics.Metrics
	Limiter      *rate.Limiter
	MaxBodyBytes int64
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middlewarectx.Observe(logger, deps.Metrics),
		middlewarectx.Recoverer(logger),
		middlewarectx.CORS,
		middlewarectx.RateLimit(logger, deps.Limiter),
		middlewarectx.BodyLimit(deps.MaxBodyBytes),
	)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", register.New(logger, deps.Users).ServeHTTP)
		r.Post("/login", login.New(logger, deps.Users).ServeHTTP)

		r.Route("/users/{login}", func(r chi.Router) {
			r.Use(middlewarectx.LoginParam(logger))

			r.Get("/", userread.New(logger, deps.Users).ServeHTTP)
			r.Put("/", userupdate.New(logger, deps.Users).ServeHTTP)

			r.Get("/state", stateread.New(logger, deps.Users).ServeHTTP)
			r.Put("/state", stateupdate.New(logger, deps.Users).ServeHTTP)

			r.Get("/operations", oplist.New(logger, deps.Operations).ServeHTTP)
			r.Post("/operations", opcreate.New(logger, deps.Operations).ServeHTTP)
			r.Put("/operations/{id}", opupdate.New(logger, deps.Operations).ServeHTTP)
			r.Delete("/operations/{id}", opremove.New(logger, deps.Operations).ServeHTTP)
		})
	})

	r.Get("/healthz", health.New(logger, deps.Repo).ServeHTTP)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	// Назначаются после маршрутов, чтобы дойти до всех вложенных роутеров.
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	response.Fail(w, r, http.StatusNotFound, response.MsgNotFound)
}
