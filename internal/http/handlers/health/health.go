package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/moneylens/internal/http/response"
	"github.com/magabrotheeeer/moneylens/internal/lib/sl"
)

type Response struct {
	response.Response
	Users int `json:"users" example:"3"`
}

type Lister interface {
	Logins(ctx context.Context) ([]string, error)
}

type Handler struct {
	log    *slog.Logger
	lister Lister
}

func New(log *slog.Logger, lister Lister) *Handler {
	return &Handler{
		log:    log,
		lister: lister,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	logins, err := h.lister.Logins(r.Context())
	if err != nil {
		h.log.Error("data directory is not readable", slog.String("op", op), sl.Err(err))
		response.Fail(w, r, http.StatusServiceUnavailable, "data directory is not readable")
		return
	}
	render.JSON(w, r, Response{Response: response.OK(), Users: len(logins)})
}
