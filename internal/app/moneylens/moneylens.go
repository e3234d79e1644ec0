package moneylens

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/moneylens/internal/cache"
	"github.com/magabrotheeeer/moneylens/internal/config"
	"github.com/magabrotheeeer/moneylens/internal/events"
	"github.com/magabrotheeeer/moneylens/internal/lib/password"
	"github.com/magabrotheeeer/moneylens/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/moneylens/internal/lib/sl"
	"github.com/magabrotheeeer/moneylens/internal/metrics"
	"github.com/magabrotheeeer/moneylens/internal/services/operation"
	"github.com/magabrotheeeer/moneylens/internal/services/user"
	"github.com/magabrotheeeer/moneylens/internal/storage"
	"github.com/magabrotheeeer/moneylens/internal/storage/cachedstore"
	"github.com/magabrotheeeer/moneylens/internal/storage/filestore"
)

const (
	rabbitRetries = 5
	rabbitDelay   = 2 * time.Second
)

type App struct {
	server  *http.Server
	logger  *slog.Logger
	cache   *cache.Cache
	amqp    *amqp.Connection
	channel *amqp.Channel
}

// New собирает приложение. Redis и RabbitMQ необязательны: если они не
// настроены или недоступны, приложение работает только с файлами.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.moneylens.New"

	files, err := filestore.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("user records directory", slog.String("dir", files.Dir()))

	app := &App{logger: logger}

	var repo storage.Repository = files
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			logger.Warn("redis is unavailable, cache disabled", sl.Err(err))
		} else {
			app.cache = redisCache
			repo = cachedstore.New(files, redisCache, cfg.TTL, logger)
		}
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.URL != "" {
		conn, err := rabbitmq.Connect(cfg.URL, rabbitRetries, rabbitDelay)
		if err != nil {
			logger.Warn("rabbitmq is unavailable, events disabled", sl.Err(err))
		} else if ch, err := rabbitmq.SetupExchange(conn, cfg.Exchange); err != nil {
			logger.Warn("failed to declare exchange, events disabled", sl.Err(err))
			_ = conn.Close()
		} else {
			app.amqp, app.channel = conn, ch
			publisher = events.NewRabbitPublisher(ch, cfg.Exchange)
		}
	}

	m := metrics.New()

	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Users:        user.NewService(repo, password.NewHasher(cfg.HashPasswords), publisher, logger),
		Operations:   operation.NewService(repo, publisher, m, logger),
		Repo:         repo,
		Metrics:      m,
		Limiter:      limiter,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})

	app.server = &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// Handler возвращает корневой обработчик.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.channel != nil {
		_ = a.channel.Close()
	}
	if a.amqp != nil {
		_ = a.amqp.Close()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
}
