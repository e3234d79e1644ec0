// Package operation содержит бизнес-логику финансовых операций пользователя:
// проверку тела запроса и изменение списка операций внутри записи пользователя.
package operation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/moneylens/internal/events"
	"github.com/magabrotheeeer/moneylens/internal/lib/opid"
	"github.com/magabrotheeeer/moneylens/internal/lib/sl"
	"github.com/magabrotheeeer/moneylens/internal/metrics"
	"github.com/magabrotheeeer/moneylens/internal/models"
	"github.com/magabrotheeeer/moneylens/internal/storage"
)

var (
	// ErrOperationNotFound — операции с таким id у пользователя нет.
	ErrOperationNotFound = errors.New("operation not found")
	// ErrOperationExists — клиент прислал id, который уже занят.
	ErrOperationExists = errors.New("operation already exists")
)

// Service реализует создание, изменение, удаление и чтение операций.
type Service struct {
	repo      storage.Repository
	publisher events.Publisher
	recorder  metrics.OperationRecorder
	log       *slog.Logger
	now       func() time.Time
	newID     func(time.Time) string
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator подменяет генератор идентификаторов.
func WithIDGenerator(gen func(time.Time) string) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService создает сервис операций.
func NewService(repo storage.Repository, publisher events.Publisher, recorder metrics.OperationRecorder, log *slog.Logger, opts ...Option) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if recorder == nil {
		recorder = metrics.Discard{}
	}
	s := &Service{
		repo:      repo,
		publisher: publisher,
		recorder:  recorder,
		log:       log,
		now:       time.Now,
		newID:     opid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List возвращает операции пользователя в порядке добавления.
func (s *Service) List(ctx context.Context, login string) ([]models.Operation, error) {
	const op = "services.operation.List"
	user, err := s.repo.Load(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user.Operations, nil
}

// Create проверяет тело запроса и добавляет операцию в конец списка.
func (s *Service) Create(ctx context.Context, login string, payload models.OperationPayload) (*models.Operation, error) {
	const op = "services.operation.Create"
	now := s.now()

	parsed, err := Validate(payload, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	unlock := s.repo.Lock(login)
	defer unlock()

	user, err := s.repo.Load(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id := strings.TrimSpace(stringValue(payload.ID, true))
	if id == "" {
		id = s.newID(now)
	} else if user.FindOperation(id) >= 0 {
		return nil, fmt.Errorf("%s: %s: %w", op, id, ErrOperationExists)
	}

	stamp := FormatTime(now)
	parsed.ID = id
	parsed.CreatedAt = stamp
	parsed.UpdatedAt = stamp

	user.Operations = append(user.Operations, parsed)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("operation created", sl.Login(login), slog.String("id", id), slog.String("type", parsed.Type))
	s.recorder.RecordOperation("create", parsed.Type)
	s.publish(ctx, events.Event{Type: events.OperationCreated, Login: login, OperationID: id, Operation: &parsed, At: now})
	return &parsed, nil
}

// Update заменяет поля операции проверенными значениями.
// id, createdAt и неизвестные поля сохраняются, updatedAt обновляется.
func (s *Service) Update(ctx context.Context, login, id string, payload models.OperationPayload) (*models.Operation, error) {
	const op = "services.operation.Update"
	now := s.now()

	parsed, err := Validate(payload, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	unlock := s.repo.Lock(login)
	defer unlock()

	user, err := s.repo.Load(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	idx := user.FindOperation(id)
	if idx < 0 {
		return nil, fmt.Errorf("%s: %s: %w", op, id, ErrOperationNotFound)
	}

	parsed.ID = id
	parsed.CreatedAt = user.Operations[idx].CreatedAt
	parsed.Extra = user.Operations[idx].Extra
	parsed.UpdatedAt = FormatTime(now)
	user.Operations[idx] = parsed

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("operation updated", sl.Login(login), slog.String("id", id))
	s.recorder.RecordOperation("update", parsed.Type)
	s.publish(ctx, events.Event{Type: events.OperationUpdated, Login: login, OperationID: id, Operation: &parsed, At: now})
	return &parsed, nil
}

// Delete удаляет операцию по id. Если операции нет, список не меняется.
func (s *Service) Delete(ctx context.Context, login, id string) error {
	const op = "services.operation.Delete"

	unlock := s.repo.Lock(login)
	defer unlock()

	user, err := s.repo.Load(ctx, login)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	idx := user.FindOperation(id)
	if idx < 0 {
		return fmt.Errorf("%s: %s: %w", op, id, ErrOperationNotFound)
	}
	removed := user.Operations[idx]

	next := make([]models.Operation, 0, len(user.Operations)-1)
	for _, o := range user.Operations {
		if o.ID != id {
			next = append(next, o)
		}
	}
	user.Operations = next

	if err := s.repo.Save(ctx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("operation deleted", sl.Login(login), slog.String("id", id))
	s.recorder.RecordOperation("delete", removed.Type)
	s.publish(ctx, events.Event{Type: events.OperationDeleted, Login: login, OperationID: id, At: s.now()})
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("event", event.Type), sl.Login(event.Login), sl.Err(err))
	}
}
