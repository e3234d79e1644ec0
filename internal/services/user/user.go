// Package user содержит бизнес-логику учетных записей: регистрацию, вход,
// профиль и агрегированное состояние (цели, бюджеты, счета).
package user

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/moneylens/internal/events"
	"github.com/magabrotheeeer/moneylens/internal/lib/login"
	"github.com/magabrotheeeer/moneylens/internal/lib/password"
	"github.com/magabrotheeeer/moneylens/internal/lib/sl"
	"github.com/magabrotheeeer/moneylens/internal/models"
	"github.com/magabrotheeeer/moneylens/internal/storage"
)

var (
	ErrMissingCredentials = errors.New("login and password are required")
	ErrUserExists         = storage.ErrExists
	ErrUserNotFound       = storage.ErrNotFound
	ErrWrongPassword      = errors.New("wrong password")
	ErrInvalidAccounts    = errors.New("accounts must be a list of strings")
)

// RegisterInput — данные для регистрации.
type RegisterInput struct {
	Login    string
	Password string
	Name     string
	Email    string
	Phone    string
}

// ProfileUpdate — изменение профиля. nil означает "оставить как есть".
type ProfileUpdate struct {
	Password *string
	Name     *string
	Email    *string
	Phone    *string
}

// StateUpdate — новое состояние. Поле применяется, только если это JSON-массив.
type StateUpdate struct {
	Goals    json.RawMessage
	Budgets  json.RawMessage
	Accounts json.RawMessage
}

// Service работает с записями пользователей через хранилище.
type Service struct {
	repo      storage.Repository
	hasher    *password.Hasher
	publisher events.Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewService создает сервис пользователей. hasher может быть nil, тогда
// пароли сохраняются без изменений.
func NewService(repo storage.Repository, hasher *password.Hasher, publisher events.Publisher, log *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		repo:      repo,
		hasher:    hasher,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Register создает нового пользователя и возвращает его нормализованный логин.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	const op = "services.user.Register"

	userLogin, pass, err := credentials(in.Login, in.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	stored, err := s.hasher.Store(pass)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	user := models.NewUser(userLogin, stored, models.Profile{
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
	})
	if err := s.repo.Create(ctx, user); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user registered", sl.Login(userLogin))
	s.publish(ctx, events.Event{Type: events.UserRegistered, Login: userLogin, At: s.now()})
	return userLogin, nil
}

// Login проверяет пароль и возвращает публичные данные пользователя.
func (s *Service) Login(ctx context.Context, rawLogin, rawPassword string) (*models.UserView, error) {
	const op = "services.user.Login"

	userLogin, pass, err := credentials(rawLogin, rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.repo.Load(ctx, userLogin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.Compare(user.Password, pass); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrWrongPassword)
	}
	return user.View(), nil
}

// Get возвращает публичные данные пользователя.
func (s *Service) Get(ctx context.Context, userLogin string) (*models.UserView, error) {
	const op = "services.user.Get"
	user, err := s.repo.Load(ctx, userLogin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user.View(), nil
}

// UpdateProfile меняет пароль и контактные данные.
//
// Если пользователя нет, но передан непустой пароль, создается новая запись
// с этим паролем.
func (s *Service) UpdateProfile(ctx context.Context, userLogin string, upd ProfileUpdate) (*models.UserView, error) {
	const op = "services.user.UpdateProfile"

	var newPassword string
	if upd.Password != nil {
		newPassword = strings.TrimSpace(*upd.Password)
	}

	unlock := s.repo.Lock(userLogin)
	defer unlock()

	created := false
	user, err := s.repo.Load(ctx, userLogin)
	switch {
	case errors.Is(err, storage.ErrNotFound) && newPassword != "":
		user = models.NewUser(userLogin, "", models.Profile{})
		created = true
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if newPassword != "" {
		stored, err := s.hasher.Store(newPassword)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		user.Password = stored
	}
	if upd.Name != nil {
		user.Profile.Name = *upd.Name
	}
	if upd.Email != nil {
		user.Profile.Email = *upd.Email
	}
	if upd.Phone != nil {
		user.Profile.Phone = *upd.Phone
	}

	if created {
		err = s.repo.Create(ctx, user)
	} else {
		err = s.repo.Save(ctx, user)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if created {
		s.log.Info("user created on profile update", sl.Login(userLogin))
		s.publish(ctx, events.Event{Type: events.UserRegistered, Login: userLogin, At: s.now()})
	}
	return user.View(), nil
}

// GetState возвращает цели, бюджеты и счета пользователя.
func (s *Service) GetState(ctx context.Context, userLogin string) (*models.State, error) {
	const op = "services.user.GetState"
	user, err := s.repo.Load(ctx, userLogin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.State{
		Goals:    user.Goals,
		Budgets:  user.Budgets,
		Accounts: user.Accounts,
	}, nil
}

// UpdateState заменяет переданные поля состояния целиком.
func (s *Service) UpdateState(ctx context.Context, userLogin string, upd StateUpdate) error {
	const op = "services.user.UpdateState"

	goals, hasGoals, err := rawList(upd.Goals)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	budgets, hasBudgets, err := rawList(upd.Budgets)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	accounts, hasAccounts, err := accountList(upd.Accounts)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	unlock := s.repo.Lock(userLogin)
	defer unlock()

	user, err := s.repo.Load(ctx, userLogin)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if hasGoals {
		user.Goals = goals
	}
	if hasBudgets {
		user.Budgets = budgets
	}
	if hasAccounts {
		if len(accounts) == 0 {
			accounts = []string{models.DefaultAccount}
		}
		user.Accounts = accounts
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("event", event.Type), sl.Login(event.Login), sl.Err(err))
	}
}

func credentials(rawLogin, rawPassword string) (string, string, error) {
	userLogin, err := login.Normalize(rawLogin)
	pass := strings.TrimSpace(rawPassword)
	if err != nil || pass == "" {
		return "", "", ErrMissingCredentials
	}
	return userLogin, pass, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// rawList разбирает JSON-массив. Если значение не массив, второй результат false.
func rawList(raw json.RawMessage) ([]json.RawMessage, bool, error) {
	if !isArray(raw) {
		return nil, false, nil
	}
	list := []json.RawMessage{}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false, err
	}
	return list, true, nil
}

// accountList разбирает список счетов: обрезает пробелы, выбрасывает пустые
// и повторяющиеся названия с сохранением порядка.
func accountList(raw json.RawMessage) ([]string, bool, error) {
	items, ok, err := rawList(raw)
	if err != nil || !ok {
		return nil, ok, err
	}
	seen := make(map[string]struct{}, len(items))
	accounts := make([]string, 0, len(items))
	for _, item := range items {
		var name string
		if err := json.Unmarshal(item, &name); err != nil {
			return nil, false, ErrInvalidAccounts
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		accounts = append(accounts, name)
	}
	return accounts, true, nil
}
