// Package cachedstore добавляет к хранилищу записей кеш чтения.
//
// Файл на диске остается источником истины: запись сначала уходит в
// хранилище и только потом обновляет кеш. Ошибки кеша пишутся в лог
// и на результат запроса не влияют.
package cachedstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/moneylens/internal/lib/sl"
	"github.com/magabrotheeeer/moneylens/internal/models"
	"github.com/magabrotheeeer/moneylens/internal/storage"
)

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Store оборачивает storage.Repository кешем.
type Store struct {
	next  storage.Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// New создает Store. ttl — время жизни записи в кеше.
func New(next storage.Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{next: next, cache: cache, ttl: ttl, log: log}
}

// Key возвращает ключ кеша для логина.
func Key(login string) string {
	return fmt.Sprintf("user:%s", login)
}

// Create сохраняет запись и кладет ее в кеш.
func (s *Store) Create(ctx context.Context, user *models.User) error {
	if err := s.next.Create(ctx, user); err != nil {
		return err
	}
	s.put(ctx, user)
	return nil
}

// Load отдает запись из кеша, а при промахе читает хранилище.
func (s *Store) Load(ctx context.Context, login string) (*models.User, error) {
	var cached models.User
	found, err := s.cache.Get(ctx, Key(login), &cached)
	if err != nil {
		s.log.Warn("failed to read user from cache", sl.Login(login), sl.Err(err))
	}
	if found && err == nil {
		cached.EnsureDefaults()
		return &cached, nil
	}

	user, err := s.next.Load(ctx, login)
	if err != nil {
		return nil, err
	}
	s.put(ctx, user)
	return user, nil
}

// Save перезаписывает запись в хранилище и обновляет кеш.
// Если запись в хранилище не удалась, ключ удаляется, чтобы не отдавать
// из кеша состояние, которого нет на диске.
func (s *Store) Save(ctx context.Context, user *models.User) error {
	if err := s.next.Save(ctx, user); err != nil {
		if ierr := s.cache.Invalidate(ctx, Key(user.Login)); ierr != nil {
			s.log.Warn("failed to invalidate cache", sl.Login(user.Login), sl.Err(ierr))
		}
		return err
	}
	s.put(ctx, user)
	return nil
}

// Lock делегирует блокировку хранилищу.
func (s *Store) Lock(login string) func() {
	return s.next.Lock(login)
}

// Logins делегирует хранилищу, кеш здесь не используется.
func (s *Store) Logins(ctx context.Context) ([]string, error) {
	return s.next.Logins(ctx)
}

func (s *Store) put(ctx context.Context, user *models.User) {
	if err := s.cache.Set(ctx, Key(user.Login), user, s.ttl); err != nil {
		s.log.Warn("failed to cache user", sl.Login(user.Login), sl.Err(err))
	}
}
