// Package filestore хранит записи пользователей в JSON-файлах на диске.
//
// Каждому пользователю соответствует файл <login>.json в каталоге данных.
// Документ всегда перезаписывается целиком и форматируется с отступом в два пробела.
// Отдельного индекса нет, множество пользователей определяется содержимым каталога.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magabrotheeeer/moneylens/internal/lib/keylock"
	"github.com/magabrotheeeer/moneylens/internal/lib/login"
	"github.com/magabrotheeeer/moneylens/internal/models"
	"github.com/magabrotheeeer/moneylens/internal/storage"
)

const fileExt = ".json"

// Store — файловое хранилище. Создается один раз при старте и передается в сервисы.
type Store struct {
	dir   string
	locks *keylock.Locker
}

// New создает каталог данных, если его нет, и возвращает хранилище.
func New(dir string) (*Store, error) {
	const op = "filestore.New"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{dir: dir, locks: keylock.New()}, nil
}

// Dir возвращает каталог данных.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(userLogin string) (string, error) {
	if !login.Valid(userLogin) {
		return "", login.ErrInvalidLogin
	}
	return filepath.Join(s.dir, userLogin+fileExt), nil
}

// Lock захватывает блокировку логина.
func (s *Store) Lock(userLogin string) func() {
	return s.locks.Lock(userLogin)
}

// Create записывает новую запись, если файла для логина еще нет.
func (s *Store) Create(ctx context.Context, user *models.User) error {
	const op = "filestore.Create"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.path(user.Login)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	user.EnsureDefaults()
	data, err := encode(user)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s: %w", op, storage.ErrExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Load читает запись пользователя и заполняет поля по умолчанию.
func (s *Store) Load(ctx context.Context, userLogin string) (*models.User, error) {
	const op = "filestore.Load"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.path(userLogin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, userLogin, err)
	}
	if user.Login == "" {
		user.Login = userLogin
	}
	return user, nil
}

// Save перезаписывает документ пользователя целиком.
//
// Запись идет во временный файл в том же каталоге с последующим rename,
// поэтому при сбое на диске остается либо старая, либо новая версия.
func (s *Store) Save(ctx context.Context, user *models.User) error {
	const op = "filestore.Save"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.path(user.Login)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	user.EnsureDefaults()
	data, err := encode(user)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+user.Login+".*.tmp")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Logins возвращает логины всех пользователей в каталоге данных.
func (s *Store) Logins(ctx context.Context) ([]string, error) {
	const op = "filestore.Logins"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logins := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), fileExt)
		if login.Valid(name) {
			logins = append(logins, name)
		}
	}
	return logins, nil
}

func encode(user *models.User) ([]byte, error) {
	return json.MarshalIndent(user, "", "  ")
}

// Decode разбирает документ пользователя и заполняет поля по умолчанию.
func Decode(data []byte) (*models.User, error) {
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	user.EnsureDefaults()
	return &user, nil
}
