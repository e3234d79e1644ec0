// Package password хранит и сверяет пароли пользователей.
//
// По умолчанию пароль сохраняется в файле пользователя как есть и сравнивается
// напрямую. Если включено хеширование, новые пароли сохраняются bcrypt-хешем.
// Compare понимает оба формата, поэтому включение хеширования не ломает
// уже существующие файлы.
package password

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch возвращается, если пароль не совпадает с сохраненным.
var ErrMismatch = errors.New("password mismatch")

// Hasher преобразует пароль в сохраняемое представление.
type Hasher struct {
	hash bool
}

// NewHasher создает Hasher. При hash=false пароль сохраняется без изменений.
func NewHasher(hash bool) *Hasher {
	return &Hasher{hash: hash}
}

// Store возвращает значение, которое нужно записать в поле password.
func (h *Hasher) Store(plain string) (string, error) {
	if h == nil || !h.hash {
		return plain, nil
	}
	return GetHash(plain)
}

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// IsHash сообщает, похоже ли сохраненное значение на bcrypt‑хэш.
func IsHash(stored string) bool {
	return len(stored) == 60 &&
		(strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$"))
}

// Compare сверяет введенный пароль с сохраненным значением.
//
// Возвращает nil при совпадении, иначе ErrMismatch.
func Compare(stored, given string) error {
	const op = "password.Compare"
	if IsHash(stored) {
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)); err != nil {
			return fmt.Errorf("%s: %w", op, ErrMismatch)
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(given)) != 1 {
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	}
	return nil
}
