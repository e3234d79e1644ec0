// Package login нормализует логины пользователей.
//
// Нормализованный логин одновременно является идентификатором пользователя
// и именем файла с его данными, поэтому допускаются только символы [a-z0-9._-].
package login

import (
	"errors"
	"strings"
)

// ErrInvalidLogin возвращается для пустого логина или логина с недопустимыми символами.
var ErrInvalidLogin = errors.New("invalid login")

// Normalize обрезает пробелы, приводит логин к нижнему регистру и проверяет набор символов.
// Ограничения на длину нет.
func Normalize(raw string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", ErrInvalidLogin
	}
	for i := 0; i < len(normalized); i++ {
		if !allowed(normalized[i]) {
			return "", ErrInvalidLogin
		}
	}
	return normalized, nil
}

// Valid сообщает, является ли строка уже нормализованным логином.
func Valid(s string) bool {
	n, err := Normalize(s)
	return err == nil && n == s
}

func allowed(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '.' || c == '_' || c == '-':
		return true
	}
	return false
}
