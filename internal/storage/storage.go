// Package storage описывает общий контракт хранилища записей пользователей
// и ошибки, по которым вызывающий код отличает "не найдено" от сбоев.
package storage

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/moneylens/internal/models"
)

var (
	// ErrNotFound — файла пользователя нет.
	ErrNotFound = errors.New("user not found")
	// ErrExists — пользователь с таким логином уже зарегистрирован.
	ErrExists = errors.New("user already exists")
)

// Repository — хранилище записей пользователей, один документ на логин.
type Repository interface {
	// Create сохраняет новую запись. Если логин занят, возвращает ErrExists.
	Create(ctx context.Context, user *models.User) error
	// Load читает запись и заполняет поля по умолчанию. Если записи нет, возвращает ErrNotFound.
	Load(ctx context.Context, login string) (*models.User, error)
	// Save полностью перезаписывает документ пользователя.
	Save(ctx context.Context, user *models.User) error
	// Lock захватывает блокировку логина на время цикла чтение-изменение-запись.
	Lock(login string) (unlock func())
	// Logins возвращает список сохраненных логинов.
	Logins(ctx context.Context) ([]string, error)
}
