// Package opid генерирует идентификаторы операций.
//
// Идентификатор — это время в миллисекундах в системе счисления 36 и пять
// случайных символов. Такие id растут со временем и не повторяются после
// удаления операции.
package opid

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const suffixLen = 5

// New возвращает новый идентификатор для момента now.
func New(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strconv.FormatInt(now.UnixMilli(), 36) + random[:suffixLen]
}
