package operation

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/moneylens/internal/models"
)

// ISOLayout — формат дат операций: UTC с миллисекундами.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// ValidationError — ошибка в теле операции. Текст ошибки отдается клиенту.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

var (
	ErrInvalidType      = &ValidationError{msg: "invalid type"}
	ErrInvalidAmount    = &ValidationError{msg: "amount must be positive number"}
	ErrInvalidDate      = &ValidationError{msg: "invalid date"}
	ErrTransferAccounts = &ValidationError{msg: "transfer requires different source and destination accounts"}
	ErrAccountRequired  = &ValidationError{msg: "account is required for income/expense"}
)

var validate = validator.New()

// dateLayouts перебираются по порядку. Даты без смещения считаются UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// Validate приводит тело запроса к каноническому виду операции.
//
// Функция не обращается к хранилищу и одинаково используется при создании
// и изменении. Поля id, createdAt и updatedAt остаются пустыми, их
// заполняет сервис.
func Validate(p models.OperationPayload, now time.Time) (models.Operation, error) {
	op := models.Operation{
		Type:   strings.ToLower(strings.TrimSpace(stringValue(p.Type, false))),
		Amount: numberValue(p.Amount),
	}

	if err := validate.Struct(op); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Amount" {
			return models.Operation{}, ErrInvalidAmount
		}
		return models.Operation{}, ErrInvalidType
	}
	if math.IsInf(op.Amount, 0) || math.IsNaN(op.Amount) {
		return models.Operation{}, ErrInvalidAmount
	}

	date, err := normalizeDate(p.Date, now)
	if err != nil {
		return models.Operation{}, err
	}
	op.Date = date

	op.Category = strings.TrimSpace(stringValue(p.Category, true))
	if op.Category == "" {
		op.Category = models.DefaultCategory
	}
	op.Note = strings.TrimSpace(stringValue(p.Note, true))

	account := optional(p.Account)
	from := optional(p.AccountFrom)
	to := optional(p.AccountTo)

	if op.Type == models.OperationTransfer {
		if from == nil || to == nil || *from == *to {
			return models.Operation{}, ErrTransferAccounts
		}
		op.AccountFrom, op.AccountTo = from, to
		return op, nil
	}

	if account == nil {
		return models.Operation{}, ErrAccountRequired
	}
	op.Account = account
	return op, nil
}

// maxEpochMillis — наибольшее по модулю время в миллисекундах, которое
// клиенты могут представить датой (±100 000 000 суток от эпохи).
const maxEpochMillis = 8.64e15

// FormatTime форматирует момент так же, как даты операций.
func FormatTime(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

func normalizeDate(v any, now time.Time) (string, error) {
	switch d := v.(type) {
	case nil:
		return FormatTime(now), nil
	case bool:
		if !d {
			return FormatTime(now), nil
		}
		return "", ErrInvalidDate
	case float64:
		if d == 0 || math.IsNaN(d) {
			return FormatTime(now), nil
		}
		if math.IsInf(d, 0) || math.Abs(d) > maxEpochMillis {
			return "", ErrInvalidDate
		}
		return FormatTime(time.UnixMilli(int64(d))), nil
	case json.Number:
		f, err := d.Float64()
		if err != nil {
			return "", ErrInvalidDate
		}
		return normalizeDate(f, now)
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return FormatTime(now), nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return FormatTime(t), nil
			}
		}
		return "", ErrInvalidDate
	default:
		return "", ErrInvalidDate
	}
}

// stringValue приводит значение к строке. Ложные значения (false, 0, "")
// дают пустую строку; при falsy=false ноль и false приводятся как есть.
// Объекты и массивы считаются пустыми.
func stringValue(v any, falsyEmpty bool) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		if !s && falsyEmpty {
			return ""
		}
		return strconv.FormatBool(s)
	case float64:
		if falsyEmpty && (s == 0 || math.IsNaN(s)) {
			return ""
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	default:
		return ""
	}
}

func optional(v any) *string {
	s := strings.TrimSpace(stringValue(v, true))
	if s == "" {
		return nil
	}
	return &s
}

// numberValue повторяет правила приведения к числу, принятые у клиентов:
// пустая строка и null дают 0, булевы значения — 0 или 1, остальное — NaN.
func numberValue(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
