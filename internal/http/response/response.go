// Package response содержит общие типы JSON‑ответов HTTP‑обработчиков.
//
// Успешный ответ всегда содержит "ok": true и поля конкретного обработчика,
// ответ с ошибкой содержит только поле "error" с текстом для клиента.
package response

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

// Response — общая часть успешного ответа. Обработчики встраивают ее в свои
// структуры, чтобы поля оказались на верхнем уровне JSON.
type Response struct {
	OK bool `json:"ok" example:"true"`
}

// ErrorResponse — тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error" example:"user not found"`
}

// Сообщения, общие для нескольких обработчиков.
const (
	MsgInternal     = "internal error"
	MsgNotFound     = "not found"
	MsgInvalidJSON  = "invalid JSON"
	MsgTooLarge     = "payload too large"
	MsgInvalidLogin = "invalid login"
	MsgUserNotFound = "user not found"
)

// OK возвращает успешный Response.
func OK() Response {
	return Response{OK: true}
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// Fail выставляет статус и отправляет ErrorResponse.
func Fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}

// ValidationError собирает сообщения валидатора в одну строку.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", field))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", field, err.Param()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", field, err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", field))
		}
	}
	return ErrorResponse{Error: strings.Join(errsMsgs, ", ")}
}
