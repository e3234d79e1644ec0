// Package request читает JSON-тела запросов.
package request

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/moneylens/internal/http/response"
)

var (
	// ErrInvalidJSON — тело не является корректным JSON.
	ErrInvalidJSON = errors.New(response.MsgInvalidJSON)
	// ErrTooLarge — тело больше допустимого размера.
	ErrTooLarge = errors.New(response.MsgTooLarge)
)

// Decode читает тело целиком и разбирает его в v. Пустое тело
// равносильно {} и оставляет v без изменений.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrTooLarge
		}
		return ErrInvalidJSON
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := render.DecodeJSON(bytes.NewReader(data), v); err != nil {
		return ErrInvalidJSON
	}
	return nil
}

// Fail отвечает на ошибку Decode: 413 с закрытием соединения или 400.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrTooLarge) {
		w.Header().Set("Connection", "close")
		response.Fail(w, r, http.StatusRequestEntityTooLarge, response.MsgTooLarge)
		return
	}
	response.Fail(w, r, http.StatusBadRequest, response.MsgInvalidJSON)
}

// Text приводит скалярное значение из JSON к строке. nil (поле не передано
// или null) дает nil, объекты и массивы дают пустую строку.
func Text(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	}
	return &s
}
