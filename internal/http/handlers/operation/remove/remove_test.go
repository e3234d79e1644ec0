package remove

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/moneylens/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moneylens/internal/services/operation"
	"github.com/magabrotheeeer/moneylens/internal/storage"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Delete(ctx context.Context, login, id string) error {
	return m.Called(ctx, login, id).Error(0)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "deleted", wantStatus: http.StatusOK, wantBody: `{"ok":true}`},
		{name: "missing operation", err: operation.ErrOperationNotFound, wantStatus: http.StatusNotFound, wantBody: `{"error":"operation not found"}`},
		{name: "missing user", err: storage.ErrNotFound, wantStatus: http.StatusNotFound, wantBody: `{"error":"user not found"}`},
		{name: "internal", err: errors.New("io"), wantStatus: http.StatusInternalServerError, wantBody: `{"error":"internal error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("Delete", mock.Anything, "alice", "op1").Return(tt.err).Once()

			req := httptest.NewRequest(http.MethodDelete, "/api/users/alice/operations/op1", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "op1")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithLogin(ctx, "alice"))

			rr := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
