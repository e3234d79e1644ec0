package update

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/moneylens/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moneylens/internal/services/user"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) UpdateState(ctx context.Context, login string, upd user.StateUpdate) error {
	return m.Called(ctx, login, upd).Error(0)
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name       string
		body       string
		callsMock  bool
		match      func(user.StateUpdate) bool
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:      "accounts only",
			body:      `{"accounts":["X","Y"]}`,
			callsMock: true,
			match: func(u user.StateUpdate) bool {
				return string(u.Accounts) == `["X","Y"]` && u.Goals == nil && u.Budgets == nil
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"ok":true}`,
		},
		{
			name:       "empty body",
			body:       ``,
			callsMock:  true,
			match:      func(u user.StateUpdate) bool { return u.Accounts == nil },
			wantStatus: http.StatusOK,
			wantBody:   `{"ok":true}`,
		},
		{
			name:       "bad accounts",
			body:       `{"accounts":[1]}`,
			callsMock:  true,
			match:      func(user.StateUpdate) bool { return true },
			err:        user.ErrInvalidAccounts,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"accounts must be a list of strings"}`,
		},
		{
			name:       "not found",
			body:       `{}`,
			callsMock:  true,
			match:      func(user.StateUpdate) bool { return true },
			err:        user.ErrUserNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"user not found"}`,
		},
		{
			name:       "internal",
			body:       `{}`,
			callsMock:  true,
			match:      func(user.StateUpdate) bool { return true },
			err:        errors.New("disk"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal error"}`,
		},
		{
			name:       "malformed",
			body:       `[`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"invalid JSON"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callsMock {
				svc.On("UpdateState", mock.Anything, "alice", mock.MatchedBy(tt.match)).Return(tt.err).Once()
			}

			req := httptest.NewRequest(http.MethodPut, "/api/users/alice/state", strings.NewReader(tt.body))
			req = req.WithContext(middlewarectx.WithLogin(req.Context(), "alice"))
			rr := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
