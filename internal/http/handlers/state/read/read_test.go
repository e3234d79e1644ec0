package read

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/moneylens/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moneylens/internal/models"
	"github.com/magabrotheeeer/moneylens/internal/services/user"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) GetState(ctx context.Context, login string) (*models.State, error) {
	args := m.Called(ctx, login)
	state, _ := args.Get(0).(*models.State)
	return state, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name       string
		state      *models.State
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name: "state",
			state: &models.State{
				Goals:    []json.RawMessage{json.RawMessage(`{"title":"Car"}`)},
				Budgets:  []json.RawMessage{},
				Accounts: []string{"Cash", "Card"},
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"ok":true,"goals":[{"title":"Car"}],"budgets":[],"accounts":["Cash","Card"]}`,
		},
		{
			name:       "not found",
			err:        user.ErrUserNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"user not found"}`,
		},
		{
			name:       "internal",
			err:        errors.New("io"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("GetState", mock.Anything, "alice").Return(tt.state, tt.err).Once()

			req := httptest.NewRequest(http.MethodGet, "/api/users/alice/state", nil)
			req = req.WithContext(middlewarectx.WithLogin(req.Context(), "alice"))
			rr := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}
