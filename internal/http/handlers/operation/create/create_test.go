package create

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/moneylens/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moneylens/internal/models"
	"github.com/magabrotheeeer/moneylens/internal/services/operation"
	"github.com/magabrotheeeer/moneylens/internal/storage"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, login string, payload models.OperationPayload) (*models.Operation, error) {
	args := m.Called(ctx, login, payload)
	created, _ := args.Get(0).(*models.Operation)
	return created, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	cash := "Cash"
	stored := &models.Operation{
		ID: "lq1x2abcde", Type: "expense", Amount: 100, Category: "Uncategorized",
		Date: "2024-03-15T10:30:00.000Z", Account: &cash,
		CreatedAt: "2024-03-15T10:30:00.000Z", UpdatedAt: "2024-03-15T10:30:00.000Z",
	}

	tests := []struct {
		name       string
		body       string
		callsMock  bool
		created    *models.Operation
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "created",
			body:       `{"type":"expense","amount":100,"account":"Cash"}`,
			callsMock:  true,
			created:    stored,
			wantStatus: http.StatusOK,
			wantBody: `{"ok":true,"operation":{"id":"lq1x2abcde","type":"expense","amount":100,"category":"Uncategorized",
				"note":"","date":"2024-03-15T10:30:00.000Z","account":"Cash","accountFrom":null,"accountTo":null,
				"createdAt":"2024-03-15T10:30:00.000Z","updatedAt":"2024-03-15T10:30:00.000Z"}}`,
		},
		{
			name:       "validation",
			body:       `{"type":"transfer","amount":10,"accountFrom":"A","accountTo":"A"}`,
			callsMock:  true,
			err:        fmt.Errorf("services.operation.Create: %w", operation.ErrTransferAccounts),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"transfer requires different source and destination accounts"}`,
		},
		{
			name:       "no user",
			body:       `{"type":"expense","amount":1,"account":"Cash"}`,
			callsMock:  true,
			err:        storage.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"user not found"}`,
		},
		{
			name:       "duplicate id",
			body:       `{"id":"x","type":"expense","amount":1,"account":"Cash"}`,
			callsMock:  true,
			err:        operation.ErrOperationExists,
			wantStatus: http.StatusConflict,
			wantBody:   `{"error":"operation already exists"}`,
		},
		{
			name:       "internal",
			body:       `{"type":"expense","amount":1,"account":"Cash"}`,
			callsMock:  true,
			err:        errors.New("rename failed"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal error"}`,
		},
		{
			name:       "malformed",
			body:       `{"type":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"invalid JSON"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callsMock {
				svc.On("Create", mock.Anything, "alice", mock.AnythingOfType("models.OperationPayload")).
					Return(tt.created, tt.err).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/users/alice/operations", strings.NewReader(tt.body))
			req = req.WithContext(middlewarectx.WithLogin(req.Context(), "alice"))
			rr := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestCreateHandler_PassesLoosePayload(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	svc := new(ServiceMock)
	svc.On("Create", mock.Anything, "alice", models.OperationPayload{
		Type: "income", Amount: "12.5", Account: "Card", Date: 1704067200000.0,
	}).Return(&models.Operation{ID: "x"}, nil).Once()

	body := `{"type":"income","amount":"12.5","account":"Card","date":1704067200000}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/alice/operations", strings.NewReader(body))
	req = req.WithContext(middlewarectx.WithLogin(req.Context(), "alice"))
	rr := httptest.NewRecorder()
	New(logger, svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}
