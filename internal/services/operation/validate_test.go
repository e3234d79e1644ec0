package operation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/moneylens/internal/models"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 123_000_000, time.UTC)

func strptr(s string) *string { return &s }

func TestValidate_Success(t *testing.T) {
	tests := []struct {
		name    string
		payload models.OperationPayload
		want    models.Operation
	}{
		{
			name:    "expense with defaults",
			payload: models.OperationPayload{Type: "expense", Amount: 100.0, Account: "Cash"},
			want: models.Operation{
				Type:     "expense",
				Amount:   100,
				Category: "Uncategorized",
				Date:     "2024-03-15T10:30:00.123Z",
				Account:  strptr("Cash"),
			},
		},
		{
			name: "income with string amount and trimmed fields",
			payload: models.OperationPayload{
				Type: "  INCOME ", Amount: " 2500.50 ", Category: " Salary ", Note: " March ",
				Account: " Card ", AccountFrom: "ignored", AccountTo: "ignored", Date: "2024-03-01",
			},
			want: models.Operation{
				Type:     "income",
				Amount:   2500.5,
				Category: "Salary",
				Note:     "March",
				Date:     "2024-03-01T00:00:00.000Z",
				Account:  strptr("Card"),
			},
		},
		{
			name: "transfer drops account",
			payload: models.OperationPayload{
				Type: "transfer", Amount: 50.0, Account: "Cash", AccountFrom: "Cash", AccountTo: "Savings",
				Date: "2024-02-10T12:00:00+03:00",
			},
			want: models.Operation{
				Type:        "transfer",
				Amount:      50,
				Category:    "Uncategorized",
				Date:        "2024-02-10T09:00:00.000Z",
				AccountFrom: strptr("Cash"),
				AccountTo:   strptr("Savings"),
			},
		},
		{
			name:    "numeric category and epoch date",
			payload: models.OperationPayload{Type: "expense", Amount: true, Category: 42.0, Account: "Cash", Date: 1704067200000.0},
			want: models.Operation{
				Type:     "expense",
				Amount:   1,
				Category: "42",
				Date:     "2024-01-01T00:00:00.000Z",
				Account:  strptr("Cash"),
			},
		},
		{
			name:    "datetime-local without seconds",
			payload: models.OperationPayload{Type: "expense", Amount: "7", Account: "Cash", Date: "2024-05-06T07:08"},
			want: models.Operation{
				Type:     "expense",
				Amount:   7,
				Category: "Uncategorized",
				Date:     "2024-05-06T07:08:00.000Z",
				Account:  strptr("Cash"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.payload, fixedNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload models.OperationPayload
		wantErr error
	}{
		{name: "missing type", payload: models.OperationPayload{Amount: 1.0, Account: "Cash"}, wantErr: ErrInvalidType},
		{name: "unknown type", payload: models.OperationPayload{Type: "refund", Amount: 1.0, Account: "Cash"}, wantErr: ErrInvalidType},
		{name: "non-string type", payload: models.OperationPayload{Type: 1.0, Amount: 1.0, Account: "Cash"}, wantErr: ErrInvalidType},
		{name: "type checked before amount", payload: models.OperationPayload{Type: "x", Amount: -1.0}, wantErr: ErrInvalidType},
		{name: "zero amount", payload: models.OperationPayload{Type: "expense", Amount: 0.0, Account: "Cash"}, wantErr: ErrInvalidAmount},
		{name: "negative amount", payload: models.OperationPayload{Type: "expense", Amount: -5.0, Account: "Cash"}, wantErr: ErrInvalidAmount},
		{name: "missing amount", payload: models.OperationPayload{Type: "expense", Account: "Cash"}, wantErr: ErrInvalidAmount},
		{name: "non-numeric amount", payload: models.OperationPayload{Type: "expense", Amount: "abc", Account: "Cash"}, wantErr: ErrInvalidAmount},
		{name: "infinite amount", payload: models.OperationPayload{Type: "expense", Amount: math.Inf(1), Account: "Cash"}, wantErr: ErrInvalidAmount},
		{name: "overflowing amount", payload: models.OperationPayload{Type: "expense", Amount: "1e400", Account: "Cash"}, wantErr: ErrInvalidAmount},
		{name: "object amount", payload: models.OperationPayload{Type: "expense", Amount: map[string]any{}, Account: "Cash"}, wantErr: ErrInvalidAmount},
		{name: "missing account", payload: models.OperationPayload{Type: "income", Amount: 1.0}, wantErr: ErrAccountRequired},
		{name: "blank account", payload: models.OperationPayload{Type: "expense", Amount: 1.0, Account: "   "}, wantErr: ErrAccountRequired},
		{name: "transfer same account", payload: models.OperationPayload{Type: "transfer", Amount: 1.0, AccountFrom: "A", AccountTo: "A"}, wantErr: ErrTransferAccounts},
		{name: "transfer same after trim", payload: models.OperationPayload{Type: "transfer", Amount: 1.0, AccountFrom: "A ", AccountTo: " A"}, wantErr: ErrTransferAccounts},
		{name: "transfer missing destination", payload: models.OperationPayload{Type: "transfer", Amount: 1.0, AccountFrom: "A"}, wantErr: ErrTransferAccounts},
		{name: "transfer with only account", payload: models.OperationPayload{Type: "transfer", Amount: 1.0, Account: "A"}, wantErr: ErrTransferAccounts},
		{name: "unparsable date", payload: models.OperationPayload{Type: "expense", Amount: 1.0, Account: "Cash", Date: "yesterday"}, wantErr: ErrInvalidDate},
		{name: "epoch date out of range", payload: models.OperationPayload{Type: "expense", Amount: 1.0, Account: "Cash", Date: 9e15}, wantErr: ErrInvalidDate},
		{name: "epoch date beyond int64", payload: models.OperationPayload{Type: "expense", Amount: 1.0, Account: "Cash", Date: 1e20}, wantErr: ErrInvalidDate},
		{name: "negative epoch date out of range", payload: models.OperationPayload{Type: "expense", Amount: 1.0, Account: "Cash", Date: -8.64e15 - 1}, wantErr: ErrInvalidDate},
		{name: "object date", payload: models.OperationPayload{Type: "expense", Amount: 1.0, Account: "Cash", Date: map[string]any{"a": 1.0}}, wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.payload, fixedNow)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestValidate_EmptyDateUsesNow(t *testing.T) {
	for _, d := range []any{nil, "", "  ", false, 0.0} {
		got, err := Validate(models.OperationPayload{Type: "expense", Amount: 1.0, Account: "Cash", Date: d}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-15T10:30:00.123Z", got.Date)
	}
}

func TestValidate_IsPure(t *testing.T) {
	payload := models.OperationPayload{Type: "expense", Amount: "10", Account: "Cash", Category: "Food"}
	first, err := Validate(payload, fixedNow)
	require.NoError(t, err)
	second, err := Validate(payload, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "10", payload.Amount)
}

func TestFormatTime(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", FormatTime(time.Date(2024, 1, 1, 3, 0, 0, 0, loc)))
}
