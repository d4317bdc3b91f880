package transaction_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/budgetivoire/budgetivoire/internal/http/transaction"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
	"github.com/budgetivoire/budgetivoire/internal/settings"
)

var history = []ledger.Transaction{
	{
		ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Amount: 7500, Flow: ledger.FlowExpense,
		Category: ledger.CategoryFood, PaymentMethod: ledger.PaymentWave, Note: "Marché",
		Timestamp: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
	},
	{
		ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Amount: 100000, Flow: ledger.FlowIncome,
		Category: ledger.CategoryOther, PaymentMethod: ledger.PaymentBank,
		Timestamp: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	},
}

func setup(t *testing.T, setupMock func(txs *ledger.MockRepository, st *settings.MockRepository)) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	txRepo := ledger.NewMockRepository(ctrl)
	stRepo := settings.NewMockRepository(ctrl)
	setupMock(txRepo, stRepo)

	h := transaction.NewHandler(ledger.NewService(txRepo), settings.NewService(stRepo))

	r := chi.NewRouter()
	r.Route("/transactions", h.Routes)
	r.Get("/summary", h.Summary)

	return r
}

func TestHandler_List(t *testing.T) {
	h := setup(t, func(txs *ledger.MockRepository, _ *settings.MockRepository) {
		txs.EXPECT().ListTransactions(gomock.Any()).Return(history, nil)
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", got[0]["id"])
	assert.Equal(t, "EXPENSE", got[0]["type"])
	assert.Equal(t, "Nourriture & Marché", got[0]["category"])
	assert.Equal(t, "Wave", got[0]["payment_method"])
	assert.NotContains(t, got[1], "note")
}

func TestHandler_Delete(t *testing.T) {
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	type testCase struct {
		name      string
		path      string
		setupMock func(txs *ledger.MockRepository)
		wantCode  int
	}

	tests := []testCase{
		{
			name: "Success",
			path: "/transactions/" + id.String(),
			setupMock: func(txs *ledger.MockRepository) {
				txs.EXPECT().DeleteTransaction(gomock.Any(), id).Return(nil)
				txs.EXPECT().ListTransactions(gomock.Any()).Return(history[1:], nil)
			},
			wantCode: http.StatusNoContent,
		},
		{
			name: "NotFound",
			path: "/transactions/" + id.String(),
			setupMock: func(txs *ledger.MockRepository) {
				txs.EXPECT().DeleteTransaction(gomock.Any(), id).Return(ledger.ErrNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "InvalidID",
			path:     "/transactions/not-a-uuid",
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setup(t, func(txs *ledger.MockRepository, _ *settings.MockRepository) {
				if tt.setupMock != nil {
					tt.setupMock(txs)
				}
			})

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_Summary(t *testing.T) {
	h := setup(t, func(txs *ledger.MockRepository, st *settings.MockRepository) {
		txs.EXPECT().ListTransactions(gomock.Any()).Return(history, nil)
		st.EXPECT().LoadSettings(gomock.Any()).Return(settings.Settings{}, settings.ErrNotFound)
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.JSONEq(t, `{
		"currency": "FCFA",
		"total_balance": 92500,
		"total_income": 100000,
		"monthly_expense_total": 7500,
		"breakdown": [{"category": "Nourriture & Marché", "amount": 7500, "percent": 100}],
		"text": "Solde total : 92 500 FCFA\nDépenses : 7 500 FCFA\n* Nourriture & Marché | 7 500 FCFA | 100%\n"
	}`, rec.Body.String())
}
