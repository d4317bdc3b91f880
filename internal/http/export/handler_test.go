package export_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/budgetivoire/budgetivoire/internal/export"
	httpexport "github.com/budgetivoire/budgetivoire/internal/http/export"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

func TestHandler_Download(t *testing.T) {
	tx := ledger.Transaction{
		ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Amount: 7500, Flow: ledger.FlowExpense,
		Category: ledger.CategoryFood, PaymentMethod: ledger.PaymentWave,
		Timestamp: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
	}

	type testCase struct {
		name            string
		query           string
		listed          bool
		wantCode        int
		wantContentType string
	}

	tests := []testCase{
		{name: "DefaultCSV", query: "", listed: true, wantCode: http.StatusOK, wantContentType: "text/csv; charset=utf-8"},
		{name: "XLSX", query: "?format=xlsx", listed: true, wantCode: http.StatusOK,
			wantContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{name: "UnknownFormat", query: "?format=pdf", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := ledger.NewMockRepository(gomock.NewController(t))
			if tt.listed {
				repo.EXPECT().ListTransactions(gomock.Any()).Return([]ledger.Transaction{tx}, nil)
			}

			r := chi.NewRouter()
			r.Route("/export", httpexport.NewHandler(export.NewService(ledger.NewService(repo))).Routes)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export"+tt.query, nil))

			require.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode != http.StatusOK {
				return
			}

			assert.Equal(t, tt.wantContentType, rec.Header().Get("Content-Type"))
			assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), `attachment; filename="ledger-`))
			assert.Positive(t, rec.Body.Len())
		})
	}
}
