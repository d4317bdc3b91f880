package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/budgetivoire/budgetivoire/internal/auth"
	apihttp "github.com/budgetivoire/budgetivoire/internal/http"
	"github.com/budgetivoire/budgetivoire/internal/http/settings"
	"github.com/budgetivoire/budgetivoire/internal/http/transaction"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
	settingssvc "github.com/budgetivoire/budgetivoire/internal/settings"
)

func TestNew_RequiresSession(t *testing.T) {
	issuer, err := auth.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	txRepo := ledger.NewMockRepository(ctrl)
	stRepo := settingssvc.NewMockRepository(ctrl)

	txRepo.EXPECT().ListTransactions(gomock.Any()).Return(nil, nil)

	st := settingssvc.NewService(stRepo)
	router := apihttp.New(apihttp.Options{AllowedOrigins: []string{"http://localhost:5173"}}, issuer, apihttp.Handlers{
		Transactions: transaction.NewHandler(ledger.NewService(txRepo), st),
		Settings:     settings.NewHandler(st),
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := issuer.Issue(settingssvc.Settings{Name: "Awa"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestNew_CORSPreflight(t *testing.T) {
	issuer, err := auth.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	router := apihttp.New(apihttp.Options{AllowedOrigins: []string{"http://localhost:5173"}}, issuer, apihttp.Handlers{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/entry", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
