package settings_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	httpsettings "github.com/budgetivoire/budgetivoire/internal/http/settings"
	"github.com/budgetivoire/budgetivoire/internal/settings"
)

func newRouter(t *testing.T, initial settings.Settings) http.Handler {
	t.Helper()

	repo := settings.NewMockRepository(gomock.NewController(t))
	stored := initial

	repo.EXPECT().LoadSettings(gomock.Any()).DoAndReturn(func(context.Context) (settings.Settings, error) {
		return stored, nil
	}).AnyTimes()
	repo.EXPECT().SaveSettings(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s settings.Settings) error {
		stored = s
		return nil
	}).AnyTimes()

	r := chi.NewRouter()
	r.Route("/settings", httpsettings.NewHandler(settings.NewService(repo)).Routes)

	return r
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Get_HidesPIN(t *testing.T) {
	st := settings.Defaults()
	st.Name = "Awa"
	st.PINHash = "$2a$10$secret"

	rec := send(newRouter(t, st), http.MethodGet, "/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.NotContains(t, rec.Body.String(), "secret")
	assert.Contains(t, rec.Body.String(), `"name":"Awa"`)
	assert.Contains(t, rec.Body.String(), `"linked_accounts":[]`)
}

func TestHandler_Update(t *testing.T) {
	guest := settings.Defaults()
	guest.Guest = true

	type testCase struct {
		name     string
		initial  settings.Settings
		body     string
		wantCode int
	}

	tests := []testCase{
		{
			name:     "Success",
			initial:  settings.Defaults(),
			body:     `{"name":"Awa","currency":"FCFA","city":"Bouaké","confirmation_gate":true,"language":"dioula","linked_accounts":["WAVE"]}`,
			wantCode: http.StatusOK,
		},
		{
			name:     "BadLanguage",
			initial:  settings.Defaults(),
			body:     `{"language":"en"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "UnknownProvider",
			initial:  settings.Defaults(),
			body:     `{"language":"fr","linked_accounts":["PAYPAL"]}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "GuestCannotLink",
			initial:  guest,
			body:     `{"language":"fr","linked_accounts":["WAVE"]}`,
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := send(newRouter(t, tt.initial), http.MethodPut, "/settings", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_ChangePIN_NotRegistered(t *testing.T) {
	rec := send(newRouter(t, settings.Defaults()), http.MethodPost, "/settings/pin", `{"current":"1234","next":"5678"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
