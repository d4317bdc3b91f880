package settings_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/budgetivoire/budgetivoire/internal/settings"
)

// memRepo records saves so Register and Login can be exercised together.
func memRepo(t *testing.T, initial *settings.Settings) *settings.MockRepository {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := settings.NewMockRepository(ctrl)

	stored := initial

	repo.EXPECT().LoadSettings(gomock.Any()).DoAndReturn(func(context.Context) (settings.Settings, error) {
		if stored == nil {
			return settings.Settings{}, settings.ErrNotFound
		}

		return *stored, nil
	}).AnyTimes()
	repo.EXPECT().SaveSettings(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s settings.Settings) error {
		stored = &s
		return nil
	}).AnyTimes()

	return repo
}

func TestService_Get(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *settings.MockRepository)
		want      settings.Settings
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "DefaultsWhenEmpty",
			setupMock: func(m *settings.MockRepository) {
				m.EXPECT().LoadSettings(gomock.Any()).Return(settings.Settings{}, settings.ErrNotFound)
			},
			want: settings.Defaults(),
		},
		{
			name: "Stored",
			setupMock: func(m *settings.MockRepository) {
				m.EXPECT().LoadSettings(gomock.Any()).Return(settings.Settings{Name: "Awa", Language: settings.LanguageDioula}, nil)
			},
			want: settings.Settings{Name: "Awa", Language: settings.LanguageDioula},
		},
		{
			name: "RepoError",
			setupMock: func(m *settings.MockRepository) {
				m.EXPECT().LoadSettings(gomock.Any()).Return(settings.Settings{}, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := settings.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := settings.NewService(repo).Get(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_RegisterAndLogin(t *testing.T) {
	svc := settings.NewService(memRepo(t, nil))
	ctx := context.Background()

	_, err := svc.Login(ctx, "1234")
	require.ErrorIs(t, err, settings.ErrNotRegistered)

	_, err = svc.Register(ctx, "Kouassi", "0700000000", "12a4")
	require.ErrorIs(t, err, settings.ErrMalformedPIN)

	_, err = svc.Register(ctx, " ", "0700000000", "1234")
	require.ErrorIs(t, err, settings.ErrMissingField)

	st, err := svc.Register(ctx, " Kouassi ", "0700000000", "1234")
	require.NoError(t, err)
	assert.Equal(t, "Kouassi", st.Name)
	assert.True(t, st.Onboarded)
	assert.False(t, st.Guest)
	assert.NotEqual(t, "1234", st.PINHash)

	_, err = svc.Login(ctx, "0000")
	assert.ErrorIs(t, err, settings.ErrInvalidPIN)

	got, err := svc.Login(ctx, "1234")
	require.NoError(t, err)
	assert.Equal(t, "Kouassi", got.Name)

	require.NoError(t, svc.ChangePIN(ctx, "1234", "4321"))

	_, err = svc.Login(ctx, "1234")
	assert.ErrorIs(t, err, settings.ErrInvalidPIN)

	_, err = svc.Login(ctx, "4321")
	assert.NoError(t, err)
}

func TestService_Guest(t *testing.T) {
	initial := settings.Defaults()
	initial.LinkedAccounts = []string{"WAVE"}

	svc := settings.NewService(memRepo(t, &initial))
	ctx := context.Background()

	st, err := svc.EnterGuest(ctx)
	require.NoError(t, err)
	assert.True(t, st.Guest)
	assert.Equal(t, "Invité", st.Name)
	assert.Empty(t, st.LinkedAccounts)
	assert.True(t, st.Profile().Guest)

	_, err = svc.Login(ctx, "")
	assert.ErrorIs(t, err, settings.ErrNotRegistered)

	st.LinkedAccounts = []string{"ORANGE_MONEY"}
	_, err = svc.Update(ctx, st)
	assert.ErrorIs(t, err, settings.ErrGuestRestricted)

	st.LinkedAccounts = nil
	st.ConfirmationGate = true
	st.Phone = "0102030405"
	got, err := svc.Update(ctx, st)
	require.NoError(t, err)
	assert.Empty(t, got.Phone)
	assert.True(t, got.Profile().ConfirmationGate)
}

func TestService_Update(t *testing.T) {
	initial := settings.Defaults()
	initial.Onboarded = true
	initial.PINHash = "stored-hash"

	svc := settings.NewService(memRepo(t, &initial))
	ctx := context.Background()

	next := settings.Defaults()
	next.Name = "Aya"
	next.DarkMode = true
	next.ConfirmationGate = true
	next.LinkedAccounts = []string{"ORANGE_MONEY", "WAVE"}

	got, err := svc.Update(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, "stored-hash", got.PINHash)
	assert.True(t, got.Onboarded)
	assert.Equal(t, settings.Profile{ConfirmationGate: true}, got.Profile())

	next.Language = "en"
	_, err = svc.Update(ctx, next)
	assert.ErrorIs(t, err, settings.ErrInvalidLanguage)

	next.Language = settings.LanguageFrench
	next.LinkedAccounts = []string{"PAYPAL"}
	_, err = svc.Update(ctx, next)
	assert.ErrorIs(t, err, settings.ErrUnknownProvider)
}
