package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetivoire/budgetivoire/internal/settings"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss, err := NewIssuer("s3cret", time.Hour)
	require.NoError(t, err)

	token, expires, err := iss.Issue(settings.Settings{Name: "Invité", Guest: true})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "Invité", claims.Name)
	assert.True(t, claims.Guest)
}

func TestIssuer_Rejects(t *testing.T) {
	iss, err := NewIssuer("s3cret", time.Hour)
	require.NoError(t, err)

	token, _, err := iss.Issue(settings.Settings{Name: "Aya"})
	require.NoError(t, err)

	other, err := NewIssuer("different", time.Hour)
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.Parse(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	iss.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = iss.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	_, err := NewIssuer("", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithClaims(context.Background(), &Claims{Name: "Aya"})
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "Aya", got.Name)
}
