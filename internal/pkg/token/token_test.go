package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager("access-secret-for-tests", "refresh-secret-for-tests", 15*time.Minute, 7*24*time.Hour)
}

func TestIssuePairRoundTrip(t *testing.T) {
	m := newTestManager()

	pair, err := m.IssuePair(42)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	accessClaims, err := m.Verify(pair.AccessToken, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(42), accessClaims.UserID)
	assert.Equal(t, KindAccess, accessClaims.Kind)

	refreshClaims, err := m.Verify(pair.RefreshToken, KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, int64(42), refreshClaims.UserID)
	assert.Equal(t, KindRefresh, refreshClaims.Kind)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	m := newTestManager()

	pair, err := m.IssuePair(7)
	require.NoError(t, err)

	_, err = m.Verify(pair.AccessToken, KindRefresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = m.Verify(pair.RefreshToken, KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager("different-access-secret", "different-refresh-secret", 15*time.Minute, 7*24*time.Hour)

	pair, err := other.IssuePair(7)
	require.NoError(t, err)

	_, err = m.Verify(pair.AccessToken, KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyExpired(t *testing.T) {
	expired := NewManager("access-secret-for-tests", "refresh-secret-for-tests", -time.Minute, -time.Minute)

	pair, err := expired.IssuePair(7)
	require.NoError(t, err)

	m := newTestManager()
	_, err = m.Verify(pair.AccessToken, KindAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = m.Verify(pair.RefreshToken, KindRefresh)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestIssuedTokensAreUnique(t *testing.T) {
	m := newTestManager()

	first, err := m.IssuePair(7)
	require.NoError(t, err)
	second, err := m.IssuePair(7)
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestVerifyGarbage(t *testing.T) {
	m := newTestManager()

	_, err := m.Verify("not-a-jwt", KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = m.Verify("", KindRefresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
