package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New("", DefaultTTL)
	require.Error(t, err)
}

func TestNew_DefaultTTL(t *testing.T) {
	m, err := New("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, m.TTL())
}

func TestManager_IssueVerify_Roundtrip(t *testing.T) {
	m, err := New("secret", time.Hour)
	require.NoError(t, err)

	tok, err := m.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestManager_Verify_TwoTokensSameSubject(t *testing.T) {
	m, err := New("secret", time.Hour)
	require.NoError(t, err)

	t1, err := m.Issue("user-123")
	require.NoError(t, err)
	t2, err := m.Issue("user-123")
	require.NoError(t, err)

	u1, err := m.Verify(t1)
	require.NoError(t, err)
	u2, err := m.Verify(t2)
	require.NoError(t, err)
	assert.Equal(t, u1, u2)
}

// signAt builds a token with explicit issued-at/expiry, bypassing the
// manager's clock.
func signAt(t *testing.T, secret, subject string, issuedAt, expiresAt time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestManager_Verify_Expired(t *testing.T) {
	m, err := New("secret", time.Hour)
	require.NoError(t, err)

	expired := signAt(t, "secret", "user-123", time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))
	_, err = m.Verify(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestManager_Verify_JustBeforeExpiry(t *testing.T) {
	m, err := New("secret", time.Hour)
	require.NoError(t, err)

	almostExpired := signAt(t, "secret", "user-123", time.Now().Add(-time.Hour), time.Now().Add(time.Second))
	userID, err := m.Verify(almostExpired)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestManager_Verify_WrongSecret(t *testing.T) {
	issuer, err := New("secret-a", time.Hour)
	require.NoError(t, err)
	verifier, err := New("secret-b", time.Hour)
	require.NoError(t, err)

	tok, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Verify_Malformed(t *testing.T) {
	m, err := New("secret", time.Hour)
	require.NoError(t, err)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestManager_Verify_UnsignedToken(t *testing.T) {
	m, err := New("secret", time.Hour)
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Verify_MissingSubject(t *testing.T) {
	m, err := New("secret", time.Hour)
	require.NoError(t, err)

	tok := signAt(t, "secret", "", time.Now(), time.Now().Add(time.Hour))
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
