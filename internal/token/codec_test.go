package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T, cfg Config) *Codec {
	t.Helper()
	if cfg.Secret == "" {
		cfg.Secret = "test-secret"
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "http://api.openoffice.local"
	}
	if cfg.Audience == "" {
		cfg.Audience = "http://api.openoffice.local"
	}
	codec, err := NewCodec(cfg)
	require.NoError(t, err)
	return codec
}

func TestNewCodecRequiresSecret(t *testing.T) {
	_, err := NewCodec(Config{})
	require.Error(t, err)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := newTestCodec(t, Config{})

	signed, err := codec.Issue(42, "jdoe", "manager")
	require.NoError(t, err)

	claims, err := codec.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, "manager", claims.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	codec := newTestCodec(t, Config{Secret: "secret-a"})
	other := newTestCodec(t, Config{Secret: "secret-b"})

	signed, err := codec.Issue(1, "admin", "admin")
	require.NoError(t, err)

	_, err = other.Verify(signed)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	codec := newTestCodec(t, Config{TTL: time.Hour})

	issuedAt := time.Now().Add(-2 * time.Hour)
	codec.now = func() time.Time { return issuedAt }
	signed, err := codec.Issue(1, "admin", "admin")
	require.NoError(t, err)

	codec.now = time.Now
	_, err = codec.Verify(signed)
	assert.Error(t, err)
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	issuerA := newTestCodec(t, Config{Issuer: "http://a.local"})
	issuerB := newTestCodec(t, Config{Issuer: "http://b.local"})

	signed, err := issuerA.Issue(1, "admin", "admin")
	require.NoError(t, err)

	_, err = issuerB.Verify(signed)
	assert.Error(t, err)
}

func TestVerifyRejectsAudienceMismatch(t *testing.T) {
	audA := newTestCodec(t, Config{Audience: "http://a.local"})
	audB := newTestCodec(t, Config{Audience: "http://b.local"})

	signed, err := audA.Issue(1, "admin", "admin")
	require.NoError(t, err)

	_, err = audB.Verify(signed)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	codec := newTestCodec(t, Config{})
	_, err := codec.Verify("not.a.token")
	assert.Error(t, err)
}

func TestVerifyRejectsResetToken(t *testing.T) {
	codec := newTestCodec(t, Config{})

	signed, jti, err := codec.IssueReset(7)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	_, err = codec.Verify(signed)
	assert.Error(t, err, "reset tokens must not authenticate API calls")
}

func TestResetRoundTrip(t *testing.T) {
	codec := newTestCodec(t, Config{ResetTTL: 15 * time.Minute})

	signed, issuedJTI, err := codec.IssueReset(7)
	require.NoError(t, err)

	userID, jti, err := codec.VerifyReset(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
	assert.Equal(t, issuedJTI, jti)
}

func TestVerifyResetRejectsAccessToken(t *testing.T) {
	codec := newTestCodec(t, Config{})

	signed, err := codec.Issue(7, "jdoe", "employee")
	require.NoError(t, err)

	_, _, err = codec.VerifyReset(signed)
	assert.Error(t, err)
}
