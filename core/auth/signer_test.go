package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendaestudiantil/backend/core"
)

func TestIssueVerify(t *testing.T) {
	conf := core.NewTestConfig()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	signer := NewSigner(conf).WithClock(func() time.Time { return now })

	validToken, err := signer.Issue("std-1", "ana@test.test")
	require.NoError(t, err)

	// issued 31 days ago: past the 30 day lifetime
	expiredToken, err := signer.WithClock(func() time.Time { return now.AddDate(0, 0, -31) }).Issue("std-1", "ana@test.test")
	require.NoError(t, err)

	otherConf := core.NewTestConfig()
	otherConf.SecretKey = "another-secret"
	foreignToken, err := NewSigner(otherConf).WithClock(func() time.Time { return now }).Issue("std-1", "ana@test.test")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		StudentID:        "std-1",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512Token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		StudentID:        "std-1",
	}).SignedString([]byte(conf.SecretKey))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "no token", wantErr: ErrInvalidToken},
		{name: "garbage", token: "not.a.jwt", wantErr: ErrInvalidToken},
		{name: "expired token", token: expiredToken, wantErr: ErrInvalidToken},
		{name: "wrong secret", token: foreignToken, wantErr: ErrInvalidToken},
		{name: "alg none", token: noneToken, wantErr: ErrInvalidToken},
		{name: "unexpected method", token: hs512Token, wantErr: ErrInvalidToken},
		{name: "valid token", token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := signer.Verify(tt.token)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "std-1", claims.StudentID)
			assert.Equal(t, "ana@test.test", claims.Email)
			assert.Equal(t, conf.AppName, claims.Issuer)
		})
	}
}

func TestTokenLifetime(t *testing.T) {
	conf := core.NewTestConfig()
	issuedAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	token, err := NewSigner(conf).WithClock(func() time.Time { return issuedAt }).Issue("std-1", "ana@test.test")
	require.NoError(t, err)

	stillValid := NewSigner(conf).WithClock(func() time.Time { return issuedAt.Add(30*24*time.Hour - time.Minute) })
	_, err = stillValid.Verify(token)
	assert.NoError(t, err)

	expired := NewSigner(conf).WithClock(func() time.Time { return issuedAt.Add(30 * 24 * time.Hour) })
	_, err = expired.Verify(token)
	assert.Equal(t, ErrInvalidToken, err)
}
