package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"

	"github.com/agendaestudiantil/backend/core"
)

// ErrInvalidToken covers every verification failure: malformed, bad signature, wrong method, expired.
var ErrInvalidToken = errors.New("token inválido")

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	StudentID string `json:"id"`
	Email     string `json:"email"`
}

// Signer issues and verifies session tokens.
type Signer interface {
	Issue(id, email string) (string, error)
	Verify(token string) (Claims, error)
}

type jwtSigner struct {
	key      []byte
	issuer   string
	lifetime time.Duration
	now      func() time.Time
}

var _ Signer = (*jwtSigner)(nil) // interface compliance check

func NewSigner(conf *core.Config) *jwtSigner {
	return &jwtSigner{
		key:      []byte(conf.SecretKey),
		issuer:   conf.AppName,
		lifetime: conf.JWTExpirationDelta,
		now:      time.Now,
	}
}

// WithClock returns a copy of the signer reading time from `now`.
func (s jwtSigner) WithClock(now func() time.Time) *jwtSigner {
	s.now = now
	return &s
}

func (s *jwtSigner) Issue(id, email string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
		StudentID: id,
		Email:     email,
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (s *jwtSigner) Verify(token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(), // expiry is checked against the signer clock below
	)
	parsed, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time) {
		return Claims{}, ErrInvalidToken
	}
	if claims.StudentID == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
