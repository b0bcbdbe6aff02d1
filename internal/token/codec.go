// Package token signs and verifies the compact claims object that
// authenticates API callers.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const resetScope = "password_reset"

// Claims is the payload carried by an access token.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Scope    string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// Config holds the signing parameters fixed per deployment.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
	ResetTTL time.Duration
}

// Codec issues and verifies HS256 tokens with a single symmetric secret.
type Codec struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	resetTTL time.Duration
	now      func() time.Time
}

// NewCodec constructs a Codec. The secret must not be empty.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: secret is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	resetTTL := cfg.ResetTTL
	if resetTTL <= 0 {
		resetTTL = 15 * time.Minute
	}
	return &Codec{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		resetTTL: resetTTL,
		now:      time.Now,
	}, nil
}

// Issue builds and signs an access token for the given user.
func (c *Codec) Issue(userID int64, username, role string) (string, error) {
	now := c.now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry, issuer and audience and returns the claims.
// Any failure yields a nil claims result; callers must treat that as
// unauthenticated.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims, err := c.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Scope != "" {
		return nil, errors.New("token: not an access token")
	}
	return claims, nil
}

// IssueReset builds a short-lived single-purpose password reset token.
// The returned jti identifies the token for single-use tracking.
func (c *Codec) IssueReset(userID int64) (signed, jti string, err error) {
	now := c.now()
	jti = uuid.NewString()
	claims := &Claims{
		UserID: userID,
		Scope:  resetScope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.resetTTL)),
		},
	}
	signed, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", "", fmt.Errorf("token: sign reset: %w", err)
	}
	return signed, jti, nil
}

// VerifyReset validates a password reset token and returns the user id and jti.
func (c *Codec) VerifyReset(tokenString string) (userID int64, jti string, err error) {
	claims, err := c.parse(tokenString)
	if err != nil {
		return 0, "", err
	}
	if claims.Scope != resetScope || claims.ID == "" {
		return 0, "", errors.New("token: not a reset token")
	}
	return claims.UserID, claims.ID, nil
}

func (c *Codec) parse(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("token: unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	if err != nil {
		return nil, fmt.Errorf("token: parse: %w", err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token: invalid claims")
	}
	return claims, nil
}
