package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType is carried in the "type" claim; every verifier checks it.
type TokenType string

const (
	TokenTypeAccess            TokenType = "access"
	TokenTypeRefresh           TokenType = "refresh"
	TokenTypePasswordReset     TokenType = "password_reset"
	TokenTypeEmailVerification TokenType = "email_verification"
)

const (
	claimSubject = "sub"
	claimType    = "type"
	claimExpires = "exp"
	claimIssued  = "iat"
	claimID      = "jti"
)

var (
	// ErrTokenInvalid: bad signature, wrong algorithm, malformed or empty payload,
	// missing subject or unexpected type.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenExpired: signature is fine but exp is in the past.
	ErrTokenExpired = errors.New("token has expired")
)

// IsTokenError reports whether err is one of the codec's decode failures.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenInvalid) || errors.Is(err, ErrTokenExpired)
}

// TokenCodec signs and verifies HMAC JWTs with a shared secret.
type TokenCodec struct {
	secret     []byte
	method     jwt.SigningMethod
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTokenCodec accepts only the HMAC family (HS256, HS384, HS512).
func NewTokenCodec(secret, algorithm string, defaultTTL time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", algorithm)
	}
	return &TokenCodec{
		secret:     []byte(secret),
		method:     method,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}, nil
}

// WithClock returns a codec reading time from now. Used by tests.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

// CreateToken signs claims plus exp = now + ttl. A zero ttl means the
// default; a negative ttl yields a token that is already expired.
func (c *TokenCodec) CreateToken(claims map[string]any, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	mc[claimExpires] = jwt.NewNumericDate(c.now().Add(ttl))

	signed, err := jwt.NewWithClaims(c.method, mc).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// DecodeToken verifies the signature and expiry and returns the claims,
// exp included.
func (c *TokenCodec) DecodeToken(tokenString string) (map[string]any, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if len(claims) == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Issue mints a token for subject with the given type. Each call yields a
// distinct token, so overwriting a stored token always revokes the old one.
func (c *TokenCodec) Issue(subject string, typ TokenType, ttl time.Duration) (string, error) {
	return c.CreateToken(map[string]any{
		claimSubject: subject,
		claimType:    string(typ),
		claimIssued:  jwt.NewNumericDate(c.now()),
		claimID:      uuid.NewString(),
	}, ttl)
}

// Verify decodes token and returns its subject, requiring the given type
// and a non-empty subject.
func (c *TokenCodec) Verify(tokenString string, typ TokenType) (string, error) {
	claims, err := c.DecodeToken(tokenString)
	if err != nil {
		return "", err
	}
	if t, _ := claims[claimType].(string); t != string(typ) {
		return "", fmt.Errorf("%w: expected %s token", ErrTokenInvalid, typ)
	}
	subject, _ := claims[claimSubject].(string)
	if subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	return subject, nil
}
