package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
	ErrEmptySubject = errors.New("token subject is required")
)

const (
	issuer = "foundry"

	// DefaultTokenTTL is how long a minted API token stays valid.
	DefaultTokenTTL = 30 * 24 * time.Hour
)

// Claims holds the JWT payload. The caller's name is the registered subject.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTManager mints and validates API bearer tokens.
type JWTManager struct {
	secret []byte
	now    func() time.Time
}

// NewJWTManager creates a JWTManager with the given HMAC secret.
func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret), now: time.Now}
}

// Mint creates a token for subject valid for ttl; zero ttl uses DefaultTokenTTL.
func (m *JWTManager) Mint(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ValidateToken parses and validates a JWT string, returning the claims.
func (m *JWTManager) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
