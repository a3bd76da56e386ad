package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token scopes. A token is only ever accepted by the verify method matching
// the scope it was issued with, so a refresh token can never authenticate a
// normal request and vice versa.
const (
	ScopeAccess  = "access_token"
	ScopeRefresh = "refresh_token"
	ScopeEmail   = "email_token"
)

// ErrInvalidToken covers bad signature, expiry, and scope mismatch alike.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the token subject (the user's email) plus the scope tag.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Service issues and verifies signed, time-limited tokens. It is stateless;
// the only server-side token state is the refresh token stored on the user.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	emailTTL   time.Duration
}

// NewService builds a token service. TTLs are given in seconds.
func NewService(secret string, accessTTL, refreshTTL, emailTTL int) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessTTL) * time.Second,
		refreshTTL: time.Duration(refreshTTL) * time.Second,
		emailTTL:   time.Duration(emailTTL) * time.Second,
	}
}

// IssueAccessToken signs a short-lived access-scope token for subject.
func (s *Service) IssueAccessToken(subject string) (string, error) {
	return s.issue(subject, ScopeAccess, s.accessTTL)
}

// IssueRefreshToken signs a long-lived refresh-scope token for subject.
func (s *Service) IssueRefreshToken(subject string) (string, error) {
	return s.issue(subject, ScopeRefresh, s.refreshTTL)
}

// IssueEmailToken signs a single-purpose email-verification token for subject.
func (s *Service) IssueEmailToken(subject string) (string, error) {
	return s.issue(subject, ScopeEmail, s.emailTTL)
}

func (s *Service) issue(subject, scope string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyAccessToken validates an access-scope token and returns its subject.
func (s *Service) VerifyAccessToken(tokenString string) (string, error) {
	return s.verify(tokenString, ScopeAccess)
}

// VerifyRefreshToken validates a refresh-scope token and returns its subject.
func (s *Service) VerifyRefreshToken(tokenString string) (string, error) {
	return s.verify(tokenString, ScopeRefresh)
}

// VerifyEmailToken validates an email-verification token and returns its subject.
func (s *Service) VerifyEmailToken(tokenString string) (string, error) {
	return s.verify(tokenString, ScopeEmail)
}

func (s *Service) verify(tokenString, wantScope string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Scope != wantScope || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
