package server

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName carries the signed session: a visitor id and, once the
// OAuth flow completed, the visitor's GitHub access token.
const SessionCookieName = "gf_session"

// stateCookieName holds the OAuth state nonce between login and callback.
const stateCookieName = "gf_oauth_state"

// sessionTTL matches the six hour lifetime the GitHub token cookie had.
const sessionTTL = 6 * time.Hour

type sessionClaims struct {
	Token string `json:"tok,omitempty"`
	jwt.RegisteredClaims
}

// CookieSigner signs and verifies the session cookie payload.
type CookieSigner struct {
	secret []byte
}

func NewCookieSigner(secret string) *CookieSigner {
	return &CookieSigner{secret: []byte(secret)}
}

// Issue signs a session cookie value for the visitor id, optionally binding
// a GitHub access token to it.
func (s *CookieSigner) Issue(sid, token string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Token: token,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse verifies a cookie value and returns the visitor id and GitHub token.
func (s *CookieSigner) Parse(raw string) (sid, token string, err error) {
	var claims sessionClaims

	parsed, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", "", err
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", "", fmt.Errorf("invalid session cookie")
	}

	return claims.Subject, claims.Token, nil
}
