package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenTTL bounds an admin credential's lifetime. There is no server-side
// revocation; expiry is the only thing that ends a session.
const TokenTTL = 2 * time.Hour

// CookieName is the cookie the admin credential travels in.
const CookieName = "admin_token"

// AdminClaims is the signed payload of an admin credential.
type AdminClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// IssueToken mints a signed admin credential valid for TokenTTL from now.
func IssueToken(secret string) (string, error) {
	return issueToken(secret, time.Now().Add(TokenTTL))
}

func issueToken(secret string, expiresAt time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("signing secret is empty")
	}
	claims := AdminClaims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken reports whether tokenStr is a validly signed, unexpired admin
// credential. Every failure mode collapses to false; callers only gate on it.
func VerifyToken(tokenStr, secret string) bool {
	if tokenStr == "" || secret == "" {
		return false
	}
	var claims AdminClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return false
	}
	return claims.Admin
}

// CookieDirective renders the Set-Cookie value carrying an admin credential.
// Secure is omitted in the local/dev posture so the cookie works over plain HTTP.
func CookieDirective(token string, secure bool) string {
	d := fmt.Sprintf("%s=%s; Path=/; Max-Age=%d; HttpOnly; SameSite=Lax", CookieName, token, int(TokenTTL.Seconds()))
	if secure {
		d += "; Secure"
	}
	return d
}

// ClearCookieDirective renders the Set-Cookie value that ends an admin session.
func ClearCookieDirective(secure bool) string {
	d := fmt.Sprintf("%s=; Path=/; Max-Age=0; HttpOnly; SameSite=Lax", CookieName)
	if secure {
		d += "; Secure"
	}
	return d
}
