package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ErrUnauthorized marks requests with a missing or invalid session marker.
var ErrUnauthorized = errors.New("unauthorized")

// SessionTTL bounds the lifetime of every session marker.
const SessionTTL = 24 * time.Hour

// SessionCookieName is the cookie carrying the signed session marker.
const SessionCookieName = "session"

// AuthIface is the session gate checked by the admin middleware.
type AuthIface interface {
	Login(username, password string) (string, error)
	ValidateToken(token string) bool
	Revoke(token string)
	BuildSessionCookie() (*http.Cookie, error)
	ExpiredSessionCookie() *http.Cookie
	IsAuthorized(r *http.Request) bool
}

// Claims is the payload of the cookie-variant session marker.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session_id"`
}

// Auth holds the static admin credential and the process-wide set of
// valid bearer tokens. Sessions do not survive a restart; that is
// accepted, not a bug.
type Auth struct {
	username string
	password string
	secret   []byte

	mu       sync.Mutex
	sessions map[string]time.Time
	now      func() time.Time
}

func NewAuth(username, password string) *Auth {
	// Per-process signing key: restarting revokes cookie sessions too.
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic(err)
	}

	return &Auth{
		username: username,
		password: password,
		secret:   secret,
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Login checks the credential pair and issues an opaque bearer token with
// 256 bits of entropy. The comparison is constant-time.
func (a *Auth) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !userOK || !passOK {
		return "", ErrUnauthorized
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	a.mu.Lock()
	a.sessions[token] = a.now().Add(SessionTTL)
	a.mu.Unlock()

	return token, nil
}

// ValidateToken reports whether the token is a live member of the session
// set, dropping it when the TTL has passed.
func (a *Auth) ValidateToken(token string) bool {
	if token == "" {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	expiry, ok := a.sessions[token]
	if !ok {
		return false
	}
	if a.now().After(expiry) {
		delete(a.sessions, token)
		return false
	}
	return true
}

// Revoke removes one token; other sessions stay valid.
func (a *Auth) Revoke(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

// BuildSessionCookie signs a JWT session marker for clients that rely on
// cookies instead of the Authorization header.
func (a *Auth) BuildSessionCookie() (*http.Cookie, error) {
	expires := a.now().Add(SessionTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		SessionID: uuid.New().String(),
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
	}, nil
}

// ExpiredSessionCookie overwrites the session cookie with an immediately
// expired one.
func (a *Auth) ExpiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	}
}

// parseSessionCookie verifies the signed cookie marker.
func (a *Auth) parseSessionCookie(c *http.Cookie) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// BearerToken extracts the opaque token from the Authorization header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// IsAuthorized accepts either a live bearer token or a valid session
// cookie. Every admin route enforces this; there is no unchecked variant.
func (a *Auth) IsAuthorized(r *http.Request) bool {
	if a.ValidateToken(BearerToken(r)) {
		return true
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return false
	}
	_, err = a.parseSessionCookie(cookie)
	return err == nil
}
