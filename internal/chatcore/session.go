package chatcore

import (
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"pairchat/backend/internal/models"
)

const handleTTL = 72 * time.Hour

// Sessions maps issued client handles to user identities. The handle is a
// signed JWT carrying the session ID, but the in-memory registry is the
// source of truth: a well-signed token for a revoked session does not resolve.
type Sessions struct {
	secret []byte

	mu    sync.Mutex
	users map[string]*models.User // session ID -> identity
}

// NewSessions creates a registry whose lifetime equals the server process.
func NewSessions(secret []byte) *Sessions {
	return &Sessions{
		secret: secret,
		users:  make(map[string]*models.User),
	}
}

// Issue mints a brand-new identity and returns the opaque handle for it.
// There is no handle reuse or resumption; every call creates a new session.
func (s *Sessions) Issue(displayName string) (string, *models.User, error) {
	user := models.NewUser(displayName)
	sessionID := uuid.New().String()

	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": time.Now().Add(handleTTL).Unix(),
		"iss": "pairchat-service",
	}
	handle, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	s.users[sessionID] = user
	s.mu.Unlock()

	return handle, user, nil
}

// Resolve returns the identity a handle was issued for.
// Unknown, revoked, malformed, and mis-signed handles all yield
// ErrSessionNotFound.
func (s *Sessions) Resolve(handle string) (*models.User, error) {
	sessionID, err := s.parse(handle)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return user, nil
}

// RevokeUser destroys the session bound to a user ID and returns the
// identity it held, or nil when no live session maps to the user.
func (s *Sessions) RevokeUser(userID string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sessionID, user := range s.users {
		if user.ID == userID {
			delete(s.users, sessionID)
			return user
		}
	}
	return nil
}

// Revoke destroys the session a handle refers to. Idempotent.
func (s *Sessions) Revoke(handle string) {
	sessionID, err := s.parse(handle)
	if err != nil {
		return
	}
	s.mu.Lock()
	delete(s.users, sessionID)
	s.mu.Unlock()
}

func (s *Sessions) parse(handle string) (string, error) {
	token, err := jwt.Parse(handle, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrSessionNotFound
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrSessionNotFound
	}
	sessionID, ok := claims["sid"].(string)
	if !ok || sessionID == "" {
		return "", ErrSessionNotFound
	}
	return sessionID, nil
}
