package auth

import (
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"leavedesk/database"
	"leavedesk/models"
)

var (
	// ErrInvalidCredentials is returned for both an unknown username and a
	// wrong password. Login must never reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnauthenticated is returned when a token resolves to no session.
	ErrUnauthenticated = errors.New("authentication required")
)

// Authenticator verifies credentials and owns the session lifecycle.
type Authenticator struct {
	users    *database.UserStore
	sessions SessionStore
}

func NewAuthenticator(users *database.UserStore, sessions SessionStore) *Authenticator {
	return &Authenticator{users: users, sessions: sessions}
}

// HashPassword produces a bcrypt hash of the plaintext.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// Register creates a new employee account.
func (a *Authenticator) Register(username, plaintext string) (*models.User, error) {
	hash, err := HashPassword(plaintext)
	if err != nil {
		return nil, err
	}

	user, err := a.users.Create(username, hash, models.RoleEmployee)
	if err != nil {
		return nil, err
	}

	logrus.Infof("User %q registered", user.Username)
	return user, nil
}

// Login verifies the credentials and establishes a session, returning its
// token.
func (a *Authenticator) Login(username, plaintext string) (string, error) {
	user, err := a.users.GetByUsername(username)
	if err != nil {
		return "", err
	}
	if user == nil || !CheckPassword(plaintext, user.Password) {
		return "", ErrInvalidCredentials
	}

	token, err := a.sessions.Create(user.ID)
	if err != nil {
		return "", err
	}

	logrus.Debugf("Session created for user %q", user.Username)
	return token, nil
}

// Logout clears the session. Logging out twice, or without a session, is
// not an error.
func (a *Authenticator) Logout(token string) {
	a.sessions.Clear(token)
}

// CurrentUser resolves the caller behind a session token.
func (a *Authenticator) CurrentUser(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	userID, ok := a.sessions.Resolve(token)
	if !ok {
		return nil, ErrUnauthenticated
	}

	user, err := a.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Session points at a deleted account; treat it as stale.
		a.sessions.Clear(token)
		return nil, ErrUnauthenticated
	}
	return user, nil
}
