// Package admin authenticates the single operator account that may mutate
// the catalog over the JSON API. There is no user registry; the credential
// comes from configuration and a successful login yields a short-lived JWT.
package admin

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Credentials struct {
	username string
	hash     []byte
}

// NewCredentials takes a bcrypt hash of the admin password. Use
// HashPassword when only a plaintext password is configured.
func NewCredentials(username string, passwordHash []byte) *Credentials {
	return &Credentials{username: username, hash: passwordHash}
}

func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func (c *Credentials) Verify(username, password string) error {
	if c == nil || username != c.username {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(c.hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
