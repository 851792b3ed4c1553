// Package auth guards the wizard API with a single shared passphrase
// exchanged for a short-lived JWT. The app is single-user, so there is
// no user table; the bcrypt hash of the passphrase comes from the
// environment, and auth is disabled entirely when it is unset.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCreds = errors.New("invalid credentials")

	jwtSecretOnce    sync.Once
	jwtSecretRuntime []byte
	jwtSecretErr     error
)

func jwtSecretFromEnv() ([]byte, error) {
	jwtSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
		if secret != "" {
			jwtSecretRuntime = []byte(secret)
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			jwtSecretErr = fmt.Errorf("failed to generate JWT fallback secret: %w", err)
			return
		}

		jwtSecretRuntime = []byte(base64.RawURLEncoding.EncodeToString(buf))
		log.Print("JWT_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if jwtSecretErr != nil {
		return nil, jwtSecretErr
	}
	if len(jwtSecretRuntime) == 0 {
		return nil, errors.New("JWT secret unavailable")
	}

	return jwtSecretRuntime, nil
}

type Service struct {
	passphraseHash string
}

func NewService() *Service {
	return &Service{passphraseHash: strings.TrimSpace(os.Getenv("APP_PASSPHRASE_HASH"))}
}

// Enabled reports whether a passphrase hash is configured. When it is
// not, the API runs open, which keeps local development friction-free.
func (s *Service) Enabled() bool {
	return s.passphraseHash != ""
}

// Login exchanges the passphrase for a session token.
func (s *Service) Login(passphrase string) (string, error) {
	if s.Enabled() {
		if err := bcrypt.CompareHashAndPassword([]byte(s.passphraseHash), []byte(passphrase)); err != nil {
			return "", ErrInvalidCreds
		}
	}
	return generateToken()
}

func generateToken() (string, error) {
	secretKey, err := jwtSecretFromEnv()
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"sub": "applicant",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}
