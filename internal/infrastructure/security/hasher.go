// Package security implements student.PasswordHasher.
package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/alem-hub/progress-tracker/internal/domain/student"
)

var (
	_ student.PasswordHasher = SHA256Hasher{}
	_ student.PasswordHasher = BcryptHasher{}
)

// SHA256Hasher produces lowercase hex SHA-256 digests, the format of the
// existing students document.
type SHA256Hasher struct{}

// Hash returns hex(sha256(password)).
func (SHA256Hasher) Hash(password string) (string, error) {
	return sha256Hex(password), nil
}

// Verify compares in constant time.
func (SHA256Hasher) Verify(digest, password string) bool {
	return verifySHA256(digest, password)
}

// BcryptHasher stores new passwords as bcrypt hashes and still accepts
// legacy SHA-256 hex digests.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher with bcrypt.DefaultCost when cost is 0.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{Cost: cost}
}

// Hash hashes a password using bcrypt.
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Verify checks bcrypt hashes, falling back to SHA-256 for legacy digests.
func (h BcryptHasher) Verify(digest, password string) bool {
	if IsBcrypt(digest) {
		err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
		return err == nil
	}
	return verifySHA256(digest, password)
}

// IsBcrypt reports whether digest looks like a bcrypt hash.
func IsBcrypt(digest string) bool {
	_, err := bcrypt.Cost([]byte(digest))
	return err == nil && strings.HasPrefix(digest, "$2")
}

// New returns the hasher registered under name ("sha256" or "bcrypt").
func New(name string) (student.PasswordHasher, error) {
	switch name {
	case "", "sha256":
		return SHA256Hasher{}, nil
	case "bcrypt":
		return NewBcryptHasher(0), nil
	default:
		return nil, errors.New("security: unknown password hasher " + name)
	}
}

func sha256Hex(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func verifySHA256(digest, password string) bool {
	want := sha256Hex(password)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(digest)), []byte(want)) == 1
}
