// Package cryptox holds the password hashers the Identity Store can be
// configured with. The default PlainHasher stores and compares cleartext.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Scheme names accepted by NewHasher.
const (
	SchemePlain    = "plain"
	SchemeBcrypt   = "bcrypt"
	SchemeArgon2id = "argon2id"
)

var ErrUnknownScheme = errors.New("unknown password scheme")

// Hasher turns a password into its stored form and checks candidates
// against a stored value.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(stored, candidate string) bool
}

// NewHasher returns the hasher for scheme; an empty scheme means plain.
func NewHasher(scheme string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", SchemePlain:
		return PlainHasher{}, nil
	case SchemeBcrypt:
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	case SchemeArgon2id:
		return Argon2Hasher{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// PlainHasher stores the password as is; Verify is exact byte equality.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) { return password, nil }

func (PlainHasher) Verify(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// BcryptHasher stores bcrypt hashes.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (BcryptHasher) Verify(stored, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
}

const (
	argon2Prefix  = "argon2id$"
	argon2SaltLen = 16
	argon2KeyLen  = 32
)

// Argon2Hasher stores "argon2id$<salt hex>$<key hex>" using the same
// IDKey parameters the vault key derivation used.
type Argon2Hasher struct{}

func deriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, argon2KeyLen)
}

func (Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := deriveKey([]byte(password), salt)
	return argon2Prefix + hex.EncodeToString(salt) + "$" + hex.EncodeToString(key), nil
}

func (Argon2Hasher) Verify(stored, candidate string) bool {
	rest, ok := strings.CutPrefix(stored, argon2Prefix)
	if !ok {
		return false
	}
	saltHex, keyHex, ok := strings.Cut(rest, "$")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(key, deriveKey([]byte(candidate), salt)) == 1
}
