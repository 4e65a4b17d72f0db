package security

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	adminKeyPrefix   = "sbk_"
	adminKeyLength   = 40
	adminKeyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
	errEmptyAdminKey  = errors.New("admin key must not be empty")
)

// GenerateAdminKey returns a fresh operator key. Only its bcrypt hash is
// meant to be stored in ADMIN_KEY_HASH.
func GenerateAdminKey() (string, error) {
	body, err := RandomString(adminKeyLength, adminKeyAlphabet)
	if err != nil {
		return "", err
	}
	return adminKeyPrefix + body, nil
}

func HashAdminKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errEmptyAdminKey
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyAdminKey reports whether key matches hash. An empty hash never matches,
// so operator routes stay closed until a hash is configured.
func VerifyAdminKey(hash string, key string) bool {
	hash = strings.TrimSpace(hash)
	key = strings.TrimSpace(key)
	if hash == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}

// RandomString returns a cryptographically secure, unbiased string of the requested length.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}

	return string(value), nil
}
