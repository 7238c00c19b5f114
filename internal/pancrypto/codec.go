// Package pancrypto encrypts card numbers at rest and masks them for
// display. A Codec is constructed once at startup and passed to every
// component that touches raw PANs.
package pancrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/bank-suite/cards-service/internal/domain"
)

const nonceLength = 12

const maskPrefix = "**** **** **** "

// Codec performs AES-GCM encryption of PANs. Each encrypted value is
// self-contained: a fresh random nonce is prepended to the ciphertext
// and tag before base64 encoding.
type Codec struct {
	aead      cipher.AEAD
	ephemeral bool
}

// New builds a Codec from a base64-encoded 16-, 24- or 32-byte key.
func New(keyBase64 string) (*Codec, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(keyBase64))
	if err != nil {
		return nil, fmt.Errorf("decode card key: %w", err)
	}
	return fromKey(key, false)
}

// NewEphemeral generates a random 32-byte key. Ciphertext produced with
// an ephemeral key is unrecoverable after a restart, so this is only
// acceptable outside production.
func NewEphemeral() (*Codec, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate ephemeral card key: %w", err)
	}
	return fromKey(key, true)
}

func fromKey(key []byte, ephemeral bool) (*Codec, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create card cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceLength)
	if err != nil {
		return nil, fmt.Errorf("create card aead: %w", err)
	}
	return &Codec{aead: aead, ephemeral: ephemeral}, nil
}

// Ephemeral reports whether the key was generated at startup instead of
// supplied through configuration.
func (c *Codec) Ephemeral() bool {
	return c.ephemeral
}

func (c *Codec) Encrypt(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("%w: empty card number", domain.ErrValidation)
	}
	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. A malformed blob or a failed authentication
// tag (tampering, wrong key) yields domain.ErrCrypto; the record is not
// recoverable and the failure must not be retried.
func (c *Codec) Decrypt(blob string) (string, error) {
	combined, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: malformed ciphertext: %v", domain.ErrCrypto, err)
	}
	if len(combined) < nonceLength+c.aead.Overhead() {
		return "", fmt.Errorf("%w: ciphertext too short", domain.ErrCrypto)
	}
	nonce, ciphertext := combined[:nonceLength], combined[nonceLength:]
	plain, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", domain.ErrCrypto)
	}
	return string(plain), nil
}

// Mask strips separators and shows only the last 4 digits in the fixed
// display pattern. Inputs with fewer than 4 digits come back fully
// masked.
func Mask(pan string) string {
	digits := Digits(pan)
	if len(digits) < 4 {
		return "****"
	}
	return maskPrefix + digits[len(digits)-4:]
}

// Digits drops everything but 0-9 from a human-entered card number.
func Digits(pan string) string {
	var b strings.Builder
	for _, r := range pan {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
