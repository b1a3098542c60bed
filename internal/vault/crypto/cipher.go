package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	apperrors "github.com/redkeep/redkeep/internal/errors"
	customValidation "github.com/redkeep/redkeep/internal/validation"
)

// Supported AEAD algorithm names.
const (
	AlgorithmAESGCM           = "aes-gcm"
	AlgorithmChaCha20Poly1305 = "chacha20-poly1305"
)

// tokenSeparator joins the hex-encoded nonce and ciphertext in a stored token.
const tokenSeparator = ":"

// ValidateKey checks that hexKey is a 64-character hexadecimal string (a
// 256-bit key). It must pass before any store operation proceeds.
func ValidateKey(hexKey string) error {
	if err := customValidation.HexKey256.Validate(hexKey); err != nil {
		return apperrors.Wrap(
			apperrors.ErrInvalidInput,
			"encryption key must be a 64-character hexadecimal string",
		)
	}
	return nil
}

// ParseKey validates and decodes a 64-hex-character key into its 32 raw bytes.
func ParseKey(hexKey string) ([]byte, error) {
	if err := ValidateKey(hexKey); err != nil {
		return nil, err
	}

	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "encryption key is not valid hex")
	}

	return key, nil
}

// GenerateKey returns a fresh random 256-bit key as 64 hexadecimal characters.
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// Cipher seals and opens secret values as "nonceHex:cipherHex" tokens under a
// single master key. Instances are stateless and safe for concurrent use.
type Cipher struct {
	aead AEAD
}

// New creates a Cipher from a 64-hex-character master key and an algorithm
// name (AlgorithmAESGCM or AlgorithmChaCha20Poly1305).
func New(hexKey, algorithm string) (*Cipher, error) {
	key, err := ParseKey(hexKey)
	if err != nil {
		return nil, err
	}

	var aead AEAD
	switch algorithm {
	case AlgorithmAESGCM:
		aead, err = NewAESGCM(key)
	case AlgorithmChaCha20Poly1305:
		aead, err = NewChaCha20Poly1305(key)
	default:
		return nil, apperrors.Wrap(
			apperrors.ErrInvalidInput,
			fmt.Sprintf("unsupported encryption algorithm: %s", algorithm),
		)
	}
	if err != nil {
		return nil, err
	}

	return &Cipher{aead: aead}, nil
}

// EncryptToken encrypts a plaintext value and returns the storage token
// "nonceHex:cipherHex". A fresh random nonce is used per call.
func (c *Cipher) EncryptToken(plaintext string) (string, error) {
	ciphertext, nonce, err := c.aead.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt value: %w", err)
	}

	return hex.EncodeToString(nonce) + tokenSeparator + hex.EncodeToString(ciphertext), nil
}

// DecryptToken reverses EncryptToken. It fails if the token is malformed, the
// key does not match the one used to encrypt, or the ciphertext was tampered
// with (AEAD authentication failure).
func (c *Cipher) DecryptToken(token string) (string, error) {
	nonceHex, cipherHex, found := strings.Cut(token, tokenSeparator)
	if !found {
		return "", apperrors.New("malformed token: missing separator")
	}

	nonce, err := hex.DecodeString(nonceHex)
	if err != nil {
		return "", apperrors.New("malformed token: nonce is not valid hex")
	}

	ciphertext, err := hex.DecodeString(cipherHex)
	if err != nil {
		return "", apperrors.New("malformed token: ciphertext is not valid hex")
	}

	plaintext, err := c.aead.Decrypt(ciphertext, nonce, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
