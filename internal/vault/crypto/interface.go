// Package crypto provides the vault's authenticated encryption layer.
// Secret values are sealed with an AEAD cipher (AES-256-GCM or
// ChaCha20-Poly1305) under a single 256-bit master key and serialized as
// "nonceHex:cipherHex" tokens.
package crypto

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}
