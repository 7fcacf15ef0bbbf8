package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

// AES-256-GCM, stored as one URL-safe Base64 blob: [nonce(12) || ciphertext || tag(16)].
// Reservation access tokens are encrypted at rest with this.

// Encrypt encrypts the provided plaintext with AES-256-GCM.
// The encryptionKey must be exactly 32 bytes (256 bits).
func Encrypt(encryptionKey []byte, text string) (string, error) {
	if len(encryptionKey) != 32 {
		return "", errors.New("encryption key must be 32 bytes for AES-256")
	}
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nil, nonce, []byte(text), nil)
	data := append(nonce, ciphertext...)

	return base64.URLEncoding.EncodeToString(data), nil
}

// Decrypt decrypts data produced by Encrypt.
func Decrypt(encryptionKey []byte, encoded string) (string, error) {
	if len(encryptionKey) != 32 {
		return "", errors.New("encryption key must be 32 bytes for AES-256")
	}

	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(raw) < gcm.NonceSize() {
		return "", errors.New("ciphertext shorter than nonce")
	}

	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
