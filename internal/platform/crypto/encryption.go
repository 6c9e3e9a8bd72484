package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"
)

// envelopeV1 marks sealed values so the layout can evolve without a column
// migration: version byte, then the GCM nonce, then the ciphertext.
const envelopeV1 = 0x01

var (
	ErrBadEnvelope = errors.New("sealed value is malformed")
	ErrOpenFailed  = errors.New("sealed value could not be opened")
)

// Cipher seals the PII columns (CPF) with AES-256-GCM. The key is derived
// from the configured passphrase with SHA-256, so any non-empty
// DATA_ENCRYPTION_KEY works. Without a passphrase values pass through
// unchanged, which keeps local development running without secrets.
type Cipher struct {
	aead cipher.AEAD
}

func New(passphrase string) (*Cipher, error) {
	if passphrase == "" {
		return &Cipher{}, nil
	}
	key := sha256.Sum256([]byte(passphrase))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

func (c *Cipher) Configured() bool {
	return c.aead != nil
}

// Seal encrypts a column value. Empty values stay empty so NULL columns
// round-trip as NULL.
func (c *Cipher) Seal(value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	if !c.Configured() {
		return []byte(value), nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	out := make([]byte, 0, 1+len(nonce)+len(value)+c.aead.Overhead())
	out = append(out, envelopeV1)
	out = append(out, nonce...)
	return c.aead.Seal(out, nonce, []byte(value), nil), nil
}

// Open decrypts a sealed column value. Values written before a key was
// configured carry no envelope marker and are returned as-is.
func (c *Cipher) Open(sealed []byte) (string, error) {
	if len(sealed) == 0 {
		return "", nil
	}
	if !c.Configured() {
		return string(sealed), nil
	}
	if sealed[0] != envelopeV1 {
		return string(sealed), nil
	}
	rest := sealed[1:]
	if len(rest) < c.aead.NonceSize() {
		return "", ErrBadEnvelope
	}
	nonce, data := rest[:c.aead.NonceSize()], rest[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, data, nil)
	if err != nil {
		return "", ErrOpenFailed
	}
	return string(plain), nil
}
