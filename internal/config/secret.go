package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// CompiledSecret holds the embedded SCRIPTBAR_SECRET provided at build time
// via -ldflags. When empty, the SCRIPTBAR_SECRET environment variable is used.
var CompiledSecret string

const (
	sealedPrefix = "enc:"
	saltSize     = 16
	nonceSize    = 12
)

// Passphrase returns the secret used to seal config values.
func Passphrase() string {
	if CompiledSecret != "" {
		return CompiledSecret
	}
	return strings.TrimSpace(os.Getenv("SCRIPTBAR_SECRET"))
}

// IsSealed reports whether value was written by Seal.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, sealedPrefix)
}

// Seal encrypts value with passphrase and returns "enc:<base64>".
func Seal(value, passphrase string) (string, error) {
	if passphrase == "" {
		return "", errors.New("missing passphrase for sealing")
	}
	data, err := encrypt([]byte(value), passphrase)
	if err != nil {
		return "", err
	}
	return sealedPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// Open reverses Seal. Values without the prefix are returned unchanged.
func Open(value, passphrase string) (string, error) {
	if !IsSealed(value) {
		return value, nil
	}
	if passphrase == "" {
		return "", errors.New("missing passphrase for sealed config value")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}
	plain, err := decrypt(raw, passphrase)
	if err != nil {
		return "", fmt.Errorf("decrypt sealed value: %w", err)
	}
	return string(plain), nil
}

func (c *Config) secrets() []*string {
	return []*string{&c.Source.APIKey, &c.Service.Token}
}

func (c *Config) openSecrets(passphrase string) error {
	for _, field := range c.secrets() {
		plain, err := Open(*field, passphrase)
		if err != nil {
			return err
		}
		*field = plain
	}
	return nil
}

func (c *Config) sealSecrets(passphrase string) error {
	if passphrase == "" {
		return nil
	}
	for _, field := range c.secrets() {
		if *field == "" || IsSealed(*field) {
			continue
		}
		sealed, err := Seal(*field, passphrase)
		if err != nil {
			return err
		}
		*field = sealed
	}
	return nil
}

func encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)

	out := make([]byte, 0, saltSize+nonceSize+len(sealed))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

func decrypt(ciphertext []byte, passphrase string) ([]byte, error) {
	if len(ciphertext) < saltSize+nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	salt := ciphertext[:saltSize]
	nonce := ciphertext[saltSize : saltSize+nonceSize]
	payload := ciphertext[saltSize+nonceSize:]

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, nonce, payload, nil)
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

func deriveKey(passphrase string, salt []byte) ([]byte, error) {
	const (
		keyLength = 32
		n         = 1 << 15
		r         = 8
		p         = 1
	)

	key, err := scrypt.Key([]byte(passphrase), salt, n, r, p, keyLength)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}
