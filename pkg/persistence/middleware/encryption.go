package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
)

// EncryptedPrefix marks a stored value as an AES-GCM envelope.
const EncryptedPrefix = "enc:v1:"

// ErrNotEncrypted is returned when a stored value lacks the envelope prefix.
var ErrNotEncrypted = errors.New("setting is missing encrypted data envelope")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

// Validate checks key sizes.
func (c EncryptionConfig) Validate() error {
	if len(c.ActiveKey) != 32 {
		return errors.New("active key must be 32 bytes (AES-256)")
	}
	for i, k := range c.FallbackKeys {
		if len(k) != 32 {
			return fmt.Errorf("fallback key %d must be 32 bytes (AES-256)", i)
		}
	}
	return nil
}

type encryptionMiddleware struct {
	next   ports.SettingsStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts setting values using AES-GCM.
// Keys and categories stay in clear text so List keeps its order.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return func(next ports.SettingsStore) ports.SettingsStore {
		return &encryptionMiddleware{next: next, config: config}
	}, nil
}

func (m *encryptionMiddleware) Save(ctx context.Context, setting domain.Setting) error {
	ciphertext, err := encrypt([]byte(setting.Value), m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt setting %q: %w", setting.Key, err)
	}
	setting.Value = EncryptedPrefix + base64.StdEncoding.EncodeToString(ciphertext)
	return m.next.Save(ctx, setting)
}

func (m *encryptionMiddleware) Get(ctx context.Context, key string) (domain.Setting, error) {
	s, err := m.next.Get(ctx, key)
	if err != nil {
		return domain.Setting{}, err
	}
	return m.open(s)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]domain.Setting, error) {
	list, err := m.next.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Setting, 0, len(list))
	for _, s := range list {
		plain, err := m.open(s)
		if err != nil {
			return nil, err
		}
		out = append(out, plain)
	}
	return out, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *encryptionMiddleware) Ping(ctx context.Context) error {
	return m.next.Ping(ctx)
}

func (m *encryptionMiddleware) open(s domain.Setting) (domain.Setting, error) {
	encoded, ok := strings.CutPrefix(s.Value, EncryptedPrefix)
	if !ok {
		return domain.Setting{}, fmt.Errorf("setting %q: %w", s.Key, ErrNotEncrypted)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return domain.Setting{}, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}
	plain, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return domain.Setting{}, fmt.Errorf("failed to decrypt setting %q: %w", s.Key, err)
	}
	s.Value = string(plain)
	return s, nil
}

// DecodeKey parses a base64 (standard encoding) AES-256 key.
func DecodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid encryption key: want 32 bytes, got %d", len(key))
	}
	return key, nil
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
