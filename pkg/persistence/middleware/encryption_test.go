package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/hostbridge/pkg/adapters/memory"
	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/persistence/middleware"
	"github.com/aretw0/hostbridge/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func encrypted(t *testing.T, next ports.SettingsStore, cfg middleware.EncryptionConfig) ports.SettingsStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	if err != nil {
		t.Fatalf("NewEncryptionMiddleware failed: %v", err)
	}
	return mw(next)
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := memory.NewSettingsStore()
	secureStore := encrypted(t, underlyingStore, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ctx := context.Background()

	// 1. Save
	if err := secureStore.Save(ctx, domain.Setting{Key: "api_token", Value: "my-secret-sauce", Category: "auth"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 2. Verify Underlying Store directly (Should be encrypted)
	stored, err := underlyingStore.Get(ctx, "api_token")
	if err != nil {
		t.Fatalf("Underlying get failed: %v", err)
	}
	if !strings.HasPrefix(stored.Value, middleware.EncryptedPrefix) {
		t.Fatalf("Expected encrypted envelope, found: %q", stored.Value)
	}
	if strings.Contains(stored.Value, "my-secret-sauce") {
		t.Fatal("Secret leaked into the underlying store")
	}
	if stored.Category != "auth" {
		t.Errorf("Category should stay readable, got %q", stored.Category)
	}

	// 3. Get and List via Middleware (Should be decrypted)
	loaded, err := secureStore.Get(ctx, "api_token")
	if err != nil {
		t.Fatalf("Get via middleware failed: %v", err)
	}
	if loaded.Value != "my-secret-sauce" {
		t.Errorf("Expected 'my-secret-sauce', got %v", loaded.Value)
	}

	all, err := secureStore.List(ctx)
	if err != nil {
		t.Fatalf("List via middleware failed: %v", err)
	}
	if len(all) != 1 || all[0].Value != "my-secret-sauce" {
		t.Errorf("Unexpected list: %+v", all)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := memory.NewSettingsStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	secureStoreOld := encrypted(t, underlyingStore, middleware.EncryptionConfig{ActiveKey: oldKey})

	// 1. Save with OLD key
	if err := secureStoreOld.Save(ctx, domain.Setting{Key: "data", Value: "encrypted-with-old-key"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 2. Load with NEW key (Active) + OLD key (Fallback)
	secureStoreNew := encrypted(t, underlyingStore, middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})

	loaded, err := secureStoreNew.Get(ctx, "data")
	if err != nil {
		t.Fatalf("Get with rotated key failed: %v", err)
	}
	if loaded.Value != "encrypted-with-old-key" {
		t.Errorf("Decryption with fallback key failed")
	}

	// 3. Save again (now under the NEW key)
	loaded.Value = "encrypted-with-new-key"
	if err := secureStoreNew.Save(ctx, loaded); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}

	// 4. Verify we CANNOT load with just OLD key anymore
	if _, err := secureStoreOld.Get(ctx, "data"); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_PlainValueFailsSecure(t *testing.T) {
	underlyingStore := memory.NewSettingsStore()
	ctx := context.Background()
	if err := underlyingStore.Save(ctx, domain.Setting{Key: "legacy", Value: "plain"}); err != nil {
		t.Fatal(err)
	}

	secureStore := encrypted(t, underlyingStore, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	if _, err := secureStore.Get(ctx, "legacy"); !errors.Is(err, middleware.ErrNotEncrypted) {
		t.Errorf("Expected ErrNotEncrypted, got %v", err)
	}
	if _, err := secureStore.List(ctx); !errors.Is(err, middleware.ErrNotEncrypted) {
		t.Errorf("Expected ErrNotEncrypted from List, got %v", err)
	}

	// Missing keys still surface the store's own error.
	if _, err := secureStore.Get(ctx, "absent"); !errors.Is(err, domain.ErrSettingNotFound) {
		t.Errorf("Expected ErrSettingNotFound, got %v", err)
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	if _, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")}); err == nil {
		t.Error("Expected error for invalid key size")
	}
	if _, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	}); err == nil {
		t.Error("Expected error for invalid fallback key size")
	}
}

func TestDecodeKey(t *testing.T) {
	key := generateKey(t)
	got, err := middleware.DecodeKey(base64.StdEncoding.EncodeToString(key))
	if err != nil {
		t.Fatalf("DecodeKey failed: %v", err)
	}
	if string(got) != string(key) {
		t.Error("DecodeKey mismatch")
	}

	if _, err := middleware.DecodeKey("not base64!"); err == nil {
		t.Error("Expected error for bad base64")
	}
	if _, err := middleware.DecodeKey(base64.StdEncoding.EncodeToString([]byte("short"))); err == nil {
		t.Error("Expected error for short key")
	}
}
