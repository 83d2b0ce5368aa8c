package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/hostbridge/pkg/adapters/memory"
	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/persistence/middleware"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlyingStore := memory.NewSettingsStore()
	// Mask keys containing "password" or "ssn"
	mw, err := middleware.NewPIIMiddleware([]string{"password", "ssn"})
	if err != nil {
		t.Fatal(err)
	}
	secureStore := mw(underlyingStore)
	ctx := context.Background()

	for _, s := range []domain.Setting{
		{Key: "username", Value: "jdoe"},
		{Key: "user_password", Value: "secret123"},
		{Key: "ssn_number", Value: "999-99-9999"},
	} {
		if err := secureStore.Save(ctx, s); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	all, err := underlyingStore.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, s := range all {
		got[s.Key] = s.Value
	}

	if got["username"] != "jdoe" {
		t.Error("Username shouldn't be masked")
	}
	if got["user_password"] != middleware.Mask {
		t.Errorf("Password should be masked, got %q", got["user_password"])
	}
	if got["ssn_number"] != middleware.Mask {
		t.Errorf("SSN should be masked, got %q", got["ssn_number"])
	}
}

func TestPIIMiddleware_InvalidPattern(t *testing.T) {
	if _, err := middleware.NewPIIMiddleware([]string{"("}); err == nil {
		t.Error("Expected error for invalid pattern")
	}
}

func TestChain_MaskBeforeEncrypt(t *testing.T) {
	underlyingStore := memory.NewSettingsStore()
	pii, err := middleware.NewPIIMiddleware([]string{"password"})
	if err != nil {
		t.Fatal(err)
	}
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	if err != nil {
		t.Fatal(err)
	}
	store := middleware.Chain(underlyingStore, pii, enc)
	ctx := context.Background()

	if err := store.Save(ctx, domain.Setting{Key: "db_password", Value: "hunter2"}); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, "db_password")
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != middleware.Mask {
		t.Errorf("Expected masked value after decrypt, got %q", got.Value)
	}
	if err := store.Ping(ctx); err != nil {
		t.Errorf("Ping should reach the underlying store: %v", err)
	}
}
