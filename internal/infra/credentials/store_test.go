package credentials

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "credentials.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	key, err := store.APIKey(ctx)
	if err != nil {
		t.Fatalf("APIKey returned error: %v", err)
	}
	if key != "" {
		t.Fatalf("APIKey on empty store = %q, want empty", key)
	}

	if err := store.SetToken(ctx, ProviderGemini, "  AIza-test  "); err != nil {
		t.Fatalf("SetToken returned error: %v", err)
	}
	key, err = store.APIKey(ctx)
	if err != nil {
		t.Fatalf("APIKey returned error: %v", err)
	}
	if key != "AIza-test" {
		t.Fatalf("APIKey = %q, want %q", key, "AIza-test")
	}

	if err := store.SetToken(ctx, ProviderGemini, "AIza-next"); err != nil {
		t.Fatalf("SetToken replace returned error: %v", err)
	}
	key, _ = store.APIKey(ctx)
	if key != "AIza-next" {
		t.Fatalf("APIKey after replace = %q, want %q", key, "AIza-next")
	}

	if err := store.Clear(ctx, ProviderGemini); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	key, _ = store.APIKey(ctx)
	if key != "" {
		t.Fatalf("APIKey after clear = %q, want empty", key)
	}
}

func TestStoreRejectsEmptyToken(t *testing.T) {
	store := openTestStore(t)
	if err := store.SetToken(context.Background(), ProviderGemini, "   "); err == nil {
		t.Fatal("expected error for blank token")
	}
}

func TestChainPrefersEarlierSource(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	chain := Chain{store, StaticKey("env-key")}
	key, err := chain.APIKey(ctx)
	if err != nil {
		t.Fatalf("APIKey returned error: %v", err)
	}
	if key != "env-key" {
		t.Fatalf("APIKey = %q, want env fallback", key)
	}

	if err := store.SetToken(ctx, ProviderGemini, "saved-key"); err != nil {
		t.Fatalf("SetToken returned error: %v", err)
	}
	key, _ = chain.APIKey(ctx)
	if key != "saved-key" {
		t.Fatalf("APIKey = %q, want stored key to win", key)
	}
}
