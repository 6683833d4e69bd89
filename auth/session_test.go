package auth

import (
	"sync"
	"testing"
)

func TestMemoryStoreCreateResolveClear(t *testing.T) {
	store := NewMemoryStore()

	token, err := store.Create(42)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("Expected 64-char hex token, got %d chars", len(token))
	}

	userID, ok := store.Resolve(token)
	if !ok || userID != 42 {
		t.Errorf("Resolve returned (%d, %v), want (42, true)", userID, ok)
	}

	store.Clear(token)
	if _, ok := store.Resolve(token); ok {
		t.Error("Token still resolves after Clear")
	}

	// Clearing an unknown token must not panic or error.
	store.Clear(token)
	store.Clear("unknown")
}

func TestMemoryStoreTokensAreUnique(t *testing.T) {
	store := NewMemoryStore()
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		token, err := store.Create(i)
		if err != nil {
			t.Fatal(err)
		}
		if seen[token] {
			t.Fatal("Duplicate session token issued")
		}
		seen[token] = true
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			token, err := store.Create(id)
			if err != nil {
				t.Errorf("Create returned error: %v", err)
				return
			}
			if got, ok := store.Resolve(token); !ok || got != id {
				t.Errorf("Resolve returned (%d, %v), want (%d, true)", got, ok, id)
			}
			store.Clear(token)
		}(i)
	}
	wg.Wait()
}
