package auth

import (
	"math/rand"
	"strings"
	"sync"
	"testing"
)

func TestTokenStore(t *testing.T) {
	t.Run("Issue", func(t *testing.T) {
		store := NewTokenStore(rand.NewSource(1))

		token := store.Issue()
		if len(token) != tokenLength {
			t.Fatalf("expected token of length %d, got %q", tokenLength, token)
		}
		for _, c := range token {
			if !strings.ContainsRune(tokenAlphabet, c) {
				t.Errorf("token %q contains character %q outside the alphabet", token, c)
			}
		}

		if !store.Validate(token) {
			t.Error("expected issued token to validate")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		store := NewTokenStore(rand.NewSource(2))

		t.Run("rejects empty token", func(t *testing.T) {
			if store.Validate("") {
				t.Error("expected empty token to be invalid")
			}
		})

		t.Run("rejects unknown token", func(t *testing.T) {
			if store.Validate("AAAAAAAA") {
				t.Error("expected unknown token to be invalid")
			}
		})

		t.Run("accepts every issued token", func(t *testing.T) {
			tokens := make([]string, 0, 20)
			for range 20 {
				tokens = append(tokens, store.Issue())
			}
			for _, token := range tokens {
				if !store.Validate(token) {
					t.Errorf("expected token %q to validate", token)
				}
			}
		})
	})

	t.Run("Revoke", func(t *testing.T) {
		store := NewTokenStore(rand.NewSource(3))
		token := store.Issue()

		store.Revoke(token)
		if store.Validate(token) {
			t.Error("expected revoked token to be invalid")
		}

		// Idempotent
		store.Revoke(token)
		if store.Len() != 0 {
			t.Errorf("expected empty store, got %d active tokens", store.Len())
		}
	})

	t.Run("Rotate", func(t *testing.T) {
		t.Run("replaces a valid token", func(t *testing.T) {
			store := NewTokenStore(rand.NewSource(4))
			old := store.Issue()
			bystander := store.Issue()

			replacement, ok := store.Rotate(old)
			if !ok {
				t.Fatal("expected rotation of a valid token to succeed")
			}
			if replacement == old {
				t.Error("expected rotation to produce a different token")
			}
			if store.Validate(old) {
				t.Error("expected rotated-out token to be invalid")
			}
			if !store.Validate(replacement) {
				t.Error("expected replacement token to validate")
			}
			if !store.Validate(bystander) {
				t.Error("expected unrelated token to remain valid")
			}
		})

		t.Run("fails for unknown token", func(t *testing.T) {
			store := NewTokenStore(rand.NewSource(5))
			store.Issue()

			if _, ok := store.Rotate("notatoken"); ok {
				t.Error("expected rotation of an unknown token to fail")
			}
			if store.Len() != 1 {
				t.Errorf("expected store untouched, got %d active tokens", store.Len())
			}
		})

		t.Run("fails for empty token", func(t *testing.T) {
			store := NewTokenStore(rand.NewSource(6))
			if _, ok := store.Rotate(""); ok {
				t.Error("expected rotation of an empty token to fail")
			}
		})
	})

	t.Run("concurrent issue and revoke", func(t *testing.T) {
		store := NewTokenStore(nil)

		var wg sync.WaitGroup
		tokens := make(chan string, 100)

		for range 100 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tokens <- store.Issue()
			}()
		}
		wg.Wait()
		close(tokens)

		seen := make(map[string]bool)
		for token := range tokens {
			if seen[token] {
				t.Fatalf("duplicate token issued: %q", token)
			}
			seen[token] = true
		}

		if store.Len() != 100 {
			t.Errorf("expected 100 active tokens, got %d", store.Len())
		}

		for token := range seen {
			wg.Add(1)
			go func() {
				defer wg.Done()
				store.Revoke(token)
			}()
		}
		wg.Wait()

		if store.Len() != 0 {
			t.Errorf("expected all tokens revoked, got %d", store.Len())
		}
	})
}
