package state

import (
	"errors"
	"testing"
)

func TestInMemoryCredentialStore_SetToken(t *testing.T) {
	store := NewInMemoryCredentialStore()

	t.Run("set valid token", func(t *testing.T) {
		err := store.SetToken("github", "ghp_test123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("set empty provider", func(t *testing.T) {
		err := store.SetToken("", "token")
		if err == nil {
			t.Fatal("expected error for empty provider")
		}
	})

	t.Run("update existing token", func(t *testing.T) {
		if err := store.SetToken("github", "ghp_old"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := store.SetToken("github", "ghp_new"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		token, err := store.GetToken("github")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "ghp_new" {
			t.Errorf("expected ghp_new, got %s", token)
		}
	})
}

func TestInMemoryCredentialStore_GetToken(t *testing.T) {
	store := NewInMemoryCredentialStore()

	t.Run("get non-existent token", func(t *testing.T) {
		_, err := store.GetToken("github")
		if !errors.Is(err, ErrCredentialNotFound) {
			t.Errorf("expected ErrCredentialNotFound, got %v", err)
		}
	})

	t.Run("get existing token", func(t *testing.T) {
		if err := store.SetToken("gitlab", "glpat_test456"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		token, err := store.GetToken("gitlab")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "glpat_test456" {
			t.Errorf("expected glpat_test456, got %s", token)
		}
	})
}

func TestInMemoryCredentialStore_DeleteToken(t *testing.T) {
	store := NewInMemoryCredentialStore()

	if err := store.SetToken("github", "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.DeleteToken("github"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.GetToken("github"); !errors.Is(err, ErrCredentialNotFound) {
		t.Errorf("expected ErrCredentialNotFound after delete, got %v", err)
	}

	// Deleting again is idempotent
	if err := store.DeleteToken("github"); err != nil {
		t.Errorf("expected idempotent delete, got %v", err)
	}
}

func TestEnvCredentialStore(t *testing.T) {
	store := EnvCredentialStore{}

	t.Run("reads provider variable", func(t *testing.T) {
		t.Setenv("DASHFORGE_GITHUB_TOKEN", "ghp_from_env")
		token, err := store.GetToken("github")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "ghp_from_env" {
			t.Errorf("expected ghp_from_env, got %s", token)
		}
	})

	t.Run("missing variable", func(t *testing.T) {
		_, err := store.GetToken("bitbucket")
		if !errors.Is(err, ErrCredentialNotFound) {
			t.Errorf("expected ErrCredentialNotFound, got %v", err)
		}
	})

	t.Run("writes rejected", func(t *testing.T) {
		if err := store.SetToken("github", "x"); err == nil {
			t.Error("expected error writing to env store")
		}
	})
}

func TestResolveProviderToken(t *testing.T) {
	t.Run("env wins over config and store", func(t *testing.T) {
		t.Setenv("DASHFORGE_GITLAB_TOKEN", "env_tok")
		cs := NewInMemoryCredentialStore()
		_ = cs.SetToken("gitlab", "store_tok")

		token, err := ResolveProviderToken("gitlab", "config_tok", cs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "env_tok" {
			t.Errorf("expected env_tok, got %s", token)
		}
	})

	t.Run("config wins over store", func(t *testing.T) {
		cs := NewInMemoryCredentialStore()
		_ = cs.SetToken("github", "store_tok")

		token, err := ResolveProviderToken("github", "config_tok", cs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "config_tok" {
			t.Errorf("expected config_tok, got %s", token)
		}
	})

	t.Run("store as last resort", func(t *testing.T) {
		cs := NewInMemoryCredentialStore()
		_ = cs.SetToken("github", "store_tok")

		token, err := ResolveProviderToken("github", "", cs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "store_tok" {
			t.Errorf("expected store_tok, got %s", token)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		token, err := ResolveProviderToken("github", "", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "" {
			t.Errorf("expected empty token, got %s", token)
		}
	})

	t.Run("empty provider", func(t *testing.T) {
		if _, err := ResolveProviderToken("", "", nil); err == nil {
			t.Error("expected error for empty provider")
		}
	})
}

func TestRedactToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "***"},
		{"abcd", "***"},
		{"ghp_secret123", "ghp_***"},
	}
	for _, tt := range tests {
		if got := RedactToken(tt.in); got != tt.want {
			t.Errorf("RedactToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
