// Package state provides credential storage for dashforge sync providers.
// Tokens are keyed by provider identifier (e.g. "github", "gitlab") so the
// CLI and sync layer never handle persistence directly.
package state

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// CredentialStore defines the contract for token persistence.
type CredentialStore interface {
	// SetToken stores or updates a token for a given provider.
	SetToken(provider string, token string) error
	// GetToken retrieves a token. Returns ErrCredentialNotFound if missing.
	GetToken(provider string) (string, error)
	// DeleteToken removes a stored token (idempotent).
	DeleteToken(provider string) error
	// ListProviders returns provider IDs that have tokens stored.
	ListProviders() ([]string, error)
}

// ErrCredentialNotFound is returned when a token for a provider does not exist.
var ErrCredentialNotFound = errors.New("credential not found")

// InMemoryCredentialStore is a thread-safe, volatile implementation.
// Useful for tests and ephemeral sessions.
type InMemoryCredentialStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewInMemoryCredentialStore creates an empty store.
func NewInMemoryCredentialStore() *InMemoryCredentialStore {
	return &InMemoryCredentialStore{
		tokens: make(map[string]string),
	}
}

// SetToken stores or updates the token for the given provider.
func (s *InMemoryCredentialStore) SetToken(provider string, token string) error {
	if provider == "" {
		return errors.New("provider cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[provider] = token
	return nil
}

// GetToken returns the token for provider or ErrCredentialNotFound if none is stored.
func (s *InMemoryCredentialStore) GetToken(provider string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.tokens[provider]
	if !ok {
		return "", ErrCredentialNotFound
	}
	return v, nil
}

// DeleteToken removes the token for provider; missing providers are ignored.
func (s *InMemoryCredentialStore) DeleteToken(provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, provider)
	return nil
}

// ListProviders returns all provider IDs that currently have tokens.
func (s *InMemoryCredentialStore) ListProviders() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.tokens))
	for k := range s.tokens {
		out = append(out, k)
	}
	return out, nil
}

// EnvCredentialStore reads tokens from DASHFORGE_<PROVIDER>_TOKEN environment
// variables. It is read-only: writes are rejected so callers cannot assume
// persistence that does not exist.
type EnvCredentialStore struct{}

// EnvTokenName returns the environment variable consulted for a provider.
func EnvTokenName(provider string) string {
	return fmt.Sprintf("DASHFORGE_%s_TOKEN", strings.ToUpper(provider))
}

// SetToken always fails: environment variables are not writable storage.
func (EnvCredentialStore) SetToken(_, _ string) error {
	return errors.New("environment credential store is read-only")
}

// GetToken looks up DASHFORGE_<PROVIDER>_TOKEN.
func (EnvCredentialStore) GetToken(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider cannot be empty")
	}
	if v := strings.TrimSpace(os.Getenv(EnvTokenName(provider))); v != "" {
		return v, nil
	}
	return "", ErrCredentialNotFound
}

// DeleteToken is a no-op for the environment store.
func (EnvCredentialStore) DeleteToken(_ string) error { return nil }

// ListProviders scans the environment for DASHFORGE_*_TOKEN variables.
func (EnvCredentialStore) ListProviders() ([]string, error) {
	var out []string
	for _, kv := range os.Environ() {
		name, _, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if strings.HasPrefix(name, "DASHFORGE_") && strings.HasSuffix(name, "_TOKEN") {
			provider := strings.TrimSuffix(strings.TrimPrefix(name, "DASHFORGE_"), "_TOKEN")
			if provider != "" {
				out = append(out, strings.ToLower(provider))
			}
		}
	}
	return out, nil
}

// ResolveProviderToken returns the credential for the given provider.
// Lookup order:
//  1. Environment variable DASHFORGE_<PROVIDER>_TOKEN
//  2. The configured token (from the settings file)
//  3. CredentialStore (if provided)
//
// It returns an empty string if none is found. Always redact tokens before logging.
func ResolveProviderToken(provider, configured string, cs CredentialStore) (string, error) {
	if provider == "" {
		return "", errors.New("provider cannot be empty")
	}

	if v, err := (EnvCredentialStore{}).GetToken(provider); err == nil {
		return v, nil
	}

	if tok := strings.TrimSpace(configured); tok != "" {
		return tok, nil
	}

	if cs != nil {
		if tok, err := cs.GetToken(provider); err == nil && strings.TrimSpace(tok) != "" {
			return tok, nil
		} else if err != nil && !errors.Is(err, ErrCredentialNotFound) {
			return "", fmt.Errorf("credential store failure: %w", err)
		}
	}

	return "", nil
}

// RedactToken safely redacts a token for logging purposes.
func RedactToken(tok string) string {
	if tok == "" {
		return ""
	}
	if len(tok) <= 4 {
		return "***"
	}
	return tok[:4] + "***"
}
