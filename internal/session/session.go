// Package session provides the process-wide session identifier.
//
// The identifier is created lazily on first use and persisted, so every
// tracking call made during the life of the installation reports the same
// session. Callers receive a Provider as an injected dependency instead of
// reaching for a package-level global.
package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Provider hands out the persistent session identifier.
type Provider interface {
	// ID returns the session identifier, creating it on first use.
	ID() (string, error)
}

// FileProvider persists the identifier to a file on first use.
type FileProvider struct {
	path string

	mu sync.Mutex
	id string
}

// NewFileProvider creates a provider backed by the given file path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// ID returns the session identifier, creating and persisting it on first use.
func (p *FileProvider) ID() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.id != "" {
		return p.id, nil
	}

	if data, err := os.ReadFile(p.path); err == nil {
		id := strings.TrimSpace(string(data))
		if id != "" {
			p.id = id
			return p.id, nil
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(p.path, []byte(id+"\n"), 0600); err != nil {
		return "", err
	}

	p.id = id
	return p.id, nil
}

// StaticProvider returns a fixed identifier. Useful in tests and for
// callers that already hold a session from elsewhere.
type StaticProvider string

// ID returns the fixed identifier.
func (s StaticProvider) ID() (string, error) {
	return string(s), nil
}
