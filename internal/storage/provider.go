// Package storage defines the vault file-system abstraction.
package storage

import "github.com/starford/ansuz/internal/models"

// Provider is the interface for vault file operations. All paths are
// vault-relative with forward slashes.
type Provider interface {
	// List walks dir and returns metadata for every file matching the
	// configured include patterns.
	List(dir string) ([]models.FileMeta, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Rel converts an absolute path into a vault-relative one, rejecting
	// paths outside the vault root.
	Rel(abs string) (string, error)
	// Root returns the absolute vault root.
	Root() string
	// Eligible reports whether a vault-relative path matches the include
	// patterns and no ignore pattern.
	Eligible(path string) bool
}
