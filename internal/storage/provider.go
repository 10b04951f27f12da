// Package storage defines the output file-system abstraction.
package storage

import "time"

// FileInfo describes one stored file.
type FileInfo struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider is the interface for output file operations. Every path is
// relative to the provider root and uses forward slashes.
type Provider interface {
	// List returns every regular file under dir, sorted by path.
	List(dir string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// MkdirAll creates dir and any missing parents.
	MkdirAll(dir string) error
	// RemoveAll removes dir and everything below it. Removing a missing
	// directory is not an error.
	RemoveAll(dir string) error
	// Abs returns the absolute file-system path for path.
	Abs(path string) (string, error)
}
