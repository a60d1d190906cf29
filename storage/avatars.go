// Package storage manages avatar files on the local filesystem.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// AvatarStorage manages avatar filesystem operations.
// Thread-safe for concurrent operations.
type AvatarStorage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewAvatarStorage creates an AvatarStorage rooted at {basePath}/avatars/.
// basePath should be the media directory (e.g., ./media).
func NewAvatarStorage(basePath string) (*AvatarStorage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	storagePath := filepath.Join(basePath, "avatars")

	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create avatars directory: %w", err)
	}

	return &AvatarStorage{
		basePath: storagePath,
	}, nil
}

// BasePath returns the directory avatars are stored in.
func (s *AvatarStorage) BasePath() string {
	return s.basePath
}

// Save stores avatar image data under the given filename.
func (s *AvatarStorage) Save(filename string, data []byte) error {
	if err := validFilename(filename); err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.Path(filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write avatar file: %w", err)
	}
	return nil
}

// Get retrieves avatar image data.
func (s *AvatarStorage) Get(filename string) ([]byte, error) {
	if err := validFilename(filename); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("avatar not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read avatar file: %w", err)
	}
	return data, nil
}

// Exists checks whether an avatar file is present.
func (s *AvatarStorage) Exists(filename string) bool {
	if validFilename(filename) != nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(filename))
	return err == nil
}

// Delete removes an avatar file. A missing file is not an error, replace and
// delete flows stay idempotent.
func (s *AvatarStorage) Delete(filename string) error {
	if err := validFilename(filename); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete avatar file: %w", err)
	}
	return nil
}

// Path returns the absolute path for a stored avatar filename.
func (s *AvatarStorage) Path(filename string) string {
	return filepath.Join(s.basePath, filename)
}

func validFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	// Filenames are generated server-side, but never allow traversal.
	if strings.Contains(filename, "/") || strings.Contains(filename, "\\") || strings.Contains(filename, "..") {
		return fmt.Errorf("invalid avatar filename %q", filename)
	}
	return nil
}
