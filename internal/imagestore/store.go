// Package imagestore keeps the most recently generated QR image.
package imagestore

import (
	"sync"

	"qrterm/internal/domain"
)

// Store holds at most one image. Images are replaced wholesale.
type Store struct {
	mu      sync.RWMutex
	current *domain.Image
	version uint64
}

func New() *Store {
	return &Store{}
}

// Set replaces the stored image and returns the new version.
func (s *Store) Set(img *domain.Image) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = img
	s.version++
	return s.version
}

// Get returns the stored image, nil when empty.
func (s *Store) Get() *domain.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Clear drops the stored image.
func (s *Store) Clear() {
	s.Set(nil)
}

// Empty reports whether no image is stored.
func (s *Store) Empty() bool {
	return s.Get() == nil
}

// Version increases on every Set or Clear.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
