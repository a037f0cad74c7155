package imagestore

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"qrterm/internal/domain"
)

func img(size int) *domain.Image {
	return &domain.Image{Pixels: image.NewRGBA(image.Rect(0, 0, size, size)), Size: size}
}

func TestStore_ReplaceAndClear(t *testing.T) {
	s := New()
	assert.True(t, s.Empty())

	first := img(200)
	v1 := s.Set(first)
	assert.Same(t, first, s.Get())

	second := img(300)
	v2 := s.Set(second)
	assert.Same(t, second, s.Get())
	assert.Greater(t, v2, v1)
	assert.Equal(t, 200, first.Width(), "replaced image must not be mutated")

	s.Clear()
	assert.Nil(t, s.Get())
	assert.True(t, s.Empty())
	assert.Greater(t, s.Version(), v2)
}
