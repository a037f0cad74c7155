// Package encoder turns text into a square QR raster.
//
// The symbol matrix comes from a backend library; the rasterizer then
// scales it onto a size×size canvas the way pixel-data writers do: an
// integer number of pixels per module, centred, leftover pixels white.
package encoder

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"

	"qrterm/internal/domain"
)

// Backend produces the module matrix for content at the given level.
// The matrix must not include a quiet zone.
type Backend interface {
	Name() string
	Modules(content string, level domain.Level) ([][]bool, error)
}

const (
	BackendSkip2     = "skip2"
	BackendBoombuler = "boombuler"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendSkip2, BackendBoombuler}

// Encoder renders QR requests with one backend.
type Encoder struct {
	backend Backend
}

// New returns an Encoder for the named backend. An empty name selects skip2.
func New(name string) (*Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendSkip2:
		return &Encoder{backend: skip2Backend{}}, nil
	case BackendBoombuler:
		return &Encoder{backend: boombulerBackend{}}, nil
	default:
		return nil, fmt.Errorf("unknown encoder %q: %w", name, domain.ErrValidation)
	}
}

// NewWithBackend wraps a custom backend.
func NewWithBackend(b Backend) *Encoder {
	return &Encoder{backend: b}
}

// Backend returns the backend name.
func (e *Encoder) Backend() string {
	return e.backend.Name()
}

// Generate renders content as a size×size image with margin quiet-zone
// modules, always at the highest error-correction level.
func (e *Encoder) Generate(content string, size, margin int) (*domain.Image, error) {
	return e.Render(domain.NewRequest(content, size, margin))
}

// Render draws req. Errors wrap domain.ErrValidation or domain.ErrEncoding.
func (e *Encoder) Render(req domain.Request) (*domain.Image, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("QR content cannot be empty: %w", domain.ErrValidation)
	}
	if req.Size <= 0 {
		return nil, fmt.Errorf("size must be positive, got %d: %w", req.Size, domain.ErrValidation)
	}
	if req.Margin < 0 {
		return nil, fmt.Errorf("margin must not be negative, got %d: %w", req.Margin, domain.ErrValidation)
	}

	modules, err := e.backend.Modules(req.Content, req.Level)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", e.backend.Name(), err, domain.ErrEncoding)
	}
	if len(modules) == 0 {
		return nil, fmt.Errorf("%s returned an empty symbol: %w", e.backend.Name(), domain.ErrEncoding)
	}

	pixels, err := rasterize(modules, req.Size, req.Margin)
	if err != nil {
		return nil, err
	}
	return &domain.Image{
		Pixels:  pixels,
		Size:    req.Size,
		Margin:  req.Margin,
		Content: req.Content,
		Modules: modules,
	}, nil
}

func rasterize(modules [][]bool, size, margin int) (*image.RGBA, error) {
	n := len(modules)
	total := n + 2*margin
	scale := size / total
	if scale < 1 {
		return nil, fmt.Errorf("content too long for %dx%d (%d modules with margin): %w", size, size, total, domain.ErrEncoding)
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	pad := (size-total*scale)/2 + margin*scale
	black := image.NewUniform(color.Black)
	for y, row := range modules {
		for x, dark := range row {
			if !dark {
				continue
			}
			x0 := pad + x*scale
			y0 := pad + y*scale
			draw.Draw(img, image.Rect(x0, y0, x0+scale, y0+scale), black, image.Point{}, draw.Src)
		}
	}
	return img, nil
}
