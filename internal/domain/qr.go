// Package domain holds the data shared between the encoder, the image
// store, the session and the persistence layer.
package domain

import "image"

// Level is a QR error-correction level.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelQuartile
	LevelHighest
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "L"
	case LevelMedium:
		return "M"
	case LevelQuartile:
		return "Q"
	case LevelHighest:
		return "H"
	default:
		return "?"
	}
}

// Sizes lists the pixel sizes a user may pick.
var Sizes = []int{200, 300, 400, 500, 600, 700, 800, 1000}

const (
	DefaultSize   = 700
	DefaultMargin = 1
)

// ValidSize reports whether size is one of Sizes.
func ValidSize(size int) bool {
	for _, s := range Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Request is one generation call. It is built fresh for every run.
type Request struct {
	Content string
	Size    int
	Margin  int
	Level   Level
}

// NewRequest returns a Request at the highest error-correction level.
func NewRequest(content string, size, margin int) Request {
	return Request{Content: content, Size: size, Margin: margin, Level: LevelHighest}
}

// Image is a rendered QR code. It is never mutated after the encoder
// returns it; a new generation produces a new Image.
type Image struct {
	Pixels  *image.RGBA
	Size    int
	Margin  int
	Content string
	// Modules is the symbol matrix without quiet zone, Modules[y][x] true for dark.
	Modules [][]bool
}

// Width and Height are the pixel dimensions of the buffer.
func (img *Image) Width() int {
	if img == nil || img.Pixels == nil {
		return 0
	}
	return img.Pixels.Bounds().Dx()
}

func (img *Image) Height() int {
	if img == nil || img.Pixels == nil {
		return 0
	}
	return img.Pixels.Bounds().Dy()
}

// Snapshot is a copy of the view state handed to subscribers.
type Snapshot struct {
	// Seq increases with every state change; older snapshots can be dropped.
	Seq          uint64
	Content      string
	SelectedSize int
	Status       string
	Generating   bool
	CanSave      bool
	Image        *Image
}

// CanExecuteSave is the Save command guard.
func (s Snapshot) CanExecuteSave() bool {
	return s.CanSave && !s.Generating
}
