package encoder

import (
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrterm/internal/domain"
)

func allEncoders(t *testing.T) []*Encoder {
	t.Helper()
	var out []*Encoder
	for _, name := range Backends {
		enc, err := New(name)
		require.NoError(t, err)
		out = append(out, enc)
	}
	return out
}

func TestGenerate_DimensionsMatchEverySize(t *testing.T) {
	for _, enc := range allEncoders(t) {
		for _, size := range domain.Sizes {
			img, err := enc.Generate("https://example.com", size, domain.DefaultMargin)
			require.NoError(t, err, "%s size %d", enc.Backend(), size)
			assert.Equal(t, size, img.Width(), "%s width", enc.Backend())
			assert.Equal(t, size, img.Height(), "%s height", enc.Backend())
			assert.Equal(t, size, img.Size)
			assert.Equal(t, "https://example.com", img.Content)
		}
	}
}

func TestGenerate_RejectsEmptyAndWhitespace(t *testing.T) {
	enc, err := New("")
	require.NoError(t, err)

	for _, content := range []string{"", "   ", "\t\n"} {
		_, err := enc.Generate(content, 500, 1)
		assert.True(t, errors.Is(err, domain.ErrValidation), "content %q: %v", content, err)
	}
}

func TestGenerate_RejectsBadSizeAndMargin(t *testing.T) {
	enc, _ := New(BackendSkip2)

	_, err := enc.Generate("hello", 0, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = enc.Generate("hello", 500, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGenerate_ContentTooLong(t *testing.T) {
	for _, enc := range allEncoders(t) {
		_, err := enc.Generate(strings.Repeat("x", 4000), 1000, 1)
		assert.ErrorIs(t, err, domain.ErrEncoding, enc.Backend())
	}
}

func TestGenerate_SizeTooSmallForSymbol(t *testing.T) {
	enc, _ := New(BackendSkip2)
	_, err := enc.Generate("hello", 20, 1)
	assert.ErrorIs(t, err, domain.ErrEncoding)
}

func TestGenerate_Deterministic(t *testing.T) {
	for _, enc := range allEncoders(t) {
		a, err := enc.Generate("same input", 300, 2)
		require.NoError(t, err)
		b, err := enc.Generate("same input", 300, 2)
		require.NoError(t, err)
		assert.Equal(t, a.Pixels.Pix, b.Pixels.Pix, enc.Backend())
	}
}

func TestGenerate_OnlyOpaqueBlackAndWhite(t *testing.T) {
	enc, _ := New(BackendSkip2)
	img, err := enc.Generate("pixels", 200, 1)
	require.NoError(t, err)

	var dark int
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			c := img.Pixels.RGBAAt(x, y)
			require.Equal(t, uint8(255), c.A)
			switch c {
			case color.RGBA{0, 0, 0, 255}:
				dark++
			case color.RGBA{255, 255, 255, 255}:
			default:
				t.Fatalf("unexpected pixel %v at %d,%d", c, x, y)
			}
		}
	}
	assert.Positive(t, dark)
	// the top-left corner sits in the quiet zone
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.Pixels.RGBAAt(0, 0))
}

func TestGenerate_FinderPatternAfterMargin(t *testing.T) {
	enc, _ := New(BackendSkip2)
	img, err := enc.Generate("finder", 500, 1)
	require.NoError(t, err)

	n := len(img.Modules)
	scale := 500 / (n + 2)
	pad := (500-(n+2)*scale)/2 + scale

	assert.True(t, img.Modules[0][0], "finder corner must be dark")
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.Pixels.RGBAAt(pad, pad))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.Pixels.RGBAAt(pad-1, pad-1))
}

func TestBackendsAgreeOnSymbolSize(t *testing.T) {
	encs := allEncoders(t)
	a, err := encs[0].Generate("agree", 400, 1)
	require.NoError(t, err)
	b, err := encs[1].Generate("agree", 400, 1)
	require.NoError(t, err)
	assert.Equal(t, len(a.Modules), len(b.Modules))
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New("zxing")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

type failingBackend struct{}

func (failingBackend) Name() string { return "failing" }
func (failingBackend) Modules(string, domain.Level) ([][]bool, error) {
	return nil, errors.New("boom")
}

func TestRender_BackendErrorWrapsEncoding(t *testing.T) {
	_, err := NewWithBackend(failingBackend{}).Generate("x", 200, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEncoding)
	assert.Contains(t, err.Error(), "boom")
}

type levelRecorder struct{ got domain.Level }

func (r *levelRecorder) Name() string { return "recorder" }
func (r *levelRecorder) Modules(_ string, l domain.Level) ([][]bool, error) {
	r.got = l
	return [][]bool{{true}}, nil
}

func TestGenerate_AlwaysHighestLevel(t *testing.T) {
	rec := &levelRecorder{}
	_, err := NewWithBackend(rec).Generate("x", 200, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.LevelHighest, rec.got)
}
