package encoder

import (
	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"qrterm/internal/domain"
)

type boombulerBackend struct{}

func (boombulerBackend) Name() string { return BackendBoombuler }

func (boombulerBackend) Modules(content string, level domain.Level) ([][]bool, error) {
	code, err := qr.Encode(content, boombulerLevel(level), qr.Auto)
	if err != nil {
		return nil, err
	}
	return moduleMatrix(code), nil
}

// moduleMatrix reads an unscaled barcode one pixel per module.
func moduleMatrix(code barcode.Barcode) [][]bool {
	b := code.Bounds()
	out := make([][]bool, b.Dy())
	for y := 0; y < b.Dy(); y++ {
		out[y] = make([]bool, b.Dx())
		for x := 0; x < b.Dx(); x++ {
			r, _, _, _ := code.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out[y][x] = r < 0x8000
		}
	}
	return out
}

func boombulerLevel(l domain.Level) qr.ErrorCorrectionLevel {
	switch l {
	case domain.LevelLow:
		return qr.L
	case domain.LevelMedium:
		return qr.M
	case domain.LevelQuartile:
		return qr.Q
	default:
		return qr.H
	}
}
