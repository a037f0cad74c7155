package encoder

import (
	qrcode "github.com/skip2/go-qrcode"

	"qrterm/internal/domain"
)

type skip2Backend struct{}

func (skip2Backend) Name() string { return BackendSkip2 }

func (skip2Backend) Modules(content string, level domain.Level) ([][]bool, error) {
	q, err := qrcode.New(content, skip2Level(level))
	if err != nil {
		return nil, err
	}
	q.DisableBorder = true
	return q.Bitmap(), nil
}

func skip2Level(l domain.Level) qrcode.RecoveryLevel {
	switch l {
	case domain.LevelLow:
		return qrcode.Low
	case domain.LevelMedium:
		return qrcode.Medium
	case domain.LevelQuartile:
		return qrcode.High
	default:
		return qrcode.Highest
	}
}
