package domain

import "errors"

var (
	// ErrValidation marks input rejected before it reaches the encoder.
	ErrValidation = errors.New("invalid input")
	// ErrEncoding marks content/size combinations the encoder cannot draw.
	ErrEncoding = errors.New("encoding failed")
	// ErrIO marks failures writing the PNG to disk.
	ErrIO = errors.New("i/o failure")
	// ErrNothingToSave is returned by Save when no QR code has been generated.
	ErrNothingToSave = errors.New("nothing to save")
	// ErrBusy is returned by Save while a generation is in flight.
	ErrBusy = errors.New("generation in progress")
)
