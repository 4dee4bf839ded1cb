package fx

import "errors"

var (
	ErrNoImage           = errors.New("no image loaded")
	ErrEmptyImage        = errors.New("image has zero width or height")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrImageLoad         = errors.New("image load failed")
	ErrInvalidSettings   = errors.New("invalid settings")
	ErrUnknownKind       = errors.New("unknown effect")
	ErrFrameRate         = errors.New("frame rate out of range")
)

// IsInputError reports whether err belongs to the class of errors caused by
// missing or malformed input, as opposed to decoder or encoder failures.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNoImage) ||
		errors.Is(err, ErrEmptyImage) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrInvalidSettings) ||
		errors.Is(err, ErrUnknownKind) ||
		errors.Is(err, ErrFrameRate)
}
