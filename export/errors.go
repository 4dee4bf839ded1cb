package export

import (
	"errors"

	"github.com/bmatsuo/img2anim/fx"
)

var (
	// ErrExportUnavailable is returned when no encoder is registered for the
	// requested format.
	ErrExportUnavailable = errors.New("export unavailable")

	// ErrEncoding wraps failures of an encoder.  No bytes are produced.
	ErrEncoding = errors.New("encoding failed")
)

// IsInputError reports whether err was caused by the image or the settings
// given to Export rather than by an encoder.
func IsInputError(err error) bool {
	return fx.IsInputError(err)
}
