package export

import (
	"fmt"
	"strings"
)

// Format names an output container.
type Format string

const (
	GIF  Format = "gif"
	APNG Format = "apng"
	WebP Format = "webp"
)

// Formats returns the known formats.  A format being known does not mean its
// encoder is available.
func Formats() []Format {
	return []Format{GIF, APNG, WebP}
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case GIF, APNG, WebP:
		return f, nil
	case "png":
		return APNG, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", ErrExportUnavailable, s)
}

// Ext returns the file extension of the format, including the dot.  APNG
// files use the extension of plain PNG.
func (f Format) Ext() string {
	switch f {
	case APNG:
		return ".png"
	default:
		return "." + string(f)
	}
}

// MIMEType returns the media type of the encoded format.
func (f Format) MIMEType() string {
	switch f {
	case GIF:
		return "image/gif"
	case APNG:
		return "image/apng"
	case WebP:
		return "image/webp"
	}
	return "application/octet-stream"
}
