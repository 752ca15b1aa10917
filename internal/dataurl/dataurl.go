// Package dataurl encodes and decodes the base64 image data URLs exchanged
// between the exporters and the export endpoint, and derives safe file names.
package dataurl

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
)

// Supported media types.
const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
)

// ErrUnsupported is returned when a string is not a PNG or JPEG base64 data URL.
var ErrUnsupported = errors.New("unsupported image data")

var imagePattern = regexp.MustCompile(`^data:image/(png|jpeg);base64,(.+)$`)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Payload is a decoded image.
type Payload struct {
	MIME string
	Data []byte
}

// Encode builds a base64 data URL for data with the given media type.
func Encode(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// EncodePNG builds a PNG data URL.
func EncodePNG(data []byte) string {
	return Encode(MIMEPNG, data)
}

// Decode parses a data:image/(png|jpeg);base64 URL.
func Decode(s string) (Payload, error) {
	m := imagePattern.FindStringSubmatch(s)
	if m == nil {
		return Payload{}, ErrUnsupported
	}
	mime := MIMEJPEG
	if m[1] == "png" {
		mime = MIMEPNG
	}
	data, err := decodeBase64(m[2])
	if err != nil {
		return Payload{}, ErrUnsupported
	}
	return Payload{MIME: mime, Data: data}, nil
}

// decodeBase64 accepts padded and unpadded standard encodings.
func decodeBase64(s string) ([]byte, error) {
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

// SanitizeFilename replaces every character outside [A-Za-z0-9._-] with '_'.
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// PNGFilename appends ".png" when missing and sanitizes the result.
func PNGFilename(name string) string {
	if !strings.HasSuffix(name, ".png") {
		name += ".png"
	}
	return SanitizeFilename(name)
}
