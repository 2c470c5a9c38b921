package fetch

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Detect sniffs data and reports whether it is an image. The result's
// Extension is set for the two supported formats only.
func Detect(data []byte) (*ProbeResult, bool) {
	mt := mimetype.Detect(data)
	ct, _, _ := strings.Cut(mt.String(), ";")
	res := &ProbeResult{ContentType: ct, Extension: extensionFor(ct)}
	return res, strings.HasPrefix(ct, "image/")
}

// DetectImage returns "jpg" or "png" for data in one of those formats.
func DetectImage(data []byte) (string, bool) {
	res, ok := Detect(data)
	if !ok || res.Extension == "" {
		return "", false
	}
	return res.Extension, true
}

// ExtensionForType maps a media type to a supported extension.
func ExtensionForType(contentType string) string {
	return extensionFor(mediaType(contentType))
}

func extensionFor(ct string) string {
	switch ct {
	case "image/jpeg", "image/jpg", "image/pjpeg":
		return "jpg"
	case "image/png":
		return "png"
	}
	return ""
}
