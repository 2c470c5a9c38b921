// internal/importer/datauri.go
package importer

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// DecodeDataURI decodes "data:[<mediatype>][;base64],<data>". Payloads without
// ";base64" are percent-decoded. The returned media type may be empty.
func DecodeDataURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, "", fmt.Errorf("%w: not a data URI", ErrInvalidRequest)
	}
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, "", fmt.Errorf("%w: data URI has no payload separator", ErrInvalidRequest)
	}

	meta := uri[len("data:"):comma]
	payload := uri[comma+1:]

	isBase64 := strings.HasSuffix(meta, ";base64")
	mediaType := strings.TrimSuffix(meta, ";base64")
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}

	if isBase64 {
		// Tolerate whitespace and missing padding from clipboard sources.
		payload = strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\n', '\r', '\t':
				return -1
			}
			return r
		}, payload)
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return nil, "", fmt.Errorf("%w: malformed base64 data URI: %v", ErrInvalidRequest, err)
		}
		return data, mediaType, nil
	}

	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: malformed data URI: %v", ErrInvalidRequest, err)
	}
	return []byte(decoded), mediaType, nil
}
