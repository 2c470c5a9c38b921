// internal/importer/source.go
package importer

import (
	"fmt"
	"strings"
)

// SourceKind names where the image bytes come from.
type SourceKind string

const (
	KindRemoteURL    SourceKind = "remote_url"
	KindLocalFile    SourceKind = "local_file"
	KindExternalDrop SourceKind = "external_drop"
	KindDataURI      SourceKind = "data_uri"
	KindInStoreFile  SourceKind = "in_store_file"
)

// Source is the closed set of image sources. Only the types in this file implement it.
type Source interface {
	Kind() SourceKind
	// Describe returns a short human readable origin for logs and history.
	Describe() string
	sealed()
}

// RemoteURL is an http(s) image address, already validated by the caller.
type RemoteURL struct {
	URL string
}

// LocalFile is a file picked from the local device. Data holds its bytes;
// Path is its location on the local file system when known.
type LocalFile struct {
	Path string
	Data []byte
}

// ExternalDrop is a file dragged or dropped from outside the vault.
type ExternalDrop struct {
	Path string
	Data []byte
}

// DataURI is an inline "data:" URI.
type DataURI struct {
	URI string
}

// InStoreFile is an image that already lives in the vault.
type InStoreFile struct {
	Path string
}

func (RemoteURL) Kind() SourceKind    { return KindRemoteURL }
func (LocalFile) Kind() SourceKind    { return KindLocalFile }
func (ExternalDrop) Kind() SourceKind { return KindExternalDrop }
func (DataURI) Kind() SourceKind      { return KindDataURI }
func (InStoreFile) Kind() SourceKind  { return KindInStoreFile }

func (s RemoteURL) Describe() string    { return s.URL }
func (s LocalFile) Describe() string    { return describeLocal(s.Path, len(s.Data)) }
func (s ExternalDrop) Describe() string { return describeLocal(s.Path, len(s.Data)) }
func (s InStoreFile) Describe() string  { return s.Path }

func (s DataURI) Describe() string {
	if i := strings.IndexByte(s.URI, ','); i >= 0 {
		return s.URI[:i] + ",…"
	}
	return "data:…"
}

func (RemoteURL) sealed()    {}
func (LocalFile) sealed()    {}
func (ExternalDrop) sealed() {}
func (DataURI) sealed()      {}
func (InStoreFile) sealed()  {}

func describeLocal(path string, n int) string {
	if path != "" {
		return path
	}
	return fmt.Sprintf("<%d bytes>", n)
}

// localPath returns the local file system path a cut import should remove,
// or "" when the source has no local file behind it.
func localPath(s Source) string {
	switch src := s.(type) {
	case LocalFile:
		return src.Path
	case ExternalDrop:
		return src.Path
	}
	return ""
}

// Payload is the loosely shaped source selection produced by forms, flags and
// JSON bodies, where any field may be filled in. Source turns it into exactly
// one Source.
type Payload struct {
	URL       string        `json:"url,omitempty"`
	DataURI   string        `json:"data_uri,omitempty"`
	StorePath string        `json:"store_path,omitempty"`
	File      *LocalFile    `json:"-"`
	Drop      *ExternalDrop `json:"-"`
}

// Source returns the single populated source. Zero or several populated
// fields yield ErrInvalidRequest.
func (p Payload) Source() (Source, error) {
	var found []Source
	if p.File != nil {
		found = append(found, *p.File)
	}
	if p.Drop != nil {
		found = append(found, *p.Drop)
	}
	if p.URL != "" {
		found = append(found, RemoteURL{URL: p.URL})
	}
	if p.DataURI != "" {
		found = append(found, DataURI{URI: p.DataURI})
	}
	if p.StorePath != "" {
		found = append(found, InStoreFile{Path: p.StorePath})
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: image to be imported isn't specified", ErrInvalidRequest)
	case 1:
		return found[0], nil
	default:
		kinds := make([]string, len(found))
		for i, s := range found {
			kinds[i] = string(s.Kind())
		}
		return nil, fmt.Errorf("%w: more than one image source given (%s)", ErrInvalidRequest, strings.Join(kinds, ", "))
	}
}

// validateSource checks that the source carries the payload its kind needs.
func validateSource(s Source) error {
	switch src := s.(type) {
	case nil:
		return fmt.Errorf("%w: image to be imported isn't specified", ErrInvalidRequest)
	case RemoteURL:
		if src.URL == "" {
			return fmt.Errorf("%w: empty image URL", ErrInvalidRequest)
		}
	case LocalFile:
		if src.Data == nil {
			return fmt.Errorf("%w: local file has no content", ErrInvalidRequest)
		}
	case ExternalDrop:
		if src.Data == nil {
			return fmt.Errorf("%w: dropped file has no content", ErrInvalidRequest)
		}
	case DataURI:
		if !strings.HasPrefix(src.URI, "data:") {
			return fmt.Errorf("%w: not a data URI", ErrInvalidRequest)
		}
	case InStoreFile:
		if NormalizeFolder(src.Path) == "" {
			return fmt.Errorf("%w: empty vault path", ErrInvalidRequest)
		}
	}
	return nil
}
