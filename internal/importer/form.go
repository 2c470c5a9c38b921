// internal/importer/form.go
package importer

import (
	"net/url"
	"path"
	"time"

	"github.com/vmunix/vaultimg/internal/config"
	"github.com/vmunix/vaultimg/internal/fetch"
)

// Form is the loosely typed import input collected from flags or a JSON
// body. Empty fields fall back to the configured defaults.
type Form struct {
	Payload

	Name       string `json:"name,omitempty"`
	Extension  string `json:"extension,omitempty"`
	Folder     string `json:"folder,omitempty"`
	Behavior   string `json:"behavior,omitempty"`
	Conflict   string `json:"conflict,omitempty"`
	CreateNote *bool  `json:"create_note,omitempty"`
	NoteName   string `json:"note_name,omitempty"`
}

// Request resolves the form into a Request. Missing values come from
// defaults; the note flag follows the predefined folder when unset.
func (f Form) Request(defaults config.DefaultsConfig, folders []config.Folder, now time.Time) (Request, error) {
	src, err := f.Payload.Source()
	if err != nil {
		return Request{}, err
	}

	extName := f.Extension
	if extName == "" {
		extName = InferExtension(src)
	}
	if extName == "" {
		extName = defaults.Extension
	}
	ext, err := ParseExtension(extName)
	if err != nil {
		return Request{}, err
	}

	behavior, err := ParseBehavior(firstNonEmpty(f.Behavior, defaults.ImportBehavior))
	if err != nil {
		return Request{}, err
	}
	conflict, err := ParseConflictPolicy(firstNonEmpty(f.Conflict, defaults.Conflict))
	if err != nil {
		return Request{}, err
	}

	name := f.Name
	if name == "" {
		name = InferBaseName(src, now)
	}

	folder := NormalizeFolder(f.Folder)
	if folder == "" {
		folder = defaultFolder(src, defaults)
	}

	createNote := ShouldCreateNote(folders, folder)
	if f.CreateNote != nil {
		createNote = *f.CreateNote
	}

	return Request{
		Source:     src,
		BaseName:   name,
		Extension:  ext,
		Behavior:   behavior,
		Conflict:   conflict,
		DestFolder: folder,
		CreateNote: createNote,
		NoteName:   f.NoteName,
	}, nil
}

// defaultFolder picks the configured folder for src: the local import folder
// for files from the device, else the predefined folder in predefined mode.
func defaultFolder(src Source, defaults config.DefaultsConfig) string {
	if k := src.Kind(); k == KindLocalFile || k == KindExternalDrop {
		if f := NormalizeFolder(defaults.LocalImportFolder); f != "" {
			return f
		}
	}
	if defaults.FolderMode == "predefined" {
		return NormalizeFolder(defaults.PredefinedFolder)
	}
	return ""
}

// InferExtension guesses "jpg" or "png" for src, or "" when unknown.
func InferExtension(src Source) string {
	switch s := src.(type) {
	case RemoteURL:
		if u, err := url.Parse(s.URL); err == nil {
			return extFromName(u.Path)
		}
	case DataURI:
		if _, mt, err := DecodeDataURI(s.URI); err == nil {
			return fetch.ExtensionForType(mt)
		}
	case LocalFile:
		return detectOrName(s.Data, s.Path)
	case ExternalDrop:
		return detectOrName(s.Data, s.Path)
	case InStoreFile:
		return extFromName(s.Path)
	}
	return ""
}

// InferBaseName derives a safe stem from where src came from.
func InferBaseName(src Source, now time.Time) string {
	var name string
	switch s := src.(type) {
	case RemoteURL:
		if u, err := url.Parse(s.URL); err == nil {
			name = StemOf(u.Path)
		}
	case LocalFile:
		name = StemOf(s.Path)
	case ExternalDrop:
		name = StemOf(s.Path)
	case InStoreFile:
		name = StemOf(s.Path)
	}
	if name = SanitizeBaseName(name); name != "" {
		return name
	}
	return "Pasted image " + now.Format("20060102150405")
}

func detectOrName(data []byte, name string) string {
	if ext, ok := fetch.DetectImage(data); ok {
		return ext
	}
	return extFromName(name)
}

func extFromName(name string) string {
	ext, err := ParseExtension(path.Ext(name))
	if err != nil {
		return ""
	}
	return string(ext)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
