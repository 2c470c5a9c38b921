// internal/importer/request.go
package importer

import (
	"fmt"
	"strings"
)

// Extension is one of the supported raster image extensions.
type Extension string

const (
	ExtJPG Extension = "jpg"
	ExtPNG Extension = "png"
)

// ParseExtension accepts "jpg", "jpeg" and "png" in any case, with or without a leading dot.
func ParseExtension(s string) (Extension, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "jpg", "jpeg":
		return ExtJPG, nil
	case "png":
		return ExtPNG, nil
	}
	return "", fmt.Errorf("%w: unsupported extension %q", ErrInvalidRequest, s)
}

// Behavior governs what happens to a local source file after a successful write.
type Behavior string

const (
	BehaviorCopy Behavior = "copy"
	BehaviorCut  Behavior = "cut"
)

// ParseBehavior parses "copy" or "cut". "move" is accepted as an alias of cut.
func ParseBehavior(s string) (Behavior, error) {
	switch strings.ToLower(s) {
	case "copy", "":
		return BehaviorCopy, nil
	case "cut", "move":
		return BehaviorCut, nil
	}
	return "", fmt.Errorf("%w: unknown import behavior %q", ErrInvalidRequest, s)
}

// ConflictPolicy decides what to do when the destination path already exists.
type ConflictPolicy string

const (
	ConflictReplace ConflictPolicy = "replace"
	ConflictPostfix ConflictPolicy = "postfix"
	ConflictCancel  ConflictPolicy = "cancel"
)

// ParseConflictPolicy parses a policy name. "add" is accepted as an alias of postfix.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch strings.ToLower(s) {
	case "replace":
		return ConflictReplace, nil
	case "postfix", "add":
		return ConflictPostfix, nil
	case "cancel":
		return ConflictCancel, nil
	}
	return "", fmt.Errorf("%w: unknown conflict policy %q", ErrInvalidRequest, s)
}

// Request is a fully resolved import intent. It is built fresh for each user
// action and consumed once by Importer.Import.
type Request struct {
	Source    Source         `validate:"-"`
	BaseName  string         `validate:"required"`
	Extension Extension      `validate:"oneof=jpg png"`
	Behavior  Behavior       `validate:"omitempty,oneof=copy cut"`
	Conflict  ConflictPolicy `validate:"oneof=replace postfix cancel"`

	// DestFolder is a vault folder path. A leading separator is ignored.
	DestFolder string

	CreateNote bool
	// NoteName overrides the folder's note template for this import only.
	NoteName string
}

// FileName returns the requested file name, "<base>.<ext>".
func (r Request) FileName() string {
	return r.BaseName + "." + string(r.Extension)
}

// NormalizeFolder trims surrounding separators and whitespace from a vault folder path.
func NormalizeFolder(folder string) string {
	folder = strings.TrimSpace(folder)
	folder = strings.ReplaceAll(folder, "\\", "/")
	return strings.Trim(folder, "/")
}

// joinPath composes a vault path. Vault paths always use forward slashes.
func joinPath(folder, name string) string {
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
