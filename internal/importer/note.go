// internal/importer/note.go
package importer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vmunix/vaultimg/internal/config"
)

// DefaultNoteTemplate names the companion note after the image.
const DefaultNoteTemplate = "{{imagename}}.md"

// tokenPattern matches {{name}} placeholders.
var tokenPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// renderNoteName substitutes placeholders in tpl and guarantees a ".md" suffix.
// Unknown placeholders are left as written.
func renderNoteName(tpl string, vars map[string]string) string {
	name := tokenPattern.ReplaceAllStringFunc(tpl, func(match string) string {
		key := match[2 : len(match)-2]
		if v, ok := vars[key]; ok {
			return v
		}
		return match
	})
	if !strings.HasSuffix(strings.ToLower(name), ".md") {
		name += ".md"
	}
	return name
}

// FindFolder returns the predefined folder configured for dest: an exact path
// match first, otherwise the first entry with CreateNoteSubfolders whose path
// is a proper ancestor of dest.
func FindFolder(folders []config.Folder, dest string) (config.Folder, bool) {
	for _, f := range folders {
		if f.Path == dest {
			return f, true
		}
	}
	for _, f := range folders {
		if f.CreateNoteSubfolders && f.Path != "" && strings.HasPrefix(dest, f.Path+"/") {
			return f, true
		}
	}
	return config.Folder{}, false
}

// ShouldCreateNote reports whether a note is created by default for dest:
// only an exact predefined folder match with CreateNote set turns it on.
func ShouldCreateNote(folders []config.Folder, dest string) bool {
	dest = NormalizeFolder(dest)
	for _, f := range folders {
		if f.Path == dest {
			return f.CreateNote
		}
	}
	return false
}

// NotePath computes where the companion note for imageName lives in dest.
// Template precedence: override, then the matched folder's template, then
// DefaultNoteTemplate.
func NotePath(folders []config.Folder, dest, imageName, override string) string {
	tpl := override
	if tpl == "" {
		if f, ok := FindFolder(folders, dest); ok {
			tpl = f.NoteTemplate
		}
	}
	if tpl == "" {
		tpl = DefaultNoteTemplate
	}
	name := renderNoteName(tpl, map[string]string{"imagename": imageName})
	return joinPath(dest, name)
}

// createNote writes an empty companion note unless one already exists.
// It returns the note path and whether a file was created.
func (i *Importer) createNote(settings Settings, dest, imageName, override string) (string, bool, error) {
	notePath := NotePath(settings.Folders, dest, imageName, override)
	if i.storage.Exists(notePath) {
		i.log.Debug("note exists, skipping", "path", notePath)
		return notePath, false, nil
	}
	if err := i.storage.CreateText(notePath, ""); err != nil {
		return notePath, false, fmt.Errorf("%w: %s: %w", ErrNote, notePath, err)
	}
	return notePath, true, nil
}
