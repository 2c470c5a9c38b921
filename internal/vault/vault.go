// Package vault exposes a note vault directory as forward-slash relative paths.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrExists is returned when creating a file over an existing entry.
	ErrExists = errors.New("file already exists")
	// ErrInvalidPath is returned for paths that escape the vault.
	ErrInvalidPath = errors.New("invalid vault path")
)

// Entry is a file or folder in the vault.
type Entry struct {
	Path     string `json:"path"`
	IsFolder bool   `json:"is_folder"`
	Size     int64  `json:"size,omitempty"`
}

// FS is a vault rooted at a directory. All paths are relative to the root
// and use "/" as separator. It is strongly consistent: Exists observes a
// completed Delete immediately.
type FS struct {
	fs afero.Fs
}

// Open returns a vault rooted at dir on the OS file system.
func Open(dir string) (*FS, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open vault: %s is not a directory", dir)
	}
	return New(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

// New wraps an existing file system whose root is the vault root.
func New(fsys afero.Fs) *FS {
	return &FS{fs: fsys}
}

// clean validates a vault path and returns it in afero form.
func clean(p string) (string, error) {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	p = strings.Trim(p, "/")
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %s", ErrInvalidPath, p)
		}
	}
	return path.Clean(p), nil
}

// Exists reports whether a file or folder exists at p.
func (v *FS) Exists(p string) bool {
	cp, err := clean(p)
	if err != nil {
		return false
	}
	ok, err := afero.Exists(v.fs, cp)
	return err == nil && ok
}

// ReadBinary returns the contents of the file at p.
func (v *FS) ReadBinary(p string) ([]byte, error) {
	cp, err := clean(p)
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(v.fs, cp)
}

// CreateBinary writes data to a new file at p, creating parent folders.
// It fails with ErrExists if p is taken.
func (v *FS) CreateBinary(p string, data []byte) error {
	cp, err := clean(p)
	if err != nil {
		return err
	}
	if v.Exists(cp) {
		return fmt.Errorf("%w: %s", ErrExists, cp)
	}
	return writeFileAtomic(v.fs, cp, data)
}

// CreateText writes content to a new file at p. It fails with ErrExists if p is taken.
func (v *FS) CreateText(p, content string) error {
	return v.CreateBinary(p, []byte(content))
}

// Delete removes the file at p.
func (v *FS) Delete(p string) error {
	cp, err := clean(p)
	if err != nil {
		return err
	}
	info, err := v.fs.Stat(cp)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("delete %s: is a folder", cp)
	}
	return v.fs.Remove(cp)
}

// List returns the direct children of folder. An empty folder lists the root.
func (v *FS) List(folder string) ([]Entry, error) {
	dir := "."
	if strings.Trim(folder, "/ ") != "" {
		cp, err := clean(folder)
		if err != nil {
			return nil, err
		}
		dir = cp
	}

	infos, err := afero.ReadDir(v.fs, dir)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		if hidden(info.Name()) {
			continue
		}
		e := Entry{Path: info.Name(), IsFolder: info.IsDir()}
		if dir != "." {
			e.Path = dir + "/" + info.Name()
		}
		if !e.IsFolder {
			e.Size = info.Size()
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Folders returns every folder in the vault, sorted. Hidden folders such as
// ".obsidian" are skipped along with their contents.
func (v *FS) Folders() ([]string, error) {
	var folders []string
	err := afero.Walk(v.fs, ".", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		p = strings.Trim(filepath.ToSlash(p), "/")
		if p == "" || p == "." {
			return nil
		}
		if hidden(path.Base(p)) {
			return filepath.SkipDir
		}
		folders = append(folders, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(folders)
	return folders, nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
