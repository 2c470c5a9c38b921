package vault

import (
	"fmt"
	"path"

	"github.com/spf13/afero"
)

// writeFileAtomic writes data to a temp file next to p and renames it into
// place, so readers never observe a partially written image.
func writeFileAtomic(fsys afero.Fs, p string, data []byte) error {
	dir := path.Dir(p)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create folder %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fsys, dir, ".vaultimg-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer fsys.Remove(tmpPath) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := fsys.Rename(tmpPath, p); err != nil {
		return fmt.Errorf("rename to %s: %w", p, err)
	}
	return nil
}
