// internal/importer/resolver.go
package importer

import (
	"fmt"
	"strings"
)

// MaxPostfix bounds the postfix search; names "base (1)" through "base (MaxPostfix-1)" are probed.
const MaxPostfix = 10000

// ExistsFunc reports whether a vault path is taken.
type ExistsFunc func(path string) bool

// Resolution is the outcome of Resolve: a path that is free to write under
// the active policy, or Canceled when nothing should be written.
type Resolution struct {
	Path     string
	Canceled bool
}

// Resolve computes the destination path for folder/base.ext under policy.
// It never deletes anything: for ConflictReplace the caller removes the
// existing entry beforehand and Resolve returns the requested path unchanged.
func Resolve(folder, base string, ext Extension, policy ConflictPolicy, exists ExistsFunc) (Resolution, error) {
	candidate := joinPath(folder, base+"."+string(ext))
	return ResolvePath(candidate, policy, exists)
}

// ResolvePath applies policy to an already composed candidate path.
func ResolvePath(candidate string, policy ConflictPolicy, exists ExistsFunc) (Resolution, error) {
	if !exists(candidate) {
		return Resolution{Path: candidate}, nil
	}

	switch policy {
	case ConflictReplace:
		return Resolution{Path: candidate}, nil
	case ConflictCancel:
		return Resolution{Canceled: true}, nil
	case ConflictPostfix:
		stem, ext := splitExt(candidate)
		for i := 1; i < MaxPostfix; i++ {
			p := fmt.Sprintf("%s (%d)%s", stem, i, ext)
			if !exists(p) {
				return Resolution{Path: p}, nil
			}
		}
		return Resolution{}, fmt.Errorf("%w: %s (tried %d postfixes)", ErrExhausted, candidate, MaxPostfix-1)
	default:
		return Resolution{}, fmt.Errorf("%w: unknown conflict policy %q", ErrInvalidRequest, policy)
	}
}

// splitExt splits at the last dot of the final path segment. The extension
// keeps its dot; a name without one has an empty extension.
func splitExt(p string) (stem, ext string) {
	slash := strings.LastIndexByte(p, '/')
	dot := strings.LastIndexByte(p, '.')
	if dot <= slash+1 {
		return p, ""
	}
	return p[:dot], p[dot:]
}
