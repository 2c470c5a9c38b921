// internal/importer/sanitize.go
package importer

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// illegalChars are characters not allowed in file names on common file systems.
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// multiSpace matches runs of whitespace.
var multiSpace = regexp.MustCompile(`\s+`)

// multiDot matches multiple consecutive dots.
var multiDot = regexp.MustCompile(`\.{2,}`)

// SanitizeBaseName makes a user supplied stem safe to use as a vault file
// name: NFC normalized, no path separators or reserved characters, no
// leading or trailing dots and spaces.
func SanitizeBaseName(name string) string {
	name = norm.NFC.String(name)

	// Reserved characters and separators become spaces
	name = illegalChars.ReplaceAllString(name, " ")

	// Collapse ".." so the name cannot climb out of its folder
	name = multiDot.ReplaceAllString(name, ".")

	name = multiSpace.ReplaceAllString(name, " ")

	return strings.Trim(name, " .")
}

// CheckBaseName rejects stems that would move the file out of its folder:
// path separators, NUL and the bare names "." and "..". Anything else is a
// legal vault file name, even where SanitizeBaseName would tidy it.
func CheckBaseName(name string) error {
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: file name %q contains characters that are not allowed", ErrInvalidRequest, name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: file name %q is not allowed", ErrInvalidRequest, name)
	}
	return nil
}

// StemOf returns a local file name without directory and extension.
func StemOf(filename string) string {
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}
	if dot := strings.LastIndexByte(filename, '.'); dot > 0 {
		filename = filename[:dot]
	}
	return filename
}
