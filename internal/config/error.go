// internal/config/error.go
package config

import (
	"fmt"
	"slices"
	"strings"
)

// ConfigError collects everything wrong with one config file. Errors hold
// "section.field: message" lines as produced by Validate.
type ConfigError struct {
	Path    string
	Missing []string // unresolved ${VAR} references
	Errors  []string
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "config %s:", e.Path)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "\n  missing environment variables: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Errors) > 0 {
		b.WriteString("\n  validation failed:")
		bySection := e.BySection()
		for _, section := range e.Sections() {
			fmt.Fprintf(&b, "\n  [%s]", section)
			for _, msg := range bySection[section] {
				fmt.Fprintf(&b, "\n    - %s", msg)
			}
		}
	}
	return b.String()
}

// HasErrors reports whether anything was recorded.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}

// BySection groups the validation errors by top-level table, so that
// "folders[1].path: ..." lands under "folders".
func (e *ConfigError) BySection() map[string][]string {
	out := make(map[string][]string)
	for _, msg := range e.Errors {
		s := sectionOf(msg)
		out[s] = append(out[s], msg)
	}
	return out
}

// Sections lists the tables with errors in the order they first appear.
func (e *ConfigError) Sections() []string {
	var out []string
	for _, msg := range e.Errors {
		if s := sectionOf(msg); !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// FolderErrors returns the errors reported against folders[i].
func (e *ConfigError) FolderErrors(i int) []string {
	prefix := fmt.Sprintf("folders[%d].", i)
	var out []string
	for _, msg := range e.Errors {
		if strings.HasPrefix(msg, prefix) {
			out = append(out, msg)
		}
	}
	return out
}

func sectionOf(msg string) string {
	field, _, ok := strings.Cut(msg, ":")
	if !ok {
		return "config"
	}
	end := strings.IndexAny(field, ".[")
	if end < 0 {
		return field
	}
	return field[:end]
}
