// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce    sync.Once
	structValidator *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
		structValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return structValidator
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if err := getValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []string{err.Error()}
		}
		for _, fe := range verrs {
			errs = append(errs, formatFieldError(fe))
		}
	}

	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}

	seen := make(map[string]bool)
	for i, f := range c.Folders {
		if f.Path == "" {
			continue
		}
		if seen[f.Path] {
			errs = append(errs, fmt.Sprintf("folders[%d].path: duplicate folder %q", i, f.Path))
		}
		seen[f.Path] = true
		if strings.Contains(f.NoteTemplate, "/") {
			errs = append(errs, fmt.Sprintf("folders[%d].note_template: must be a file name, got %q", i, f.NoteTemplate))
		}
	}

	if c.Defaults.FolderMode == "predefined" {
		if _, ok := c.FolderByPath(c.Defaults.PredefinedFolder); !ok {
			errs = append(errs, fmt.Sprintf("defaults.predefined_folder: %q is not one of the configured folders", c.Defaults.PredefinedFolder))
		}
	}

	if c.Watch.Enabled {
		if c.Watch.Dir == "" {
			errs = append(errs, "watch.dir: required when watch is enabled")
		}
		if strings.Trim(c.Watch.Folder, "/ ") == "" {
			errs = append(errs, "watch.folder: required when watch is enabled")
		}
	}

	// Vault root warning (non-fatal)
	if c.Vault.Root != "" {
		if _, err := os.Stat(c.Vault.Root); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("vault.root: warning: directory %q does not exist", c.Vault.Root))
		}
	}

	return errs
}

func formatFieldError(fe validator.FieldError) string {
	// Namespace is "Config.folders[0].path"; drop the root type.
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return field + ": required"
	case "oneof":
		return fmt.Sprintf("%s: must be one of %s; got %q", field, strings.ReplaceAll(fe.Param(), " ", ", "), fmt.Sprint(fe.Value()))
	case "gte":
		return fmt.Sprintf("%s: must be >= %s, got %v", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s: failed %q check", field, fe.Tag())
	}
}
