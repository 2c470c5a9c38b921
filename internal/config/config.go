// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure. Treat it as a value: the
// With* methods return modified copies instead of mutating shared state.
type Config struct {
	Vault    VaultConfig    `toml:"vault"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Defaults DefaultsConfig `toml:"defaults"`
	Folders  []Folder       `toml:"folders" validate:"dive"`
	Fetch    FetchConfig    `toml:"fetch"`
	Import   ImportConfig   `toml:"import"`
	Watch    WatchConfig    `toml:"watch"`
	Server   ServerConfig   `toml:"server"`
}

type VaultConfig struct {
	Root string `toml:"root" validate:"required"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level  string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `toml:"format" validate:"omitempty,oneof=text logfmt json"`
}

// DefaultsConfig holds the import form defaults.
type DefaultsConfig struct {
	Extension         string `toml:"extension" validate:"omitempty,oneof=jpg png"`
	ImportBehavior    string `toml:"import_behavior" validate:"omitempty,oneof=copy cut move"`
	Conflict          string `toml:"conflict" validate:"omitempty,oneof=replace postfix cancel"`
	FolderMode        string `toml:"folder_mode" validate:"omitempty,oneof=manual predefined"`
	PredefinedFolder  string `toml:"predefined_folder"`
	LocalImportFolder string `toml:"local_import_folder"`
}

// Folder is a predefined destination folder.
type Folder struct {
	Name                 string `toml:"name" json:"name"`
	Path                 string `toml:"path" json:"path" validate:"required"`
	CreateNote           bool   `toml:"create_note" json:"create_note"`
	CreateNoteSubfolders bool   `toml:"create_note_subfolders" json:"create_note_subfolders"`
	NoteTemplate         string `toml:"note_template" json:"note_template,omitempty"`
}

type FetchConfig struct {
	UserAgent     string   `toml:"user_agent"`
	Timeout       Duration `toml:"timeout"`
	RatePerSecond float64  `toml:"rate_per_second" validate:"gte=0"`
	Burst         int      `toml:"burst" validate:"gte=0"`
	MaxBytes      int64    `toml:"max_bytes" validate:"gte=0"`
	// ProbeCacheTTL keeps probe results for remote URLs. Zero disables the cache.
	ProbeCacheTTL Duration `toml:"probe_cache_ttl"`
}

type ImportConfig struct {
	// ReplaceSettle is waited between deleting a replaced file and resolving
	// the destination. Only needed for eventually consistent storage.
	ReplaceSettle Duration `toml:"replace_settle"`
	Concurrency   int      `toml:"concurrency" validate:"gte=0"`
}

type WatchConfig struct {
	Enabled    bool   `toml:"enabled"`
	Dir        string `toml:"dir"`
	Folder     string `toml:"folder"`
	Behavior   string `toml:"behavior" validate:"omitempty,oneof=copy cut move"`
	Conflict   string `toml:"conflict" validate:"omitempty,oneof=replace postfix cancel"`
	CreateNote bool   `toml:"create_note"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Duration is a time.Duration written as a string ("100ms") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration without validating it.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, missing, nil
}

func (c *Config) applyDefaults() {
	c.Vault.Root = expandHome(c.Vault.Root)
	c.Watch.Dir = expandHome(c.Watch.Dir)
	c.Database.Path = expandHome(c.Database.Path)
	if c.Database.Path == "" {
		c.Database.Path = "./data/vaultimg.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Defaults.Extension == "" {
		c.Defaults.Extension = "jpg"
	}
	if c.Defaults.ImportBehavior == "" {
		c.Defaults.ImportBehavior = "copy"
	}
	if c.Defaults.Conflict == "" {
		c.Defaults.Conflict = "postfix"
	}
	if c.Defaults.FolderMode == "" {
		c.Defaults.FolderMode = "manual"
	}
	if c.Import.Concurrency == 0 {
		c.Import.Concurrency = 4
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "vaultimg"
	}
	if c.Watch.Behavior == "" {
		c.Watch.Behavior = "copy"
	}
	if c.Watch.Conflict == "" {
		c.Watch.Conflict = "postfix"
	}
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8585
	}
	for i := range c.Folders {
		c.Folders[i].Path = strings.Trim(strings.TrimSpace(c.Folders[i].Path), "/")
		if c.Folders[i].Name == "" {
			c.Folders[i].Name = c.Folders[i].Path
		}
	}
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

// WithFolders returns a copy of c using folders as the predefined folder list.
func (c Config) WithFolders(folders []Folder) Config {
	c.Folders = slices.Clone(folders)
	return c
}

// WithDefaults returns a copy of c with new import defaults.
func (c Config) WithDefaults(d DefaultsConfig) Config {
	c.Defaults = d
	c.Folders = slices.Clone(c.Folders)
	return c
}

// FolderByPath returns the predefined folder with the given path.
func (c *Config) FolderByPath(path string) (Folder, bool) {
	path = strings.Trim(path, "/")
	for _, f := range c.Folders {
		if f.Path == path {
			return f, true
		}
	}
	return Folder{}, false
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment references and returns the names
// (or ":?" messages) of those that could not be resolved. Unresolved
// references are left in place.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, op, arg := parts[1], parts[2], parts[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
			return value
		default:
			if !ok {
				missing = append(missing, name)
				return match
			}
			return value
		}
	})
	return out, missing
}
