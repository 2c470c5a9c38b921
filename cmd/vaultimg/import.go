package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/vaultimg/internal/config"
	"github.com/vmunix/vaultimg/internal/importer"
)

type importOptions struct {
	name        string
	ext         string
	folder      string
	folderName  string
	behavior    string
	conflict    string
	noteName    string
	note        bool
	noNote      bool
	inVault     bool
	noProbe     bool
	concurrency int
}

func newImportCmd(root *rootOptions) *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import [flags] <url|file|data-uri>...",
		Short: "Import one or more images into the vault",
		Long: `Import images into the vault.

Each argument is an http(s) URL, a data: URI or a local file. With
--in-vault the arguments are paths of images already in the vault.
Remote URLs are checked to be images before anything is written.`,
		Example: `  vaultimg import https://example.com/cat.png -f attachments
  vaultimg import ~/Desktop/shot.png --folder-name photos --behavior cut
  vaultimg import --in-vault inbox/raw.jpg -f archive --conflict replace`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, root, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.name, "name", "n", "", "File name without extension (single image only)")
	f.StringVar(&opts.ext, "ext", "", "Extension to store as: jpg or png (default: inferred)")
	f.StringVarP(&opts.folder, "folder", "f", "", "Destination vault folder")
	f.StringVar(&opts.folderName, "folder-name", "", "Destination by predefined folder name (fuzzy)")
	f.StringVar(&opts.behavior, "behavior", "", "Local file behavior: copy or cut (default from config)")
	f.StringVar(&opts.conflict, "conflict", "", "On name conflict: replace, postfix or cancel (default from config)")
	f.BoolVar(&opts.note, "note", false, "Create a companion note")
	f.BoolVar(&opts.noNote, "no-note", false, "Do not create a companion note")
	f.StringVar(&opts.noteName, "note-name", "", "Note name template, e.g. '{{imagename}} notes'")
	f.BoolVar(&opts.inVault, "in-vault", false, "Treat arguments as vault paths")
	f.BoolVar(&opts.noProbe, "no-probe", false, "Skip the image check for remote URLs")
	f.IntVar(&opts.concurrency, "concurrency", 0, "Parallel imports (default from config)")

	cmd.MarkFlagsMutuallyExclusive("note", "no-note")
	cmd.MarkFlagsMutuallyExclusive("folder", "folder-name")
	return cmd
}

func runImport(cmd *cobra.Command, root *rootOptions, opts *importOptions, args []string) error {
	if opts.name != "" && len(args) > 1 {
		return errors.New("--name can only be used with a single image")
	}

	a, err := openApp(root)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	out := cmd.OutOrStdout()
	folder, err := opts.destination(a.cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	now := time.Now()

	// items keeps one entry per argument for --json; pre-flight failures are
	// filled in here and the rest once the imports finish.
	items := make([]outcomeJSON, len(args))
	var reqs []importer.Request
	var slots []int
	failed := 0
	fail := func(n int, err error) {
		failed++
		if root.jsonOutput {
			items[n] = failureJSON(args[n], err)
			return
		}
		_, _ = fmt.Fprintf(out, "Image Import Failed: %s (%v)\n", args[n], err)
	}

	for n, arg := range args {
		form, err := opts.form(arg, folder)
		if err != nil {
			return err
		}

		if form.URL != "" && !opts.noProbe {
			res, err := a.prober.Probe(ctx, form.URL)
			if err != nil {
				fail(n, err)
				continue
			}
			if form.Extension == "" {
				form.Extension = res.Extension
			}
		}

		req, err := form.Request(a.cfg.Defaults, a.cfg.Folders, now)
		if err != nil {
			fail(n, err)
			continue
		}
		reqs = append(reqs, req)
		slots = append(slots, n)
	}

	if !root.jsonOutput {
		a.importer.SetNotifier(&lineNotifier{w: out})
	}

	settings := importer.SettingsFromConfig(a.cfg)
	var outcomes []*importer.Outcome
	switch len(reqs) {
	case 0:
	case 1:
		outcomes = []*importer.Outcome{a.importer.Import(ctx, settings, reqs[0])}
	default:
		concurrency := opts.concurrency
		if concurrency <= 0 {
			concurrency = a.cfg.Import.Concurrency
		}
		outcomes = a.importer.ImportAll(ctx, settings, reqs, concurrency)
	}

	for i, o := range outcomes {
		if o.Status == importer.StatusFailed {
			failed++
		}
		items[slots[i]] = toOutcomeJSON(o)
	}

	if root.jsonOutput {
		if err := printJSON(out, items); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d imports failed", failed, len(args))
	}
	return nil
}

// destination resolves --folder or --folder-name. An empty result leaves the
// choice to the configured defaults.
func (o *importOptions) destination(cfg *config.Config, warn io.Writer) (string, error) {
	if o.folderName == "" {
		return o.folder, nil
	}
	m, ok := importer.MatchFolder(cfg.Folders, o.folderName)
	if !ok {
		return "", fmt.Errorf("no predefined folder matches %q", o.folderName)
	}
	if !m.Exact {
		_, _ = fmt.Fprintf(warn, "Using folder %q (%s) for %q\n", m.Folder.Name, m.Folder.Path, o.folderName)
	}
	return m.Folder.Path, nil
}

// form builds the import form for a single argument.
func (o *importOptions) form(arg, folder string) (importer.Form, error) {
	payload, err := payloadFor(arg, o.inVault)
	if err != nil {
		return importer.Form{}, err
	}

	form := importer.Form{
		Payload:   payload,
		Name:      o.name,
		Extension: o.ext,
		Folder:    folder,
		Behavior:  o.behavior,
		Conflict:  o.conflict,
		NoteName:  o.noteName,
	}
	switch {
	case o.note:
		form.CreateNote = &o.note
	case o.noNote:
		createNote := false
		form.CreateNote = &createNote
	}
	return form, nil
}

// payloadFor classifies a command line argument as an image source.
func payloadFor(arg string, inVault bool) (importer.Payload, error) {
	switch {
	case inVault:
		return importer.Payload{StorePath: arg}, nil
	case strings.HasPrefix(arg, "data:"):
		return importer.Payload{DataURI: arg}, nil
	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"):
		return importer.Payload{URL: arg}, nil
	}

	path, err := filepath.Abs(arg)
	if err != nil {
		return importer.Payload{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return importer.Payload{}, fmt.Errorf("read %s: %w", arg, err)
	}
	return importer.Payload{File: &importer.LocalFile{Path: path, Data: data}}, nil
}

// failureJSON describes an argument that never reached the importer.
func failureJSON(arg string, err error) outcomeJSON {
	return outcomeJSON{
		Status:  string(importer.StatusFailed),
		Source:  arg,
		Error:   err.Error(),
		Message: "Image Import Failed: " + err.Error(),
	}
}

type outcomeJSON struct {
	ID         string   `json:"id,omitempty"`
	Status     string   `json:"status"`
	SourceKind string   `json:"source_kind,omitempty"`
	Source     string   `json:"source,omitempty"`
	Path       string   `json:"path,omitempty"`
	NotePath   string   `json:"note_path,omitempty"`
	SizeBytes  int64    `json:"size_bytes,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Error      string   `json:"error,omitempty"`
	Message    string   `json:"message"`
}

func toOutcomeJSON(o *importer.Outcome) outcomeJSON {
	j := outcomeJSON{
		ID:         o.ID,
		Status:     string(o.Status),
		SourceKind: string(o.SourceKind),
		Source:     o.Source,
		Path:       o.Path,
		NotePath:   o.NotePath,
		SizeBytes:  o.SizeBytes,
		Message:    o.Message(),
	}
	if j.Path == "" {
		j.Path = o.RequestedPath
	}
	for _, w := range o.Warnings {
		j.Warnings = append(j.Warnings, w.Error())
	}
	if o.Err != nil {
		j.Error = o.Err.Error()
	}
	return j
}
