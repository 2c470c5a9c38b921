package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// testEnv is a throwaway vault, database and config file.
type testEnv struct {
	dir        string
	vaultRoot  string
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:        dir,
		vaultRoot:  filepath.Join(dir, "vault"),
		configPath: filepath.Join(dir, "vaultimg.toml"),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(env.vaultRoot, "attachments"), 0o755))

	cfg := fmt.Sprintf(`
[vault]
root = %q

[database]
path = %q

[defaults]
extension = "jpg"
conflict = "postfix"
import_behavior = "copy"

[[folders]]
name = "attachments"
path = "attachments"

[[folders]]
name = "photos"
path = "photos"
create_note = true
note_template = "{{imagename}} notes"
`, env.vaultRoot, filepath.Join(dir, "vaultimg.db"))
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfg), 0o644))
	return env
}

// run executes the CLI with --config pointing at the test env.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e *testEnv) vaultFile(t *testing.T, rel string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.vaultRoot, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return data
}

func (e *testEnv) writeLocal(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}
