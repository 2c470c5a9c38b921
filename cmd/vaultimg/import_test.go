package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/vaultimg/internal/config"
	"github.com/vmunix/vaultimg/internal/importer"
)

func TestPayloadFor(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(local, pngBytes, 0o644))

	p, err := payloadFor("https://example.com/a.png", false)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.png", p.URL)

	p, err = payloadFor("http://example.com/a.png", false)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/a.png", p.URL)

	p, err = payloadFor("data:image/png;base64,AA==", false)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AA==", p.DataURI)

	p, err = payloadFor("inbox/a.png", true)
	require.NoError(t, err)
	assert.Equal(t, "inbox/a.png", p.StorePath)

	p, err = payloadFor(local, false)
	require.NoError(t, err)
	require.NotNil(t, p.File)
	assert.Equal(t, local, p.File.Path)
	assert.Equal(t, pngBytes, p.File.Data)

	_, err = payloadFor(filepath.Join(dir, "missing.png"), false)
	assert.Error(t, err)
}

func TestImportOptions_NoteFlags(t *testing.T) {
	opts := &importOptions{}
	form, err := opts.form("https://example.com/a.png", "x")
	require.NoError(t, err)
	assert.Nil(t, form.CreateNote, "unset lets the folder decide")

	opts.note = true
	form, err = opts.form("https://example.com/a.png", "x")
	require.NoError(t, err)
	require.NotNil(t, form.CreateNote)
	assert.True(t, *form.CreateNote)

	opts = &importOptions{noNote: true}
	form, err = opts.form("https://example.com/a.png", "x")
	require.NoError(t, err)
	require.NotNil(t, form.CreateNote)
	assert.False(t, *form.CreateNote)
}

func TestImportOptions_Destination(t *testing.T) {
	cfg := &config.Config{Folders: []config.Folder{
		{Name: "Attachments", Path: "assets/attachments"},
		{Name: "Photos", Path: "media/photos"},
	}}
	var warn bytes.Buffer

	got, err := (&importOptions{folder: "/raw/"}).destination(cfg, &warn)
	require.NoError(t, err)
	assert.Equal(t, "/raw/", got, "normalized later by the form")

	got, err = (&importOptions{folderName: "photos"}).destination(cfg, &warn)
	require.NoError(t, err)
	assert.Equal(t, "media/photos", got)
	assert.Empty(t, warn.String())

	got, err = (&importOptions{folderName: "atachments"}).destination(cfg, &warn)
	require.NoError(t, err)
	assert.Equal(t, "assets/attachments", got)
	assert.Contains(t, warn.String(), "Using folder")

	_, err = (&importOptions{folderName: "zzz"}).destination(cfg, &warn)
	assert.Error(t, err)
}

func TestImportCmd_LocalFile(t *testing.T) {
	env := newTestEnv(t)
	src := env.writeLocal(t, "shot.png", pngBytes)

	out, err := env.run(t, "import", "-f", "attachments", src)
	require.NoError(t, err)
	assert.Equal(t, "Image Import Succeeded: shot.png\n", out)
	assert.Equal(t, pngBytes, env.vaultFile(t, "attachments/shot.png"))
	assert.FileExists(t, src, "copy keeps the original")

	out, err = env.run(t, "import", "-f", "attachments", "--behavior", "cut", src)
	require.NoError(t, err)
	assert.Equal(t, "Image Import Succeeded: shot (1).png\n", out)
	assert.NoFileExists(t, src, "cut removes the original")
}

func TestImportCmd_NoteFromFolder(t *testing.T) {
	env := newTestEnv(t)
	src := env.writeLocal(t, "cat.png", pngBytes)

	_, err := env.run(t, "import", "--folder-name", "photos", "-n", "Kitty", src)
	require.NoError(t, err)

	assert.Equal(t, pngBytes, env.vaultFile(t, "photos/Kitty.png"))
	assert.Empty(t, env.vaultFile(t, "photos/Kitty notes.md"))
}

func TestImportCmd_CancelOnConflict(t *testing.T) {
	env := newTestEnv(t)
	src := env.writeLocal(t, "a.png", pngBytes)

	_, err := env.run(t, "import", "-f", "attachments", src)
	require.NoError(t, err)

	out, err := env.run(t, "import", "-f", "attachments", "--conflict", "cancel", src)
	require.NoError(t, err, "canceled is not a failure")
	assert.Equal(t, "Image Import Canceled: a.png already exists\n", out)
}

func TestImportCmd_RemoteURL(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cat.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngBytes)
		default:
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		}
	}))
	defer upstream.Close()

	env := newTestEnv(t)

	out, err := env.run(t, "import", "-f", "attachments", upstream.URL+"/cat.png")
	require.NoError(t, err)
	assert.Equal(t, "Image Import Succeeded: cat.png\n", out)
	assert.Equal(t, pngBytes, env.vaultFile(t, "attachments/cat.png"))

	out, err = env.run(t, "import", "-f", "attachments", upstream.URL+"/page")
	require.Error(t, err)
	assert.Contains(t, out, "Image Import Failed:")
	assert.NoFileExists(t, filepath.Join(env.vaultRoot, "attachments", "page.jpg"))
}

func TestImportCmd_BatchJSON(t *testing.T) {
	env := newTestEnv(t)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	src := env.writeLocal(t, "b.png", pngBytes)

	out, err := env.run(t, "--json", "import", "-f", "attachments", "--concurrency", "2", uri, src)
	require.NoError(t, err)

	var items []outcomeJSON
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, string(importer.KindDataURI), items[0].SourceKind)
	assert.Equal(t, "succeeded", items[0].Status)
	assert.Contains(t, items[0].Path, "attachments/Pasted image ")
	assert.Equal(t, "attachments/b.png", items[1].Path)
}

func TestImportCmd_BatchJSONWithFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cat.png" {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngBytes)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer upstream.Close()

	env := newTestEnv(t)
	src := env.writeLocal(t, "b.png", pngBytes)

	out, err := env.run(t, "--json", "import", "-f", "attachments",
		upstream.URL+"/cat.png", upstream.URL+"/page", src)
	assert.ErrorContains(t, err, "1 of 3 imports failed")

	var items []outcomeJSON
	require.NoError(t, json.Unmarshal([]byte(out), &items), "output is a single JSON array: %s", out)
	require.Len(t, items, 3)
	assert.Equal(t, "succeeded", items[0].Status)
	assert.Equal(t, "attachments/cat.png", items[0].Path)
	assert.Equal(t, "failed", items[1].Status)
	assert.Equal(t, upstream.URL+"/page", items[1].Source)
	assert.NotEmpty(t, items[1].Error)
	assert.Equal(t, "attachments/b.png", items[2].Path)
}

func TestLineNotifier_ConcurrentUse(t *testing.T) {
	var buf bytes.Buffer
	n := &lineNotifier{w: &buf}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Notify("Image Import Succeeded: a.png")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 32)
	for _, line := range lines {
		assert.Equal(t, "Image Import Succeeded: a.png", line)
	}
}

func TestImportCmd_Errors(t *testing.T) {
	env := newTestEnv(t)
	a := env.writeLocal(t, "a.png", pngBytes)
	b := env.writeLocal(t, "b.png", pngBytes)

	_, err := env.run(t, "import", "-f", "attachments", "-n", "x", a, b)
	assert.ErrorContains(t, err, "--name can only be used with a single image")

	_, err = env.run(t, "import", "--note", "--no-note", "-f", "attachments", a)
	assert.Error(t, err)

	_, err = env.run(t, "import", a)
	assert.ErrorContains(t, err, "1 of 1 imports failed", "no folder in manual mode")
}

func TestImportCmd_InVault(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.vaultRoot, "attachments", "raw.png"), pngBytes, 0o644))

	out, err := env.run(t, "import", "--in-vault", "-f", "archive", "attachments/raw.png")
	require.NoError(t, err)
	assert.Equal(t, "Image Import Succeeded: raw.png\n", out)
	assert.Equal(t, pngBytes, env.vaultFile(t, "archive/raw.png"))
}
