package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/WendelHime/mktorrent/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCreateCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("hello world"), 0o644))
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	out, err := execute(t, "--config", filepath.Join(dir, "none.yaml"), "--quiet", "--output", outDir, "--created-by", "tests", src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "data.torrent"), strings.TrimSpace(out))

	content, err := os.ReadFile(filepath.Join(outDir, "data.torrent"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "10:created by5:tests")
	assert.Contains(t, string(content), "8:announce"+"40:"+config.DefaultAnnounce)

	_, err = execute(t, "--config", filepath.Join(dir, "none.yaml"), "--quiet", "--output", outDir, src)
	assert.Error(t, err)
}

func TestUploadCommand(t *testing.T) {
	var form url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(raw))
		w.Write([]byte("uploaded"))
	}))
	defer server.Close()

	dir := t.TempDir()
	src := filepath.Join(dir, "paper.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4"), 0o644))
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("upload_url: "+server.URL+"\noutput_dir: "+dir+"\n"), 0o644))
	t.Setenv(config.APIKeyEnv, "uid=7&pass=pw")

	out, err := execute(t, "upload", "--config", cfg, "--quiet", "--env-file", filepath.Join(dir, "none.env"),
		"--category", "paper", "--authors", "Someone", src)
	require.NoError(t, err)
	assert.Equal(t, "uploaded", strings.TrimSpace(out))

	assert.Equal(t, "7", form.Get("uid"))
	assert.Equal(t, "5", form.Get("category"))
	assert.Equal(t, "paper.pdf", form.Get("name"))
	assert.Equal(t, "Someone", form.Get("authors"))
	assert.NotEmpty(t, form.Get("file"))

	_, err = os.Stat(filepath.Join(dir, "paper.pdf.torrent"))
	assert.NoError(t, err)
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(src, bytes.Repeat([]byte("x"), 20000), 0o644))

	_, err := execute(t, "--config", filepath.Join(dir, "none.yaml"), "--quiet", "--output", dir, src)
	require.NoError(t, err)

	out, err := execute(t, "inspect", filepath.Join(dir, "notes.txt.torrent"))
	require.NoError(t, err)
	assert.Contains(t, out, "notes.txt")
	assert.Regexp(t, `piece length\s+16384`, out)
	assert.Regexp(t, `pieces\s+2`, out)
	assert.Regexp(t, `info hash\s+[0-9a-f]{40}`, out)
}
