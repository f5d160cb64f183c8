package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/internal/glossary"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/internal/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/errors"
)

func loadGlossary(t *testing.T, path string) tokenizer.WordSet {
	t.Helper()
	words, err := glossary.NewFileBackend(path, time.Second).Load(context.Background())
	require.NoError(t, err)
	return words
}

func runCLI(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String() + stderr.String()
}

func TestRunSingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "f.py")
	require.NoError(t, os.WriteFile(src, []byte("def f(x_1): return x_1+2"), 0o644))
	out := filepath.Join(dir, "glossary.txt")

	code, logs := runCLI(t,
		"--input_data_path", src,
		"--glossary_path", out,
		"--load_glossary", "0",
	)
	require.Equal(t, apperrors.ExitOK, code, logs)
	assert.Equal(t, tokenizer.NewWordSet("def", "f", "x", "return"), loadGlossary(t, out))
	assert.Contains(t, logs, "run_id=")
}

func TestRunMergeAndRecursive(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "corpus")
	require.NoError(t, os.MkdirAll(filepath.Join(corpus, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(corpus, "top.sql"), []byte("SELECT name FROM users"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(corpus, "nested", "deep.xml"), []byte("<node attr=\"v1\"/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(corpus, "skip.md"), []byte("markdown"), 0o644))

	out := filepath.Join(dir, "glossary.txt")
	require.NoError(t, os.WriteFile(out, []byte("existing\nwords\n"), 0o644))

	code, logs := runCLI(t,
		"--input_data_path", corpus,
		"--glossary_path", out,
		"--load_glossary", "1",
		"--recursive", "1",
	)
	require.Equal(t, apperrors.ExitOK, code, logs)
	assert.Equal(t,
		tokenizer.NewWordSet("existing", "words", "SELECT", "name", "FROM", "users", "node", "attr", "v"),
		loadGlossary(t, out))
}

func TestRunOverwritesWithoutLoad(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("fresh"), 0o644))
	out := filepath.Join(dir, "glossary.txt")
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0o644))

	code, logs := runCLI(t, "--input_data_path", src, "--glossary_path", out)
	require.Equal(t, apperrors.ExitOK, code, logs)
	assert.Equal(t, tokenizer.NewWordSet("fresh"), loadGlossary(t, out))
}

func TestRunInvalidInputStillDumps(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "glossary.txt")
	require.NoError(t, os.WriteFile(out, []byte("kept"), 0o644))

	code, logs := runCLI(t,
		"--input_data_path", filepath.Join(dir, "missing"),
		"--glossary_path", out,
		"--load_glossary", "1",
	)
	require.Equal(t, apperrors.ExitOK, code, logs)
	assert.Contains(t, logs, "invalid input path")
	assert.Equal(t, tokenizer.NewWordSet("kept"), loadGlossary(t, out))
}

func TestRunUnwritableGlossary(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("word"), 0o644))

	code, _ := runCLI(t,
		"--input_data_path", src,
		"--glossary_path", filepath.Join(src, "glossary.txt"),
	)
	assert.Equal(t, apperrors.ExitFatal, code)
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing input", []string{"--glossary_path", "g.txt"}},
		{"missing glossary", []string{"--input_data_path", "."}},
		{"bad load flag", []string{"--input_data_path", ".", "--glossary_path", "g.txt", "--load_glossary", "2"}},
		{"bad recursive flag", []string{"--input_data_path", ".", "--glossary_path", "g.txt", "--recursive", "5"}},
		{"unknown backend", []string{"--input_data_path", ".", "--glossary_path", "g.txt", "--backend", "s3"}},
		{"unknown flag", []string{"--verbose"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := runCLI(t, tt.args...)
			assert.Equal(t, apperrors.ExitConfig, code)
		})
	}
}

func TestRunWritesMetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("one two"), 0o644))
	promPath := filepath.Join(dir, "glossary.prom")
	t.Setenv("GL_METRICS_TEXTFILE_PATH", promPath)

	code, logs := runCLI(t, "--input_data_path", src, "--glossary_path", filepath.Join(dir, "g.txt"))
	require.Equal(t, apperrors.ExitOK, code, logs)

	data, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "glossary_size 2")
	assert.Contains(t, string(data), `glossary_dumps_total{status="success"} 1`)
}
