package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aliasdemo/internal/config"
	"aliasdemo/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootDefaultOutput(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, "4 6 6 6 6 \n", out)
}

func TestRootWritesToStdout(t *testing.T) {
	output := captureOutput(t, func() {
		cmd := newRootCmd()
		cmd.SetArgs([]string{})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}
	})

	if output != "4 6 6 6 6 \n" {
		t.Fatalf("expected '4 6 6 6 6 \\n', got %q", output)
	}
}

func TestRootFlagOverrides(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"cached mode", []string{"--mode", "cached"}, "4 4 4 4 4 \n"},
		{"index mode", []string{"--mode", "index"}, "4 6 6 6 6 \n"},
		{"empty sequence", []string{"--length", "0"}, "\n"},
		{"alias middle element", []string{"--length", "3", "--fill", "1", "--alias-index", "1"}, "2 2 3 \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRootInvalidFlags(t *testing.T) {
	_, err := execute(t, "--alias-index", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, err = execute(t, "--mode", "lazy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")
}

func TestRootRejectsHugeLength(t *testing.T) {
	_, err := execute(t, "--length", "9223372036854775807")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sequence length too large")

	t.Setenv("ALIASDEMO_LENGTH", "9223372036854775807")
	_, err = execute(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sequence length too large")
}

// syncRecorder is a log sink that remembers whether it was flushed.
type syncRecorder struct {
	bytes.Buffer
	synced bool
}

func (s *syncRecorder) Sync() error {
	s.synced = true
	return nil
}

func TestExecuteRootSyncsLoggerOnError(t *testing.T) {
	sink := &syncRecorder{}
	opts := &options{logSink: sink}
	cmd := newRootCmdWithOptions(opts)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--mode", "lazy", "--verbose"})

	err := executeRoot(cmd, opts)
	require.Error(t, err)
	assert.True(t, sink.synced, "logger must be flushed when the command fails")
	assert.Contains(t, sink.String(), string(logging.CategoryBoot))
}

func TestExecuteRootSyncsLoggerOnSuccess(t *testing.T) {
	sink := &syncRecorder{}
	opts := &options{logSink: sink}
	cmd := newRootCmdWithOptions(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, executeRoot(cmd, opts))
	assert.True(t, sink.synced)
	assert.Equal(t, "4 6 6 6 6 \n", out.String())
}

func TestRootRejectsArgs(t *testing.T) {
	_, err := execute(t, "extra")
	require.Error(t, err)
}

func TestRootReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliasdemo.yaml")
	cfg := config.DefaultConfig()
	cfg.Sequence.Length = 2
	cfg.Sequence.Fill = 5
	require.NoError(t, cfg.Save(path))

	out, err := execute(t, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "10 15 \n", out)

	// Flags win over the file.
	out, err = execute(t, "--config", path, "--fill", "1")
	require.NoError(t, err)
	assert.Equal(t, "2 3 \n", out)
}

func TestTraceCommand(t *testing.T) {
	out, err := execute(t, "trace")
	require.NoError(t, err)

	assert.Contains(t, out, "Initial [2 2 2 2 2], value aliases index 0 (mode reread)")
	assert.Contains(t, out, "value now reads 4")
	for _, row := range []string{"2      2        4        6", "5      2        4        6"} {
		assert.Contains(t, out, row)
	}
	assert.True(t, strings.HasSuffix(out, "4 6 6 6 6 \n"), "trace must end with the result line, got %q", out)
}

func TestTraceCommandCachedMode(t *testing.T) {
	out, err := execute(t, "trace", "--mode", "cached")
	require.NoError(t, err)
	assert.Contains(t, out, "no per-step trace in cached mode")
	assert.True(t, strings.HasSuffix(out, "4 4 4 4 4 \n"))
}

func TestTraceCommandIndexMode(t *testing.T) {
	out, err := execute(t, "trace", "--mode", "index")
	require.NoError(t, err)
	assert.NotContains(t, out, "no per-step trace")
	assert.Contains(t, out, "5      2        4        6")
	assert.True(t, strings.HasSuffix(out, "4 6 6 6 6 \n"))
}

func TestConfigInitIgnoresBrokenConfiguration(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("sequence: [unclosed"), 0644))
	t.Setenv("ALIASDEMO_FILL", "two")

	// The root command cannot resolve this configuration...
	_, err := execute(t, "--config", broken)
	require.Error(t, err)

	// ...but a fresh default file can still be written.
	path := filepath.Join(dir, "fresh.yaml")
	out, err := execute(t, "config", "init", path, "--config", broken)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default configuration")
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "aliasdemo.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default configuration")

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Sequence, loaded.Sequence)

	_, err = execute(t, "config", "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "config", "init", path, "--force")
	require.NoError(t, err)
}

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origOut := os.Stdout
	rOut, wOut, _ := os.Pipe()
	os.Stdout = wOut

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rOut)
		done <- buf.String()
	}()

	fn()

	_ = wOut.Close()
	os.Stdout = origOut
	return <-done
}
