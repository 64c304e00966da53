package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/theyify/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
)

const sampleTSV = "\ttext id\toriginal-text\tgold-text\n" +
	"0\tt1\t<<<He/she>>> is happy\tThey are happy\n" +
	"1\tt2\tHe/she has two cats\tThey have two cats\n" +
	"2\tt3\tHis/her dog runs fast\tTheir dog run fast\n" +
	"3\tt4\tHe/she walks  home\tThey walk home\n"

// resetFlags restores every flag to its default so runs don't leak into each other
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with a fresh config file in a temp dir
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeWithConfig(t, "cache:\n  enabled: true\n", args...)
}

// executeWithConfig runs the root command against a config file holding content
func executeWithConfig(t *testing.T, content string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(sampleTSV))
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEval_Summary(t *testing.T) {
	input := writeFile(t, "test_data.tsv", sampleTSV)

	stdout, _, err := execute(t, "eval", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Number of correct/matching sentences: 3\nAccuracy = 0.75\n"
	if stdout != want {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", stdout, want)
	}
}

func TestEval_Stdin(t *testing.T) {
	stdout, _, err := execute(t, "eval", "-")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Number of correct/matching sentences: 3") {
		t.Errorf("unexpected output: %q", stdout)
	}
}

func TestEval_Export(t *testing.T) {
	input := writeFile(t, "test_data.tsv", sampleTSV)
	dir := t.TempDir()
	exportFile := filepath.Join(dir, "final_data.csv")
	reportFile := filepath.Join(dir, "report.json")

	_, _, err := execute(t, "eval", input, "--export", exportFile, "--report", reportFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(exportFile)
	if err != nil {
		t.Fatalf("expected export file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != ",text id,original-text,gold-text,score" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[3] != "2,t3,their dog runs fast,their dog run fast,0" {
		t.Errorf("unexpected row: %q", lines[3])
	}

	if _, err := os.Stat(reportFile); err != nil {
		t.Errorf("expected report file: %v", err)
	}
}

func TestEval_NoExportByDefault(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test_data.tsv")
	if err := os.WriteFile(input, []byte(sampleTSV), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := execute(t, "eval", input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the input file, found %d entries", len(entries))
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{"empty", "original-text\tgold-text\n", model.ErrEmptyDataset},
		{"missing column", "text id\toriginal-text\nt1\tx\n", model.ErrMalformedInput},
		{"null text", "text id\toriginal-text\tgold-text\nt1\tx\t\n", model.ErrMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := writeFile(t, "bad.tsv", tt.content)

			stdout, _, err := execute(t, "eval", input)
			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
			if stdout != "" {
				t.Errorf("expected no summary, got %q", stdout)
			}
		})
	}

	if _, _, err := execute(t, "eval", filepath.Join(t.TempDir(), "missing.tsv")); err == nil {
		t.Error("expected error for missing input file")
	}
}

func TestEval_CommaInput(t *testing.T) {
	input := writeFile(t, "data.csv", "original-text,gold-text\nHe/she is here,They are here\n")

	stdout, _, err := execute(t, "eval", input, "--delimiter", "comma", "--no-cache")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Accuracy = 1\n") {
		t.Errorf("unexpected output: %q", stdout)
	}
}

func TestBatch(t *testing.T) {
	good := writeFile(t, "good.tsv", sampleTSV)
	perfect := writeFile(t, "perfect.tsv", "original-text\tgold-text\nHe/she is here\tThey are here\n")

	stdout, _, err := execute(t, "batch", good, perfect, "--concurrency", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, 2 files and totals, got:\n%s", stdout)
	}
	if !strings.HasPrefix(lines[1], good) || !strings.HasPrefix(lines[2], perfect) {
		t.Errorf("expected rows in input order:\n%s", stdout)
	}
	if fields := strings.Fields(lines[3]); fields[0] != "ALL" || fields[1] != "4" || fields[2] != "5" {
		t.Errorf("unexpected totals: %q", lines[3])
	}
}

func TestBatch_Failure(t *testing.T) {
	good := writeFile(t, "good.tsv", sampleTSV)
	empty := writeFile(t, "empty.tsv", "original-text\tgold-text\n")

	stdout, stderr, err := execute(t, "batch", good, empty)
	if err == nil {
		t.Fatal("expected error when a file fails")
	}
	if !strings.Contains(stderr, empty) {
		t.Errorf("expected failure to name the file, got %q", stderr)
	}
	if !strings.Contains(stdout, good) {
		t.Errorf("expected successful file to be reported, got %q", stdout)
	}
}

func TestRules(t *testing.T) {
	stdout, _, err := execute(t, "rules")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := []string{`"he/she"`, `"his/hers"`, "they-is", "they-has", "they-does", "they-verb-s"}
	last := -1
	for _, s := range order {
		i := strings.Index(stdout, s)
		if i < 0 {
			t.Fatalf("expected %s in output:\n%s", s, stdout)
		}
		if i < last {
			t.Errorf("%s listed out of order", s)
		}
		last = i
	}
}

func TestConfigInitAndShow(t *testing.T) {
	resetFlags(rootCmd)
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--config", cfgPath, "config", "init"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("expected config file: %v", err)
	}

	// A second init refuses to overwrite
	rootCmd.SetArgs([]string{"--config", cfgPath, "config", "init"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error when config already exists")
	}

	stdout.Reset()
	rootCmd.SetArgs([]string{"--config", cfgPath, "config", "show"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	for _, want := range []string{"<<<", "original_column: original-text", "workers: 4"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("expected %q in config show output:\n%s", want, stdout.String())
		}
	}
}

func TestConfig_MissingExplicitFile(t *testing.T) {
	resetFlags(rootCmd)
	input := writeFile(t, "test_data.tsv", sampleTSV)

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "eval", input})

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(stdout, "theyify v") {
		t.Errorf("unexpected version output: %q", stdout)
	}
}

func TestVerboseLogging(t *testing.T) {
	tests := []struct {
		name   string
		config string
		args   []string
		want   bool
	}{
		{"default", "cache:\n  enabled: true\n", []string{"version"}, false},
		{"flag", "cache:\n  enabled: true\n", []string{"--verbose", "version"}, true},
		{"config file", "output:\n  verbose: true\n", []string{"version"}, true},
		{"config file off", "output:\n  verbose: false\n", []string{"version"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := executeWithConfig(t, tt.config, tt.args...); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := logger.Core().Enabled(zapcore.DebugLevel); got != tt.want {
				t.Errorf("debug enabled = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBatchTimeout(t *testing.T) {
	if def := batchCmd.Flags().Lookup("timeout").DefValue; def != "0s" {
		t.Errorf("timeout default = %q, want no limit", def)
	}

	tests := []struct {
		name         string
		timeout      time.Duration
		wantDeadline bool
	}{
		{"unset", 0, false},
		{"negative", -time.Second, false},
		{"set", time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := batchContext(context.Background(), tt.timeout)
			defer cancel()
			if _, ok := ctx.Deadline(); ok != tt.wantDeadline {
				t.Errorf("deadline set = %v, want %v", ok, tt.wantDeadline)
			}
		})
	}
}
