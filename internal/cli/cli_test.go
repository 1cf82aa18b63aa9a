package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/yaklabco/litpp/internal/cli"
	"github.com/yaklabco/litpp/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}

	if cmd.Use != "litpp" {
		t.Errorf("expected Use to be 'litpp', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"expand", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}

		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestExpandCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	expandCmd, _, err := cmd.Find([]string{"expand"})
	if err != nil {
		t.Fatalf("expand command not found: %v", err)
	}

	expectedFlags := []string{
		"output-dir",
		"ext",
		"stdout",
		"check",
		"jobs",
		"max-depth",
		"dialect",
		"format",
		"ignore",
		"extensions",
		"flavor",
		"verbose",
		"no-context",
		"compact",
	}

	for _, flagName := range expectedFlags {
		if expandCmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag %q to exist on expand command", flagName)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, flagName := range []string{"debug", "config", "color"} {
		if cmd.PersistentFlags().Lookup(flagName) == nil {
			t.Errorf("expected global flag %q to exist", flagName)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2024-01-01",
	}

	cmd := cli.NewRootCommand(info)
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	for _, want := range []string{"litpp", "1.2.3", "abc123", "2024-01-01"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected version output to contain %q, got %q", want, out.String())
		}
	}
}

func TestExpandCommandAcceptsArbitraryArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	expandCmd, _, err := cmd.Find([]string{"expand"})
	if err != nil {
		t.Fatalf("expand command not found: %v", err)
	}

	err = expandCmd.Args(expandCmd, []string{"main.c", "notes.md", "docs/"})
	if err != nil {
		t.Errorf("expand command should accept arbitrary args, got error: %v", err)
	}
}

func TestExpandHelpListsEnvironment(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"expand", "--help", "--color", "never"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}

	for _, want := range []string{"Environment:", "LITPP_MAX_DEPTH", "--output-dir"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected help to contain %q", want)
		}
	}
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"unknown flag", []string{"expand", "--no-such-flag"}},
		{"version with args", []string{"version", "extra"}},
		{"bad format", []string{"expand", "--format", "xml"}},
		{"bad flavor", []string{"expand", "--flavor", "rst"}},
		{"bad ignore glob", []string{"expand", "--ignore", "[abc"}},
		{"check with stdout", []string{"expand", "--check", "--stdout"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(testInfo())
			cmd.SetArgs(tt.args)
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)

			err := cmd.Execute()
			if got := cli.ExitCode(err); got != cli.ExitInvalidUsage {
				t.Errorf("ExitCode(%v) = %d, want %d", err, got, cli.ExitInvalidUsage)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"expansion failed", cli.ErrExpansionFailed, cli.ExitExpansionFailed},
		{"stale outputs", cli.ErrOutputsStale, cli.ExitExpansionFailed},
		{"wrapped expansion failed", fmt.Errorf("run: %w", cli.ErrExpansionFailed), cli.ExitExpansionFailed},
		{"config", &cli.ExitError{Code: cli.ExitConfigError, Err: errors.New("bad")}, cli.ExitConfigError},
		{"io", fmt.Errorf("outer: %w", &cli.ExitError{Code: cli.ExitIOError, Err: errors.New("disk")}), cli.ExitIOError},
		{"other", errors.New("boom"), cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := cli.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	if got := cli.ExitCodeFromResult(nil); got != cli.ExitSuccess {
		t.Errorf("nil result: got %d", got)
	}

	clean := &runner.Result{Files: []runner.FileOutcome{{Path: "a.c"}}}
	if got := cli.ExitCodeFromResult(clean); got != cli.ExitSuccess {
		t.Errorf("clean result: got %d", got)
	}

	failed := &runner.Result{
		Files: []runner.FileOutcome{{Path: "a.c", Error: errors.New("boom")}},
		Stats: runner.Stats{FilesFailed: 1},
	}
	if got := cli.ExitCodeFromResult(failed); got != cli.ExitExpansionFailed {
		t.Errorf("failed result: got %d", got)
	}
}
