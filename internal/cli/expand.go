package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/litpp/internal/configloader"
	"github.com/yaklabco/litpp/internal/logging"
	"github.com/yaklabco/litpp/pkg/config"
	"github.com/yaklabco/litpp/pkg/reporter"
	"github.com/yaklabco/litpp/pkg/runner"
)

type expandFlags struct {
	format          string
	flavor          string
	dialect         string
	ignore          []string
	extensions      []string
	includeVendored bool
	followSymlinks  bool
	verbose         bool
	noContext       bool
	compact         bool
}

func newExpandCommand() *cobra.Command {
	var cfg config.Config
	flags := &expandFlags{}

	cmd := &cobra.Command{
		Use:         "expand [paths...]",
		Short:       "Expand literate documents",
		Long:        expandLongDescription,
		Args:        cobra.ArbitraryArgs,
		Annotations: map[string]string{annotationEnv: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(cmd, args, &cfg, flags)
		},
	}

	addExpandFlags(cmd, &cfg, flags)

	return cmd
}

const expandLongDescription = `Expand literate documents into their assembled form.

Each input is split into prose, kept code and discarded regions by the
block markers of its dialect. Macro calls are replaced by their results
and the markers are removed. By default every .c, .h, .lua, .md and .txt
file under the current directory is expanded and written next to its
input with the .md extension.

Examples:
  litpp expand                        # Expand the current directory
  litpp expand src/ --output-dir docs # Write outputs under docs/
  litpp expand main.c --stdout        # Print the expansion of one file
  litpp expand --dialect lua notes.txt
  litpp expand --check                # Fail when outputs are out of date
  litpp expand --format json          # Machine-readable report`

func runExpand(cmd *cobra.Command, args []string, cfg *config.Config, flags *expandFlags) error {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	// Only flags the user set override lower configuration layers.
	if cmd.Flags().Changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
		if !cfg.Format.IsValid() {
			return usageErrorf("invalid --format %q: must be text, table or json", flags.format)
		}
	}
	if cmd.Flags().Changed("flavor") {
		cfg.Flavor = config.Flavor(flags.flavor)
		if !configloader.IsValidFlavor(cfg.Flavor) {
			return usageErrorf("invalid --flavor %q: must be commonmark or gfm", flags.flavor)
		}
	}
	if cmd.Flags().Changed("dialect") {
		cfg.Dialect = flags.dialect
	}
	if cmd.Flags().Changed("extensions") {
		cfg.Extensions = flags.extensions
	}
	if cfg.Check && cfg.Stdout {
		return usageErrorf("--check and --stdout cannot be combined")
	}
	if _, err := runner.CompileGlobs(flags.ignore); err != nil {
		return usageErrorf("--ignore: %w", err)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return withCode(ExitIOError, fmt.Errorf("get working directory: %w", err))
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cfg,
	})
	if err != nil {
		return withCode(ExitConfigError, errors.Join(errors.New("failed to load configuration"), err))
	}

	finalCfg := loadResult.Config
	finalCfg.Ignore = append(finalCfg.Ignore, flags.ignore...)

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}
	logger.Debug("configuration loaded",
		logging.FieldMaxDepth, finalCfg.MaxDepth,
		logging.FieldJobs, finalCfg.Jobs,
		logging.FieldDialect, finalCfg.Dialect,
	)

	expander, err := runner.FromConfig(finalCfg)
	if err != nil {
		return withCode(ExitConfigError, errors.Join(errors.New("invalid dialect configuration"), err))
	}

	runOpts := runner.OptionsFromConfig(finalCfg, args)
	runOpts.WorkingDir = workDir
	runOpts.IncludeVendored = flags.includeVendored
	runOpts.FollowSymlinks = flags.followSymlinks

	logger.Debug("starting expansion",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
	)

	result, err := expander.Run(ctx, runOpts)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return withCode(ExitInternalError, err)
		}
		return withCode(ExitIOError, errors.Join(errors.New("expansion run failed"), err))
	}

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return usageErrorf("invalid format: %w", err)
	}

	// Expanded text owns stdout; text and table reports move to stderr.
	reportWriter := cmd.OutOrStdout()
	if finalCfg.Stdout && format != reporter.FormatJSON {
		if err := writeContents(cmd.OutOrStdout(), result); err != nil {
			return withCode(ExitIOError, err)
		}
		reportWriter = cmd.ErrOrStderr()
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      reportWriter,
		Format:      format,
		Color:       colorMode,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Verbose:     flags.verbose,
		Compact:     flags.compact,
		WorkingDir:  workDir,
		Sources:     expander.Engine.Cache(),
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return withCode(ExitIOError, fmt.Errorf("report results: %w", err))
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrExpansionFailed
	}
	if result.HasStale() {
		return ErrOutputsStale
	}
	return nil
}

// writeContents prints every expanded document in path order.
func writeContents(w io.Writer, result *runner.Result) error {
	for _, file := range result.Files {
		if file.Error != nil || file.Skipped {
			continue
		}
		if _, err := io.WriteString(w, file.Content); err != nil {
			return fmt.Errorf("write %s: %w", file.Path, err)
		}
	}
	return nil
}

func addExpandFlags(cmd *cobra.Command, cfg *config.Config, flags *expandFlags) {
	cmd.Flags().StringVarP(&cfg.OutputDir, "output-dir", "o", "", "directory receiving expanded files (default: next to each input)")
	cmd.Flags().StringVar(&cfg.OutputExt, "ext", "", "extension of expanded files (default .md)")
	cmd.Flags().BoolVar(&cfg.Stdout, "stdout", false, "write expanded text to standard output")
	cmd.Flags().BoolVar(&cfg.Check, "check", false, "report outputs that differ from their expansion without writing")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().IntVar(&cfg.MaxDepth, "max-depth", 0, "maximum call and include nesting (default 32)")
	cmd.Flags().StringVar(&flags.dialect, "dialect", "", "force one dialect for every input")
	cmd.Flags().StringVar(&flags.format, "format", "text", "report format: text, table, json")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "gfm", "Markdown flavor for include.section: commonmark, gfm")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.extensions, "extensions", nil, "extensions picked up in directories")
	cmd.Flags().BoolVar(&flags.includeVendored, "include-vendored", false, "expand vendored and generated files too")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "follow directory symlinks")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list every file, not only failures")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
}
