package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/litpp/internal/configloader"
	"github.com/yaklabco/litpp/internal/logging"
	"github.com/yaklabco/litpp/pkg/config"
	"github.com/yaklabco/litpp/pkg/literate"
	"github.com/yaklabco/litpp/pkg/runner"
)

// defaultConfigFile is the project configuration written by init.
const defaultConfigFile = ".litpp.yml"

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new litpp configuration file",
		Long: `Create a new .litpp.yml configuration file in the current directory
with sensible defaults.

Examples:
  litpp init                      Create a minimal .litpp.yml
  litpp init --full               Write every setting, including built-in dialects
  litpp init --output custom.yml  Write to a custom file path`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "write every setting, including built-in dialects")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.Default()

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return withCode(ExitIOError, fmt.Errorf("resolve path: %w", err))
	}

	if _, err := os.Stat(absPath); err == nil && !flags.force {
		if !configloader.IsInteractive() {
			return usageErrorf("file %q already exists; use --force to overwrite", flags.output)
		}
		ok, err := configloader.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(),
			fmt.Sprintf("%s already exists. Overwrite?", flags.output))
		if err != nil {
			return withCode(ExitIOError, err)
		}
		if !ok {
			logger.Info("left existing file unchanged", logging.FieldPath, flags.output)
			return nil
		}
	}

	opts := config.TemplateOptions{Full: flags.full}
	if flags.full {
		opts.Dialects = runner.DefaultDialectConfigs()
		opts.Languages = literate.DefaultLanguages()
	}

	content, err := config.GenerateTemplate(opts)
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := configloader.WriteConfig(absPath, content); err != nil {
		return withCode(ExitIOError, err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'litpp expand' to expand the documents in this directory")

	return nil
}
