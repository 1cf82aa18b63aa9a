package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/litpp/pkg/config"
)

const envVarPrefix = "LITPP_"

// envVar binds one LITPP_ variable to the config key it overrides.
type envVar struct {
	suffix string
	key    string
	help   string
	set    func(cfg *config.Config, raw string) error
}

// envVars lists the supported variables in the order they are applied.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []envVar{
	{"MAX_DEPTH", "max_depth", "Maximum call and include nesting depth",
		intSetter(func(c *config.Config, v int) { c.MaxDepth = v })},
	{"JOBS", "jobs", "Number of parallel workers (0 = auto)",
		intSetter(func(c *config.Config, v int) { c.Jobs = v })},
	{"EXTENSIONS", "extensions", "Comma-separated file extensions to expand",
		listSetter(func(c *config.Config, v []string) { c.Extensions = v })},
	{"IGNORE", "ignore", "Comma-separated list of ignore patterns",
		listSetter(func(c *config.Config, v []string) { c.Ignore = v })},
	{"OUTPUT_DIR", "output_dir", "Directory receiving expanded files",
		stringSetter(func(c *config.Config, v string) { c.OutputDir = v })},
	{"OUTPUT_EXT", "output_ext", "Extension given to expanded files",
		stringSetter(func(c *config.Config, v string) { c.OutputExt = v })},
	{"FLAVOR", "flavor", "Markdown flavor: commonmark or gfm",
		stringSetter(func(c *config.Config, v string) { c.Flavor = config.Flavor(v) })},
	{"FALLBACK_DIALECT", "fallback_dialect", "Dialect for unmapped languages",
		stringSetter(func(c *config.Config, v string) { c.FallbackDialect = v })},
	{"FORMAT", "format", "Report format: text, table or json",
		stringSetter(func(c *config.Config, v string) { c.Format = config.OutputFormat(v) })},
	{"DIALECT", "dialect", "Force one dialect for every input",
		stringSetter(func(c *config.Config, v string) { c.Dialect = v })},
}

func stringSetter(assign func(*config.Config, string)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		assign(cfg, raw)
		return nil
	}
}

func intSetter(assign func(*config.Config, int)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("not an integer: %q", raw)
		}
		assign(cfg, n)
		return nil
	}
}

// listSetter splits on commas and drops empty items.
func listSetter(assign func(*config.Config, []string)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		var items []string
		for _, part := range strings.Split(raw, ",") {
			if item := strings.TrimSpace(part); item != "" {
				items = append(items, item)
			}
		}
		assign(cfg, items)
		return nil
	}
}

// LoadFromEnv applies every set LITPP_ variable to cfg. Empty variables
// are treated as unset.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, v := range envVars {
		name := envVarPrefix + v.suffix
		raw := os.Getenv(name)
		if raw == "" {
			continue
		}
		if err := v.set(cfg, raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// GetEnvVarName returns the variable overriding the config key, or "".
func GetEnvVarName(key string) string {
	for _, v := range envVars {
		if v.key == key {
			return envVarPrefix + v.suffix
		}
	}
	return ""
}

// ListEnvVars maps each supported variable to its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envVars))
	for _, v := range envVars {
		vars[envVarPrefix+v.suffix] = v.help
	}
	return vars
}
