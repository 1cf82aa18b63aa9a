package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/litpp/internal/logging"
	"github.com/yaklabco/litpp/pkg/builtin"
	"github.com/yaklabco/litpp/pkg/config"
	"github.com/yaklabco/litpp/pkg/diag"
	"github.com/yaklabco/litpp/pkg/expand"
	"github.com/yaklabco/litpp/pkg/fsutil"
	"github.com/yaklabco/litpp/pkg/literate"
	"github.com/yaklabco/litpp/pkg/mdsection"
	"github.com/yaklabco/litpp/pkg/textdiff"
)

// KindIO counts failures that are not expansion errors, such as an
// unreadable input or an unwritable output.
const KindIO diag.Kind = "io"

// skipReasonOverwrite explains outcomes whose output path is the input.
const skipReasonOverwrite = "output would overwrite the input"

// Runner orchestrates multi-file expansion with one shared Engine.
type Runner struct {
	// Engine expands each document. Its file cache is shared by all workers.
	Engine *expand.Engine

	// Forced, when set, is used for every input instead of detection.
	Forced *literate.Dialect
}

// New creates a new Runner with the given engine.
func New(engine *expand.Engine) *Runner {
	return &Runner{Engine: engine}
}

// FromConfig builds a Runner whose engine follows cfg: dialects, the
// forced dialect, the Markdown flavor of include.section, and the depth
// ceiling.
func FromConfig(cfg *config.Config) (*Runner, error) {
	dialects, err := BuildDialects(cfg)
	if err != nil {
		return nil, err
	}

	engine := &expand.Engine{
		Registry: builtin.WithExtractor(mdsection.New(string(cfg.Flavor))),
		Files:    fsutil.NewCache(),
		Dialects: dialects,
		MaxDepth: cfg.MaxDepth,
	}
	r := New(engine)

	if cfg.Dialect != "" {
		d, _ := dialects.Lookup(cfg.Dialect)
		r.Forced = &d
	}
	return r, nil
}

// Run discovers files under opts.Paths and expands them concurrently.
// Each document gets its own expansion context; a failing document does
// not stop its siblings. Outcomes are ordered by path.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()
	logger := logging.FromContext(ctx)
	cfg := opts.effectiveConfig()

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	outputs := make(map[string]string, len(files))
	if !cfg.Stdout {
		for _, path := range files {
			outputs[path] = OutputPath(path, workDir, cfg)
		}
		files = dropOutputs(files, outputs)
	}

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	logger.Debug("starting run",
		logging.FieldFilesFound, len(files),
		logging.FieldJobs, jobs)

	outcomes := make([]FileOutcome, len(files))
	var group errgroup.Group
	group.SetLimit(jobs)
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			outcomes[i] = r.processFile(ctx, path, outputs[path], cfg)
			return nil
		})
	}
	_ = group.Wait()

	for _, outcome := range outcomes {
		// Files never started because of cancellation have no path.
		if outcome.Path != "" {
			result.accumulate(outcome)
		}
	}
	result.Stats.CacheHits, result.Stats.CacheMisses = r.Engine.Cache().Stats()

	logger.Debug("run finished",
		logging.FieldFilesExpanded, result.Stats.FilesExpanded,
		logging.FieldFilesFailed, result.Stats.FilesFailed,
		logging.FieldCacheHits, result.Stats.CacheHits,
		logging.FieldCacheMisses, result.Stats.CacheMisses,
		logging.FieldDuration, time.Since(started))

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// processFile expands one document and writes it to output. With
// cfg.Stdout the text is kept in the outcome instead, and with cfg.Check it
// is only compared with the existing output.
func (r *Runner) processFile(ctx context.Context, path, output string, cfg *config.Config) FileOutcome {
	ctx = logging.WithDocument(ctx, path)
	logger := logging.FromContext(ctx)
	outcome := FileOutcome{Path: path}

	if !cfg.Stdout && filepath.Clean(output) == filepath.Clean(path) {
		outcome.Skipped = true
		outcome.SkipReason = skipReasonOverwrite
		logger.Debug("skipping file", logging.FieldReason, outcome.SkipReason)
		return outcome
	}

	expanded, err := r.expandFile(ctx, path)
	if err != nil {
		outcome.Error = err
		logger.Debug("expansion failed", logging.FieldError, err)
		return outcome
	}
	outcome.Bytes = len(expanded)

	switch {
	case cfg.Stdout:
		outcome.Content = expanded
		return outcome
	case cfg.Check:
		if err := checkOutput(ctx, &outcome, output, expanded); err != nil {
			outcome.Error = err
		}
		return outcome
	}

	written, err := fsutil.WriteIfChanged(ctx, output, []byte(expanded), fsutil.DefaultFileMode)
	if err != nil {
		outcome.Error = fmt.Errorf("write %s: %w", output, err)
		return outcome
	}
	outcome.Output = output
	outcome.Written = written

	logger.Debug("expanded file",
		logging.FieldOutput, output,
		logging.FieldBytes, outcome.Bytes,
		logging.FieldWritten, written)
	return outcome
}

// checkOutput records in outcome whether output differs from expanded. A
// missing output is stale.
func checkOutput(ctx context.Context, outcome *FileOutcome, output, expanded string) error {
	current, err := fsutil.ReadFile(ctx, output)
	if err != nil && !errors.Is(err, fsutil.ErrNotFound) {
		return fmt.Errorf("check %s: %w", output, err)
	}

	outcome.Output = output
	if string(current) == expanded && err == nil {
		return nil
	}
	outcome.Stale = true
	outcome.Diff = textdiff.Compute(output, output+" (expanded)", string(current), expanded)

	logging.FromContext(ctx).Debug("stale output", logging.FieldOutput, output)
	return nil
}

// expandFile reads, splits and expands one document.
func (r *Runner) expandFile(ctx context.Context, path string) (string, error) {
	raw, err := r.Engine.Cache().Read(ctx, path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	if r.Forced == nil {
		return r.Engine.ExpandSource(ctx, path, raw)
	}

	doc, err := literate.Split(path, raw, *r.Forced)
	if err != nil {
		return "", err
	}
	return r.Engine.Expand(ctx, doc, expand.NewContext(path, r.Engine.MaxDepth))
}

// OutputPath names the output of input: the extension is replaced by
// cfg.OutputExt, and with cfg.OutputDir set the path relative to workDir is
// recreated under it. Inputs outside workDir keep only their base name.
func OutputPath(input, workDir string, cfg *config.Config) string {
	ext := cfg.OutputExt
	if ext == "" {
		ext = config.DefaultOutputExt
	}
	renamed := strings.TrimSuffix(input, filepath.Ext(input)) + ext

	if cfg.OutputDir == "" {
		return renamed
	}

	rel, err := filepath.Rel(workDir, renamed)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(renamed)
	}
	outDir := cfg.OutputDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(workDir, outDir)
	}
	return filepath.Join(outDir, rel)
}

// dropOutputs removes files that are the output of another input, so that
// a second run does not take the first run's results as documents.
func dropOutputs(files []string, outputs map[string]string) []string {
	produced := make(map[string]bool, len(outputs))
	for input, output := range outputs {
		if output != input {
			produced[output] = true
		}
	}

	kept := files[:0:0]
	for _, f := range files {
		if !produced[f] {
			kept = append(kept, f)
		}
	}
	return kept
}
