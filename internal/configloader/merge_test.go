package configloader

import (
	"slices"
	"testing"

	"github.com/yaklabco/litpp/pkg/config"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.Ignore = []string{"vendor/**"}
	base.Dialects = map[string]config.DialectConfig{
		"hash": {TopLevel: "code"},
	}

	override := &config.Config{
		MaxDepth:  5,
		Ignore:    []string{},
		Languages: map[string]string{"python": "hash"},
		Dialects: map[string]config.DialectConfig{
			"hash": {TopLevel: "prose"},
		},
	}

	got := merge(base, override)

	if got.MaxDepth != 5 {
		t.Errorf("expected max_depth 5, got %d", got.MaxDepth)
	}
	if got.OutputExt != config.DefaultOutputExt {
		t.Errorf("zero override must not clear output_ext, got %q", got.OutputExt)
	}
	if got.Ignore == nil || len(got.Ignore) != 0 {
		t.Errorf("non-nil empty slice must replace, got %v", got.Ignore)
	}
	if !slices.Equal(got.Extensions, config.DefaultExtensions()) {
		t.Errorf("nil slice must keep base, got %v", got.Extensions)
	}
	if got.Dialects["hash"].TopLevel != "prose" {
		t.Errorf("dialect must be replaced whole, got %+v", got.Dialects["hash"])
	}
	if got.Languages["python"] != "hash" {
		t.Errorf("expected language mapping to be added")
	}

	// Inputs are not modified.
	if base.Dialects["hash"].TopLevel != "code" || base.MaxDepth != config.DefaultMaxDepth {
		t.Error("merge modified its base")
	}
}

func TestMerge_Nil(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	if merge(nil, cfg) != cfg {
		t.Error("nil base should return override")
	}
	if merge(cfg, nil) != cfg {
		t.Error("nil override should return base")
	}
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	got := MergeAll(
		config.NewConfig(),
		&config.Config{Jobs: 2},
		nil,
		&config.Config{Jobs: 4, OutputDir: "out"},
	)
	if got.Jobs != 4 || got.OutputDir != "out" {
		t.Errorf("unexpected merge result: jobs=%d output_dir=%q", got.Jobs, got.OutputDir)
	}
}
