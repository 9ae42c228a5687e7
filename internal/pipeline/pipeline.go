package pipeline

import (
	"cmp"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"xplm-bindgen/internal/analyze"
	"xplm-bindgen/internal/catalog"
	"xplm-bindgen/internal/config"
	"xplm-bindgen/internal/diagnostic"
	"xplm-bindgen/internal/discover"
	"xplm-bindgen/internal/gen"
	"xplm-bindgen/internal/link"
	"xplm-bindgen/internal/logutil"
	"xplm-bindgen/internal/plan"
)

// Report describes what a run resolved and wrote.
type Report struct {
	Mode     config.Mode
	Platform link.Platform

	// Definitions and Manifest are zero in prebuilt mode.
	Definitions plan.DefinitionSet
	Manifest    discover.Manifest

	Plan link.Plan
	// LinkFile is the path of the written link file, or "" for an empty plan.
	LinkFile string

	ArtifactPath string
	// Generated is nil unless the parser ran.
	Generated *gen.Result
}

// Pipeline runs the build steps in order. It holds no state between runs.
type Pipeline struct {
	parser   gen.Parser
	discover func(sdkRoot string, opts discover.Options) (discover.Manifest, error)
}

// New creates a Pipeline generating through p.
func New(p gen.Parser) *Pipeline {
	return &Pipeline{parser: p, discover: discover.Discover}
}

// NewParser returns the command parser configured in cfg.
func NewParser(cfg *config.Config) *gen.CommandParser {
	return gen.NewCommandParser(cfg.Parser.Command, cfg.Parser.Args...)
}

// Run executes one build. Any error aborts the run; there is no fallback
// to the pre-built artifact once generation was requested.
func (pl *Pipeline) Run(ctx context.Context, cfg *config.Config) (*Report, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	r := &Report{
		Mode:         cfg.Mode,
		Platform:     cfg.Platform,
		ArtifactPath: cfg.ArtifactPath(),
	}

	slog.Info("starting build", "mode", cfg.Mode, "platform", cfg.Platform, "out", cfg.OutDir)

	switch cfg.Mode {
	case config.ModeGenerate:
		if err := pl.generate(ctx, cfg, r); err != nil {
			return nil, err
		}
	default:
		checkPrebuilt(r.ArtifactPath)
	}

	if err := writeLinkage(cfg, r); err != nil {
		return nil, err
	}

	return r, nil
}

// Preview resolves the definitions, the manifest and the linkage plan of
// cfg without running the parser or writing anything. It always needs the
// SDK root, whatever the mode.
func (pl *Pipeline) Preview(cfg *config.Config) (*Report, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	if err := config.CheckSDKRoot(cfg.SDKRoot); err != nil {
		return nil, err
	}

	r := &Report{
		Mode:         cfg.Mode,
		Platform:     cfg.Platform,
		ArtifactPath: cfg.ArtifactPath(),
	}

	var err error
	if r.Definitions, r.Manifest, err = pl.resolve(cfg); err != nil {
		return nil, err
	}

	r.Plan = link.NewPlanner(cfg.SDKRoot).Plan(cfg.Platform)

	return r, nil
}

// Check reports whether the artifact in cfg.OutDir is current. A stale
// artifact yields an error wrapping gen.ErrStale.
func (pl *Pipeline) Check(cfg *config.Config) error {
	if err := config.CheckSDKRoot(cfg.SDKRoot); err != nil {
		return err
	}

	defs, m, err := pl.resolve(cfg)
	if err != nil {
		return err
	}

	want, err := gen.NewStamp(cfg.Artifact, Triggers(cfg), defs.Args(), m.Paths())
	if err != nil {
		return err
	}

	return gen.CheckStamp(filepath.Join(cfg.OutDir, gen.StampName(cfg.Artifact)), want)
}

// Triggers returns the configuration inputs whose change must force
// regeneration, in a fixed order. The override list is recorded in canonical
// form under the key it was read from.
func Triggers(cfg *config.Config) []gen.Trigger {
	t := []gen.Trigger{
		{Key: config.EnvSDK, Value: cfg.SDKRoot},
		{Key: cmp.Or(cfg.VersionsSource, config.EnvVersions), Value: catalog.Join(cfg.Overrides)},
	}

	if cfg.ConfigFile != "" {
		t = append(t, gen.Trigger{Key: config.EnvConfig, Value: cfg.ConfigFile})
	}

	return t
}

// validate fails fast on configuration problems, before any SDK I/O.
func validate(cfg *config.Config) error {
	if cfg.Mode == config.ModeGenerate {
		if err := config.CheckSDKRoot(cfg.SDKRoot); err != nil {
			return err
		}
	}

	if cfg.Platform.NeedsLinkage() {
		if err := config.CheckSDKRoot(cfg.SDKRoot); err != nil {
			return err
		}
	}

	return nil
}

func (pl *Pipeline) resolve(cfg *config.Config) (plan.DefinitionSet, discover.Manifest, error) {
	m, err := pl.discover(cfg.SDKRoot, discover.Options{Exclude: cfg.Exclude})
	if err != nil {
		return plan.DefinitionSet{}, discover.Manifest{}, err
	}

	for _, g := range m.Groups {
		logutil.Trace("discovered headers", "subsystem", g.Subsystem.Name, "count", len(g.Headers))

		for _, h := range g.Headers {
			logutil.Trace("header", "path", h)
		}
	}

	epochs := catalog.Resolve(cfg.Overrides)
	defs := plan.Resolve(cfg.Toolchain, epochs, m)
	slog.Debug("resolved definitions", "epochs", len(epochs), "headers", m.Len(), "flags", defs.String())

	return defs, m, nil
}

func (pl *Pipeline) generate(ctx context.Context, cfg *config.Config, r *Report) error {
	var err error
	if r.Definitions, r.Manifest, err = pl.resolve(cfg); err != nil {
		return err
	}

	if r.Manifest.Len() == 0 {
		slog.Warn("no declaration files found", "sdk", cfg.SDKRoot)
	}

	res, err := gen.NewDriver(pl.parser).Run(ctx, gen.Request{
		Definitions: r.Definitions,
		Manifest:    r.Manifest,
		OutputDir:   cfg.OutDir,
		Artifact:    cfg.Artifact,
		Triggers:    Triggers(cfg),
	})
	if err != nil {
		return err
	}

	r.Generated = &res
	slog.Info("generated bindings", "path", res.ArtifactPath, "bytes", res.Size)

	return nil
}

// checkPrebuilt warns when the pre-built artifact is missing. The consuming
// build will fail on its own in that case.
func checkPrebuilt(path string) {
	_, err := os.Stat(path)

	switch {
	case err == nil:
		slog.Debug("using pre-built artifact", "path", path)
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("pre-built artifact not found; set "+config.EnvGenerate+"=1 to generate it", "path", path)
	default:
		slog.Warn("cannot inspect pre-built artifact", "path", path, "error", err)
	}
}

func writeLinkage(cfg *config.Config, r *Report) error {
	r.Plan = link.NewPlanner(cfg.SDKRoot).Plan(cfg.Platform)
	if r.Plan.Empty() {
		slog.Debug("no linkage needed", "platform", cfg.Platform)
		return nil
	}

	name, err := packageName(cfg)
	if err != nil {
		return err
	}

	f, _, err := link.RenderCgoFile(name, r.Plan)
	if err != nil {
		return err
	}

	if err := gen.WriteFiles([]gen.GeneratedFile{{Filename: f.Filename, Content: f.Content}}, cfg.OutDir); err != nil {
		return diagnostic.Write(filepath.Join(cfg.OutDir, f.Filename), err)
	}

	r.LinkFile = filepath.Join(cfg.OutDir, f.Filename)
	slog.Info("wrote link directives", "path", r.LinkFile, "ldflags", r.Plan.LDFlags())

	return nil
}

// packageName returns the package clause of the link file. An empty output
// directory gets the default; an existing package must be identified.
func packageName(cfg *config.Config) (string, error) {
	if cfg.Package != "" {
		return cfg.Package, nil
	}

	pkg, err := analyze.LoadPackage(cfg.OutDir, cfg.GOOS, link.CgoFilenames()...)
	if err != nil {
		return "", diagnostic.Configuration("output.package",
			"cannot determine the package in %s: %v; set output.package", cfg.OutDir, err)
	}

	if pkg == nil {
		return config.DefaultPackage, nil
	}

	slog.Debug("link file package", "name", pkg.Name, "dir", cfg.OutDir)

	return pkg.Name, nil
}
