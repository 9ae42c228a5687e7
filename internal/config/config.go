package config

import (
	"cmp"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"xplm-bindgen/internal/catalog"
	"xplm-bindgen/internal/diagnostic"
	"xplm-bindgen/internal/link"
	"xplm-bindgen/internal/plan"
)

// Environment keys.
const (
	EnvSDK      = "XPLANE_SDK"
	EnvVersions = catalog.OverrideKey
	EnvGenerate = "XPLANE_SDK_GENERATE"
	EnvOutDir   = "XPLANE_SDK_OUT_DIR"
	EnvParser   = "XPLANE_SDK_PARSER"
	EnvConfig   = "XPLANE_SDK_CONFIG"
	EnvDebug    = "XPLANE_SDK_DEBUG"
	EnvGOOS     = "GOOS"
)

// Defaults for values neither the environment nor the file set.
const (
	DefaultOutDir   = "."
	DefaultPackage  = "xplm"
	DefaultArtifact = "xplm_bindings.h"
	DefaultParser   = "clang"
)

// FileVersionsKey names the override list of the YAML file.
const FileVersionsKey = EnvConfig + ":versions"

// DefaultParserArgs precede the definition set on the parser command line.
var DefaultParserArgs = []string{"-E", "-P"}

// Mode selects the code path of a run. It is decided once per run.
type Mode int

const (
	// ModePrebuilt relies on an artifact already present in the output dir.
	ModePrebuilt Mode = iota
	// ModeGenerate runs the parser and writes a fresh artifact.
	ModeGenerate
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	if m == ModeGenerate {
		return "generate"
	}

	return "prebuilt"
}

// EnvVar describes an environment key understood by the generator.
type EnvVar struct {
	Name        string
	Value       string
	Description string
}

// Raw holds configuration values before validation. An empty field is unset.
type Raw struct {
	SDK        string
	Versions   string
	Generate   string
	OutDir     string
	Parser     string
	ConfigFile string
	Debug      string
	Target     string
}

// Merge returns r with every field set in over replacing its own.
func (r Raw) Merge(over Raw) Raw {
	return Raw{
		SDK:        cmp.Or(over.SDK, r.SDK),
		Versions:   cmp.Or(over.Versions, r.Versions),
		Generate:   cmp.Or(over.Generate, r.Generate),
		OutDir:     cmp.Or(over.OutDir, r.OutDir),
		Parser:     cmp.Or(over.Parser, r.Parser),
		ConfigFile: cmp.Or(over.ConfigFile, r.ConfigFile),
		Debug:      cmp.Or(over.Debug, r.Debug),
		Target:     cmp.Or(over.Target, r.Target),
	}
}

// FromEnv reads every key once through getenv.
func FromEnv(getenv func(string) string) Raw {
	clean := func(key string) string {
		return strings.Trim(getenv(key), "\"' ")
	}

	return Raw{
		SDK:        clean(EnvSDK),
		Versions:   clean(EnvVersions),
		Generate:   clean(EnvGenerate),
		OutDir:     clean(EnvOutDir),
		Parser:     clean(EnvParser),
		ConfigFile: clean(EnvConfig),
		Debug:      clean(EnvDebug),
		Target:     clean(EnvGOOS),
	}
}

// Describe lists the environment keys with their current values.
func Describe(r Raw) []EnvVar {
	return []EnvVar{
		{EnvSDK, r.SDK, "X-Plane SDK root (required when generating or linking)"},
		{EnvVersions, r.Versions, "API epochs separated by ';' replacing the defaults, e.g. XPLM400;XPLM401"},
		{EnvGenerate, r.Generate, "Run the parser instead of using the pre-built artifact (e.g. XPLANE_SDK_GENERATE=1)"},
		{EnvOutDir, r.OutDir, "Directory of the consuming package (default \".\")"},
		{EnvParser, r.Parser, "External parser command and leading arguments, split on blanks (default \"clang\")"},
		{EnvConfig, r.ConfigFile, "Optional YAML configuration file"},
		{EnvDebug, r.Debug, "Show additional debug information (e.g. XPLANE_SDK_DEBUG=1)"},
		{EnvGOOS, r.Target, "Target operating system (default: host)"},
	}
}

// Parser is the external parser invocation.
type Parser struct {
	Command string
	Args    []string
}

// Config is the validated configuration of one run. It is resolved once at
// entry and passed down explicitly.
type Config struct {
	Mode Mode

	// SDKRoot is absolute, or empty when not configured.
	SDKRoot string
	// Overrides is nil when no override list was given.
	Overrides []catalog.Epoch
	// VersionsSource is EnvVersions or FileVersionsKey, naming where
	// Overrides came from. It is empty when Overrides is nil.
	VersionsSource string

	GOOS     string
	Platform link.Platform

	OutDir string
	// Package is the package clause of the link file. Empty means use the
	// package already in OutDir, or DefaultPackage.
	Package  string
	Artifact string

	Parser    Parser
	Toolchain plan.Toolchain
	Exclude   []string

	ConfigFile string
	Debug      bool
}

// ArtifactPath returns the absolute location of the generated artifact.
func (c *Config) ArtifactPath() string {
	return filepath.Join(c.OutDir, c.Artifact)
}

// Resolve validates raw values, loading the YAML file they name, and
// returns the run configuration. It does not look inside the SDK tree.
func Resolve(r Raw) (*Config, error) {
	var file File
	fileDir := ""

	if r.ConfigFile != "" {
		f, err := LoadFile(r.ConfigFile)
		if err != nil {
			return nil, diagnostic.Configuration(EnvConfig, "%v", err)
		}

		file = *f
		fileDir = filepath.Dir(r.ConfigFile)
	}

	cfg := &Config{
		GOOS:       cmp.Or(r.Target, runtime.GOOS),
		Package:    file.Output.Package,
		Artifact:   cmp.Or(file.Output.Artifact, DefaultArtifact),
		Toolchain:  plan.DefaultToolchain(),
		Exclude:    file.Headers.Exclude,
		ConfigFile: r.ConfigFile,
	}
	cfg.Platform = link.PlatformFromGOOS(cfg.GOOS)

	generate, err := parseBool(EnvGenerate, r.Generate, file.Generate)
	if err != nil {
		return nil, err
	}

	if generate {
		cfg.Mode = ModeGenerate
	}

	if cfg.Debug, err = parseBool(EnvDebug, r.Debug, nil); err != nil {
		return nil, err
	}

	if err = cfg.resolveOverrides(r.Versions, file.Versions.Joined()); err != nil {
		return nil, err
	}

	if cfg.SDKRoot, err = absPath(EnvSDK, r.SDK, file.SDK, fileDir); err != nil {
		return nil, err
	}

	if cfg.OutDir, err = absPath(EnvOutDir, r.OutDir, file.Output.Dir, fileDir); err != nil {
		return nil, err
	}

	if cfg.OutDir == "" {
		if cfg.OutDir, err = absPath(EnvOutDir, DefaultOutDir, "", ""); err != nil {
			return nil, err
		}
	}

	if file.Toolchain != nil {
		cfg.Toolchain = *file.Toolchain
	}

	cfg.Parser = Parser{Command: cmp.Or(file.Parser.Command, DefaultParser)}
	if file.Parser.Args != nil {
		cfg.Parser.Args = file.Parser.Args
	} else {
		cfg.Parser.Args = append([]string{}, DefaultParserArgs...)
	}

	// The explicit value is a command line; the file names the executable
	// verbatim so paths with blanks keep working.
	if r.Parser != "" {
		words := strings.Fields(r.Parser)
		if len(words) == 0 {
			return nil, diagnostic.Configuration(EnvParser, "parser command is empty")
		}

		cfg.Parser.Command = words[0]
		cfg.Parser.Args = slices.Concat(words[1:], cfg.Parser.Args)
	}

	if strings.TrimSpace(cfg.Parser.Command) == "" {
		return nil, diagnostic.Configuration(EnvParser, "parser command is empty")
	}

	return cfg, nil
}

// resolveOverrides parses the explicit override list, falling back to the
// file's list when the explicit one is absent or empty after filtering.
func (c *Config) resolveOverrides(raw, fromFile string) error {
	for _, src := range []struct{ key, value string }{
		{EnvVersions, raw},
		{FileVersionsKey, fromFile},
	} {
		o, err := catalog.ParseOverrides(src.value)
		if err != nil {
			return err
		}

		if o != nil {
			c.Overrides, c.VersionsSource = o, src.key
			return nil
		}
	}

	return nil
}

// parseBool parses an explicit value, falling back to the file value.
func parseBool(key, raw string, fromFile *bool) (bool, error) {
	if raw == "" {
		return fromFile != nil && *fromFile, nil
	}

	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, diagnostic.Configuration(key, "%q is not a boolean", raw)
	}

	return b, nil
}

// absPath makes the explicit value absolute, or the file value relative to
// the config file directory. Both empty yields "".
func absPath(key, raw, fromFile, fileDir string) (string, error) {
	p := raw
	if p == "" && fromFile != "" {
		p = fromFile
		if !filepath.IsAbs(p) {
			p = filepath.Join(fileDir, p)
		}
	}

	if p == "" {
		return "", nil
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", diagnostic.Configuration(key, "cannot resolve %q: %v", p, err)
	}

	return abs, nil
}

// CheckSDKRoot reports a configuration error unless root names a directory.
func CheckSDKRoot(root string) error {
	if root == "" {
		return diagnostic.Configuration(EnvSDK, "not set; point it at the X-Plane SDK root")
	}

	fi, err := os.Stat(root)
	if err != nil {
		return &diagnostic.Error{
			Kind:    diagnostic.KindConfiguration,
			Subject: EnvSDK,
			Message: "cannot locate the X-Plane SDK at " + root,
			Err:     err,
		}
	}

	if !fi.IsDir() {
		return diagnostic.Configuration(EnvSDK, "%s is not a directory", root)
	}

	return nil
}
