package plan

import (
	"strings"

	"xplm-bindgen/internal/catalog"
	"xplm-bindgen/internal/discover"
)

// Toolchain holds the fixed flags that precede every definition set.
type Toolchain struct {
	// Dialect selects the source language of the declaration files.
	Dialect string `yaml:"dialect"`
	// CommentMode keeps every comment as documentation.
	CommentMode string `yaml:"comment_mode"`
	// PlatformStub satisfies the SDK's platform check. Its value is
	// irrelevant to the binding.
	PlatformStub string `yaml:"platform_stub"`
}

// DefaultToolchain returns the toolchain flags used when none are configured.
func DefaultToolchain() Toolchain {
	return Toolchain{
		Dialect:      "-xc",
		CommentMode:  "-fparse-all-comments",
		PlatformStub: "-DLIN=1",
	}
}

// flags returns the non-empty toolchain flags in their fixed order.
func (tc Toolchain) flags() []string {
	var out []string
	for _, f := range []string{tc.Dialect, tc.CommentMode, tc.PlatformStub} {
		if f != "" {
			out = append(out, f)
		}
	}

	return out
}

// DefinitionSet is the ordered flag list passed to the parser.
type DefinitionSet struct {
	Toolchain []string
	Epochs    []catalog.Epoch
	Includes  []string
}

// Args returns the flags in the order the parser receives them.
func (d DefinitionSet) Args() []string {
	out := make([]string, 0, len(d.Toolchain)+len(d.Epochs)+len(d.Includes))
	out = append(out, d.Toolchain...)
	out = append(out, catalog.Defines(d.Epochs)...)

	for _, dir := range d.Includes {
		out = append(out, "-I"+dir)
	}

	return out
}

// Defines returns only the epoch flags.
func (d DefinitionSet) Defines() []string {
	return catalog.Defines(d.Epochs)
}

// String returns the flags joined by spaces.
func (d DefinitionSet) String() string {
	return strings.Join(d.Args(), " ")
}

// Resolve builds the definition set. It performs no I/O.
func Resolve(tc Toolchain, epochs []catalog.Epoch, m discover.Manifest) DefinitionSet {
	return DefinitionSet{
		Toolchain: tc.flags(),
		Epochs:    append([]catalog.Epoch(nil), epochs...),
		Includes:  m.Dirs(),
	}
}
