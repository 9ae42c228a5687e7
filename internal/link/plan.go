package link

import (
	"path/filepath"
	"strings"

	"xplm-bindgen/internal/common"
)

// LibraryDir is the SDK subtree holding the native libraries.
const LibraryDir = "Libraries"

// LibraryKind says how Plan.Libraries are named on the linker command line.
type LibraryKind int

const (
	// KindNone is the kind of an empty plan.
	KindNone LibraryKind = iota
	// KindImportLibrary names Windows import libraries (-l).
	KindImportLibrary
	// KindFramework names macOS frameworks (-framework).
	KindFramework
)

// Plan is the linkage needed for one platform. The zero value is the empty
// plan used where the host process provides the symbols.
type Plan struct {
	Platform   Platform
	SearchPath string
	Kind       LibraryKind
	Libraries  []string
}

// Empty reports whether the plan links nothing.
func (p Plan) Empty() bool {
	return common.IsEmpty(p.Libraries)
}

// LDFlags returns the linker flags of the plan, in order.
func (p Plan) LDFlags() []string {
	if p.Empty() {
		return nil
	}

	var out []string

	switch p.Kind {
	case KindFramework:
		out = append(out, "-F"+filepath.ToSlash(p.SearchPath))
		for _, l := range p.Libraries {
			out = append(out, "-framework", l)
		}
	case KindImportLibrary:
		out = append(out, "-L"+filepath.ToSlash(p.SearchPath))
		for _, l := range p.Libraries {
			out = append(out, "-l"+l)
		}
	}

	return out
}

// Directives returns the cgo directives of the plan, one per line, without
// the leading "#".
func (p Plan) Directives() []string {
	if p.Empty() {
		return nil
	}

	flags := p.LDFlags()
	for i, f := range flags {
		flags[i] = quote(f)
	}

	return []string{"cgo " + GOOS(p.Platform) + " LDFLAGS: " + strings.Join(flags, " ")}
}

// quote protects a flag containing blanks the way cgo splits directive
// arguments.
func quote(f string) string {
	if !strings.ContainsAny(f, " \t'\"") {
		return f
	}

	return `"` + strings.ReplaceAll(f, `"`, `\"`) + `"`
}

// GOOS returns the GOOS value of a platform that needs linkage, or "" for
// PlatformOther.
func GOOS(p Platform) string {
	switch p {
	case PlatformWindows:
		return "windows"
	case PlatformMacOS:
		return "darwin"
	default:
		return ""
	}
}

// Planner maps platforms to plans for one SDK root.
type Planner struct {
	sdkRoot string
}

// NewPlanner creates a Planner for the SDK at sdkRoot.
func NewPlanner(sdkRoot string) *Planner {
	return &Planner{sdkRoot: sdkRoot}
}

// Plan returns the linkage plan of p. It depends on the platform alone.
func (pl *Planner) Plan(p Platform) Plan {
	switch p {
	case PlatformWindows:
		return Plan{
			Platform:   p,
			SearchPath: filepath.Join(pl.sdkRoot, LibraryDir, "Win"),
			Kind:       KindImportLibrary,
			Libraries:  []string{"XPLM_64", "XPWidgets_64"},
		}
	case PlatformMacOS:
		return Plan{
			Platform:   p,
			SearchPath: filepath.Join(pl.sdkRoot, LibraryDir, "Mac"),
			Kind:       KindFramework,
			Libraries:  []string{"XPLM", "XPWidgets"},
		}
	default:
		return Plan{Platform: PlatformOther}
	}
}
