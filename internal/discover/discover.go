package discover

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"xplm-bindgen/internal/common"
	"xplm-bindgen/internal/diagnostic"
	"xplm-bindgen/internal/match"
)

// HeaderExt is the extension identifying declaration files.
const HeaderExt = ".h"

// IncludeDir is the SDK subtree holding one directory per subsystem.
const IncludeDir = "CHeaders"

// Subsystem is a named directory of declaration files inside the SDK.
type Subsystem struct {
	Name string
	Dir  string
}

// Subsystems returns the SDK subsystems in discovery priority order. XPLM
// comes first because the widget headers reference XPLM types.
func Subsystems(sdkRoot string) []Subsystem {
	return []Subsystem{
		{Name: "XPLM", Dir: filepath.Join(sdkRoot, IncludeDir, "XPLM")},
		{Name: "Widgets", Dir: filepath.Join(sdkRoot, IncludeDir, "Widgets")},
	}
}

// Group is the headers found in one subsystem.
type Group struct {
	Subsystem Subsystem
	Headers   []string
}

// Manifest is the ordered list of declaration files fed to the parser.
type Manifest struct {
	Groups []Group
}

// Paths flattens the manifest in subsystem priority order.
func (m Manifest) Paths() []string {
	var out []string
	for _, g := range m.Groups {
		out = append(out, g.Headers...)
	}

	return out
}

// Dirs returns the subsystem directories of non-empty groups, in order.
func (m Manifest) Dirs() []string {
	var out []string
	for _, g := range m.Groups {
		if !common.IsEmpty(g.Headers) {
			out = append(out, g.Subsystem.Dir)
		}
	}

	return out
}

// Len returns the number of headers in the manifest.
func (m Manifest) Len() int {
	n := 0
	for _, g := range m.Groups {
		n += len(g.Headers)
	}

	return n
}

// Options tunes discovery.
type Options struct {
	// Exclude lists header base names to skip, e.g. "XPLMCamera.h".
	Exclude []string
}

// Dir returns the declaration files directly inside dir, sorted by name, as
// absolute paths. Subdirectories and other files are ignored.
func Dir(dir string, opts Options) ([]string, error) {
	return scan(dir, opts, nil)
}

// scan lists dir, recording every excluded name it skipped in excluded.
func scan(dir string, opts Options, excluded map[string]bool) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, diagnostic.Discovery(dir, err, "cannot resolve directory")
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, diagnostic.Discovery(abs, err, "cannot list directory")
	}

	var out []string

	for _, e := range entries {
		if !isFile(abs, e) {
			continue
		}

		name := e.Name()
		if !strings.EqualFold(filepath.Ext(name), HeaderExt) {
			continue
		}

		if slices.Contains(opts.Exclude, name) {
			if excluded != nil {
				excluded[name] = true
			}

			continue
		}

		p := filepath.Join(abs, name)
		if !utf8.ValidString(p) {
			return nil, diagnostic.Discovery(p, nil, "path is not valid UTF-8")
		}

		out = append(out, p)
	}

	// os.ReadDir sorts already; keep the invariant explicit.
	slices.Sort(out)

	return out, nil
}

// isFile reports whether e is a regular file, following symlinks.
func isFile(dir string, e fs.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}

	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}

	fi, err := os.Stat(filepath.Join(dir, e.Name()))

	return err == nil && fi.Mode().IsRegular()
}

// Discover enumerates the declaration files of every subsystem of sdkRoot.
func Discover(sdkRoot string, opts Options) (Manifest, error) {
	var m Manifest

	excluded := make(map[string]bool)

	for _, sub := range Subsystems(sdkRoot) {
		headers, err := scan(sub.Dir, opts, excluded)
		if err != nil {
			return Manifest{}, err
		}

		m.Groups = append(m.Groups, Group{Subsystem: sub, Headers: headers})
	}

	for _, name := range UnmatchedExcludes(m, opts, excluded) {
		slog.Warn("excluded header not found in the SDK", "name", name)
	}

	return m, nil
}

// UnmatchedExcludes returns the exclusions that skipped nothing, each with a
// suggestion when a discovered header name is close.
func UnmatchedExcludes(m Manifest, opts Options, excluded map[string]bool) []string {
	var names []string
	for _, p := range m.Paths() {
		names = append(names, filepath.Base(p))
	}

	var out []string

	for _, name := range opts.Exclude {
		if excluded[name] {
			continue
		}

		if near, ok := match.Closest(name, names); ok {
			name += " (did you mean " + near + "?)"
		}

		out = append(out, name)
	}

	return out
}
