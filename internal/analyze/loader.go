package analyze

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName | packages.NeedFiles

// Package describes a consuming package.
type Package struct {
	Name    string
	PkgPath string
	GoFiles []string
}

// LoadPackage loads the package in dir as seen when building for goos with
// cgo enabled. It returns nil without running the go command when dir holds
// no Go files. Files named in ignore, by base name, never decide the name.
//
// When the go command cannot report a name, for example because every file
// is excluded by build constraints, the package clauses of the files are
// read instead. An error means a package exists but its name is unknown.
func LoadPackage(dir, goos string, ignore ...string) (*Package, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return nil, err
	}

	matches = slices.DeleteFunc(matches, func(p string) bool {
		return slices.Contains(ignore, filepath.Base(p))
	})

	if len(matches) == 0 {
		return nil, nil
	}

	pkg, loadErr := load(dir, goos)
	if loadErr == nil && pkg.Name != "" {
		return pkg, nil
	}

	name, err := ClauseName(matches)
	if err != nil {
		return nil, fmt.Errorf("%w (go list: %v)", err, loadErr)
	}

	if name == "" {
		return nil, nil
	}

	out := &Package{Name: name, GoFiles: matches}
	if pkg != nil {
		out.PkgPath = pkg.PkgPath
	}

	return out, nil
}

func load(dir, goos string) (*Package, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  dir,
		// Cross-target loads disable cgo by default, which hides every
		// file importing "C".
		Env: append(os.Environ(), "CGO_ENABLED=1"),
	}
	if goos != "" {
		cfg.Env = append(cfg.Env, "GOOS="+goos)
	}

	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load package in %s: %w", dir, err)
	}

	if len(pkgs) != 1 {
		return nil, fmt.Errorf("expected one package in %s, found %d", dir, len(pkgs))
	}

	out := &Package{
		Name:    pkgs[0].Name,
		PkgPath: pkgs[0].PkgPath,
		GoFiles: pkgs[0].GoFiles,
	}

	// Check for package errors
	var errs []error
	for _, e := range pkgs[0].Errors {
		errs = append(errs, e)
	}
	if len(errs) > 0 {
		return out, fmt.Errorf("package errors: %v", errs)
	}

	return out, nil
}

// ClauseName reads the package clause of each non-test file and returns
// the single name they share. Test files alone yield "".
func ClauseName(files []string) (string, error) {
	fset := token.NewFileSet()

	var names []string

	for _, f := range files {
		if strings.HasSuffix(f, "_test.go") {
			continue
		}

		file, err := parser.ParseFile(fset, f, nil, parser.PackageClauseOnly)
		if err != nil {
			return "", fmt.Errorf("failed to read package clause: %w", err)
		}

		if name := file.Name.Name; !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	switch len(names) {
	case 0:
		return "", nil
	case 1:
		return names[0], nil
	default:
		slices.Sort(names)
		return "", fmt.Errorf("conflicting package clauses %s", strings.Join(names, ", "))
	}
}
