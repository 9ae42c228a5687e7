package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"xplm-bindgen/internal/diagnostic"
	"xplm-bindgen/internal/logutil"
)

// WrapperName is the file name of the translation unit handed to the tool.
const WrapperName = "xplm_wrapper.h"

// Parser turns declaration files into a binding artifact. It is called once
// per run and blocks until the artifact is complete or the parse failed.
type Parser interface {
	Generate(ctx context.Context, flags, headers []string) ([]byte, error)
}

// CommandParser runs an external tool as the parser. The headers are
// included, in order, by one wrapper unit written to a temporary directory.
// The tool receives Args, then the flags, then the wrapper path; its
// standard output is the artifact.
type CommandParser struct {
	Command string
	Args    []string
	// Dir is the working directory of the tool; empty means the current one.
	Dir string
	// Env is the tool environment; nil means the current one.
	Env []string
}

// NewCommandParser creates a CommandParser for command with leading args.
func NewCommandParser(command string, args ...string) *CommandParser {
	return &CommandParser{Command: command, Args: args}
}

// CommandLine returns the full argument vector for flags and the unit.
func (p *CommandParser) CommandLine(flags []string, unit string) []string {
	argv := make([]string, 0, 2+len(p.Args)+len(flags))
	argv = append(argv, p.Command)
	argv = append(argv, p.Args...)
	argv = append(argv, flags...)
	argv = append(argv, unit)

	return argv
}

// WrapperSource returns a translation unit including every header in order,
// so headers shared through include guards are expanded once.
func WrapperSource(headers []string) ([]byte, error) {
	var buf bytes.Buffer

	for _, h := range headers {
		abs, err := filepath.Abs(h)
		if err != nil {
			return nil, err
		}

		abs = filepath.ToSlash(abs)
		if strings.ContainsAny(abs, "\"\n") {
			return nil, fmt.Errorf("header path %q cannot be included", abs)
		}

		fmt.Fprintf(&buf, "#include \"%s\"\n", abs)
	}

	return buf.Bytes(), nil
}

// Generate writes the wrapper unit and runs the tool on it. A non-zero exit
// or empty output is a generation error carrying the tool's standard error
// verbatim.
func (p *CommandParser) Generate(ctx context.Context, flags, headers []string) ([]byte, error) {
	src, err := WrapperSource(headers)
	if err != nil {
		return nil, diagnostic.Generation(p.Command, err, "")
	}

	dir, err := os.MkdirTemp("", "xplm-bindgen-")
	if err != nil {
		return nil, diagnostic.Generation(p.Command, err, "")
	}
	defer os.RemoveAll(dir)

	unit := filepath.Join(dir, WrapperName)
	if err := os.WriteFile(unit, src, 0o600); err != nil {
		return nil, diagnostic.Generation(p.Command, err, "")
	}

	argv := p.CommandLine(flags, unit)
	logutil.TraceContext(ctx, "running parser", "argv", strings.Join(argv, " "), "headers", len(headers))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = p.Dir
	cmd.Env = p.Env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, diagnostic.Generation(p.Command, err, stderr.String())
	}

	if stdout.Len() == 0 {
		return nil, diagnostic.Generation(p.Command, errors.New("parser produced no output"), stderr.String())
	}

	return stdout.Bytes(), nil
}
