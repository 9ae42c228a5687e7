package gen

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"

	"xplm-bindgen/internal/diagnostic"
	"xplm-bindgen/internal/discover"
	"xplm-bindgen/internal/plan"
)

// Banner marks generated artifacts.
const Banner = "Code generated by xplm-bindgen; DO NOT EDIT."

// Request is the input of one driver run.
type Request struct {
	Definitions plan.DefinitionSet
	Manifest    discover.Manifest
	// OutputDir is the directory of the consuming package.
	OutputDir string
	// Artifact is the artifact file name inside OutputDir.
	Artifact string
	// Triggers are the configuration inputs recorded in the stamp.
	Triggers []Trigger
}

// Result describes a written artifact.
type Result struct {
	ArtifactPath string
	StampPath    string
	Size         int
	Stamp        Stamp
}

// Driver runs the parser and persists the artifact.
type Driver struct {
	parser Parser
}

// NewDriver creates a Driver using p.
func NewDriver(p Parser) *Driver {
	return &Driver{parser: p}
}

// Run invokes the parser once and writes the artifact and its stamp. On
// any error nothing is written except, for unformattable Go output, a
// ".unformatted" sidecar.
func (d *Driver) Run(ctx context.Context, req Request) (Result, error) {
	headers := req.Manifest.Paths()
	flags := req.Definitions.Args()

	stamp, err := NewStamp(req.Artifact, req.Triggers, flags, headers)
	if err != nil {
		return Result{}, err
	}

	slog.Info("generating bindings", "headers", len(headers), "epochs", len(req.Definitions.Epochs))

	raw, err := d.parser.Generate(ctx, flags, headers)
	if err != nil {
		return Result{}, err
	}

	content, err := postProcess(req.Artifact, raw)
	if err != nil {
		if werr := writeDebugUnformatted(req.OutputDir, req.Artifact, raw); werr != nil {
			slog.Warn("cannot write unformatted output", "error", werr)
		}

		return Result{}, &diagnostic.Error{
			Kind:    diagnostic.KindGeneration,
			Subject: req.Artifact,
			Message: "parser output is not valid Go",
			Err:     err,
		}
	}

	stampData, err := stamp.Marshal()
	if err != nil {
		return Result{}, fmt.Errorf("marshaling stamp: %w", err)
	}

	files := []GeneratedFile{
		{Filename: req.Artifact, Content: content},
		{Filename: StampName(req.Artifact), Content: stampData},
	}

	if err := WriteFiles(files, req.OutputDir); err != nil {
		return Result{}, diagnostic.Write(req.OutputDir, err)
	}

	res := Result{
		ArtifactPath: filepath.Join(req.OutputDir, req.Artifact),
		StampPath:    filepath.Join(req.OutputDir, StampName(req.Artifact)),
		Size:         len(content),
		Stamp:        stamp,
	}
	slog.Debug("wrote artifact", "path", res.ArtifactPath, "bytes", res.Size, "fingerprint", stamp.Fingerprint)

	return res, nil
}

// postProcess normalises Go output and prefixes a banner to everything
// else.
func postProcess(name string, raw []byte) ([]byte, error) {
	if strings.HasSuffix(name, ".go") {
		src := raw
		if !bytes.Contains(raw, []byte("DO NOT EDIT")) {
			src = append([]byte("// "+Banner+"\n\n"), raw...)
		}

		return imports.Process(name, src, &imports.Options{
			Comments:   true,
			TabIndent:  true,
			TabWidth:   8,
			FormatOnly: true,
		})
	}

	var buf bytes.Buffer
	buf.WriteString("/* " + Banner + " */\n\n")
	buf.Write(raw)

	if !bytes.HasSuffix(raw, []byte("\n")) {
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}
