package link

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"
)

// Header marks files written by the generator.
const Header = "// Code generated by xplm-bindgen; DO NOT EDIT."

// CgoFile is a rendered Go source file carrying link directives.
type CgoFile struct {
	Filename string
	Content  []byte
}

var cgoTemplate = template.Must(template.New("cgo").Parse(`{{.Header}}

//go:build {{.GOOS}}

package {{.Package}}

/*
{{- range .Directives}}
#{{.}}
{{- end}}
*/
import "C"
`))

type cgoData struct {
	Header     string
	GOOS       string
	Package    string
	Directives []string
}

// CgoFilename returns the name of the link file for a platform.
func CgoFilename(p Platform) string {
	return "zz_xplm_link_" + GOOS(p) + ".go"
}

// CgoFilenames returns the names of the link files of every platform that
// needs one.
func CgoFilenames() []string {
	return []string{CgoFilename(PlatformWindows), CgoFilename(PlatformMacOS)}
}

// RenderCgoFile renders the link file of plan for package pkg. It returns
// false when the plan is empty and nothing needs to be written.
func RenderCgoFile(pkg string, plan Plan) (CgoFile, bool, error) {
	if plan.Empty() {
		return CgoFile{}, false, nil
	}

	data := cgoData{
		Header:     Header,
		GOOS:       GOOS(plan.Platform),
		Package:    pkg,
		Directives: plan.Directives(),
	}

	var buf bytes.Buffer
	if err := cgoTemplate.Execute(&buf, data); err != nil {
		return CgoFile{}, false, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return CgoFile{}, false, fmt.Errorf("formatting link file: %w", err)
	}

	return CgoFile{Filename: CgoFilename(plan.Platform), Content: formatted}, true, nil
}
