package plan

import (
	"gopkg.in/yaml.v3"

	"xplm-bindgen/internal/discover"
)

// Summary is the reviewable form of a resolution, as printed by
// "xplm-bindgen plan --yaml".
type Summary struct {
	Flags   []string         `yaml:"flags"`
	Epochs  []string         `yaml:"epochs"`
	Headers []SummaryHeaders `yaml:"headers"`
}

// SummaryHeaders lists the headers of one subsystem.
type SummaryHeaders struct {
	Subsystem string   `yaml:"subsystem"`
	Dir       string   `yaml:"dir"`
	Files     []string `yaml:"files"`
}

// Summarize converts a resolution into its reviewable form.
func Summarize(d DefinitionSet, m discover.Manifest) Summary {
	s := Summary{Flags: d.Args()}

	for _, e := range d.Epochs {
		s.Epochs = append(s.Epochs, string(e))
	}

	for _, g := range m.Groups {
		s.Headers = append(s.Headers, SummaryHeaders{
			Subsystem: g.Subsystem.Name,
			Dir:       g.Subsystem.Dir,
			Files:     append([]string{}, g.Headers...),
		})
	}

	return s
}

// ExportYAML renders the summary of a resolution as YAML.
func ExportYAML(d DefinitionSet, m discover.Manifest) ([]byte, error) {
	return yaml.Marshal(Summarize(d, m))
}
