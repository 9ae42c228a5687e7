package catalog

import (
	"regexp"
	"slices"
	"strings"

	"xplm-bindgen/internal/diagnostic"
)

// Epoch is an API revision token of the X-Plane SDK, e.g. "XPLM301".
type Epoch string

// Delimiter separates epochs in an override list.
const Delimiter = ";"

// legacyDelimiter was accepted alongside ';' by earlier releases. It is now
// rejected instead of split on.
const legacyDelimiter = ":"

// OverrideKey is the environment key carrying the override list.
const OverrideKey = "XPLANE_SDK_VERSIONS"

// Floor is the minimal supported revision. It is enabled in every resolution.
const Floor Epoch = "XPLM200"

var defaults = []Epoch{Floor, "XPLM210", "XPLM300", "XPLM301", "XPLM303"}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Defaults returns the epochs enabled when no override is given.
func Defaults() []Epoch {
	return slices.Clone(defaults)
}

// Define returns the preprocessor flag enabling the epoch.
func (e Epoch) Define() string {
	return "-D" + string(e)
}

// ParseOverrides parses a user override list. Segments are split on
// Delimiter, trimmed, and empty ones discarded; duplicates keep their first
// position. A list with no remaining segments yields nil, which callers must
// treat exactly like an absent list.
func ParseOverrides(raw string) ([]Epoch, error) {
	var out []Epoch

	for _, seg := range strings.Split(raw, Delimiter) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		if strings.Contains(seg, legacyDelimiter) {
			return nil, diagnostic.Configuration(OverrideKey,
				"segment %q uses the legacy %q delimiter; separate epochs with %q", seg, legacyDelimiter, Delimiter)
		}

		if !identRe.MatchString(seg) {
			return nil, diagnostic.Configuration(OverrideKey, "segment %q is not a valid epoch identifier", seg)
		}

		e := Epoch(seg)
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}

	return out, nil
}

// Join returns epochs as one override list in canonical form. Lists that
// parse to the same epochs join to the same string.
func Join(epochs []Epoch) string {
	parts := make([]string, len(epochs))
	for i, e := range epochs {
		parts[i] = string(e)
	}

	return strings.Join(parts, Delimiter)
}

// Resolve returns the enabled epochs. Without overrides this is Defaults();
// otherwise Floor followed by the overrides, which replace the rest of the
// defaults.
func Resolve(overrides []Epoch) []Epoch {
	if len(overrides) == 0 {
		return Defaults()
	}

	out := make([]Epoch, 0, len(overrides)+1)
	out = append(out, Floor)

	for _, e := range overrides {
		if e != Floor {
			out = append(out, e)
		}
	}

	return out
}

// Defines maps epochs to their preprocessor flags, preserving order.
func Defines(epochs []Epoch) []string {
	out := make([]string, len(epochs))
	for i, e := range epochs {
		out[i] = e.Define()
	}

	return out
}
