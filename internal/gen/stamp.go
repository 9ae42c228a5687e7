package gen

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"xplm-bindgen/internal/diagnostic"
)

// StampSuffix is appended to the artifact name to form the stamp name.
const StampSuffix = ".stamp.yaml"

// ErrStale is returned by CheckStamp when the artifact must be regenerated.
var ErrStale = errors.New("generated artifact is stale")

// Trigger is a configuration input whose change invalidates the artifact.
type Trigger struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Stamp records what an artifact was generated from.
type Stamp struct {
	Generator   string    `yaml:"generator"`
	Artifact    string    `yaml:"artifact"`
	Triggers    []Trigger `yaml:"triggers"`
	Flags       []string  `yaml:"flags"`
	Headers     int       `yaml:"headers"`
	Fingerprint string    `yaml:"fingerprint"`
}

// StampName returns the stamp file name of an artifact.
func StampName(artifact string) string {
	return artifact + StampSuffix
}

// NewStamp computes the stamp of a run. Header contents are part of the
// fingerprint, so an SDK update under an unchanged path is still detected.
func NewStamp(artifact string, triggers []Trigger, flags, headers []string) (Stamp, error) {
	h := sha256.New()

	writeCount(h, len(triggers))
	for _, t := range triggers {
		writeField(h, []byte(t.Key))
		writeField(h, []byte(t.Value))
	}

	writeCount(h, len(flags))
	for _, f := range flags {
		writeField(h, []byte(f))
	}

	writeCount(h, len(headers))
	for _, p := range headers {
		content, err := os.ReadFile(p)
		if err != nil {
			return Stamp{}, diagnostic.Discovery(p, err, "cannot read declaration file")
		}

		writeField(h, []byte(p))
		writeField(h, content)
	}

	return Stamp{
		Generator:   "xplm-bindgen",
		Artifact:    artifact,
		Triggers:    append([]Trigger{}, triggers...),
		Flags:       append([]string{}, flags...),
		Headers:     len(headers),
		Fingerprint: "sha256:" + hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// writeField writes length-prefixed data so adjacent fields never collide.
func writeField(h hash.Hash, data []byte) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(data)))
	h.Write(n[:])
	h.Write(data)
}

func writeCount(h hash.Hash, n int) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(n))
	h.Write(b[:])
}

// Marshal renders the stamp as YAML.
func (s Stamp) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// LoadStamp reads a stamp file.
func LoadStamp(path string) (Stamp, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Stamp{}, err
	}

	var s Stamp
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Stamp{}, fmt.Errorf("failed to parse stamp %s: %w", path, err)
	}

	return s, nil
}

// CheckStamp compares the stamp stored at path with want. It returns an
// error wrapping ErrStale that names the changed input, or nil when the
// artifact is current.
func CheckStamp(path string, want Stamp) error {
	got, err := LoadStamp(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: no stamp at %s", ErrStale, path)
	}

	if err != nil {
		return err
	}

	if changed := changedTriggers(got.Triggers, want.Triggers); len(changed) > 0 {
		return fmt.Errorf("%w: %s changed", ErrStale, strings.Join(changed, ", "))
	}

	if got.Fingerprint != want.Fingerprint {
		return fmt.Errorf("%w: declarations or flags changed", ErrStale)
	}

	return nil
}

// changedTriggers returns the keys whose values differ, in want order.
func changedTriggers(got, want []Trigger) []string {
	old := make(map[string]string, len(got))
	for _, t := range got {
		old[t.Key] = t.Value
	}

	var out []string

	for _, t := range want {
		if v, ok := old[t.Key]; !ok || v != t.Value {
			out = append(out, t.Key)
		}
	}

	return out
}
