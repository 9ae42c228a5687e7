package gen

import (
	"os"
	"path/filepath"
)

// writeDebugUnformatted writes raw parser output to a sidecar file next to
// the intended artifact. This is best-effort and should never make
// generation fail harder.
func writeDebugUnformatted(outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}

	// No .go suffix: the sidecar sits in the consuming package and must not
	// be compiled.
	p := filepath.Join(outDir, filename+".unformatted")

	return os.WriteFile(p, content, filePerm)
}
