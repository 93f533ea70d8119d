package export

import (
	"os"

	"tuiwbs/internal/model"
)

// writeFile writes content to path as a plain, non-atomic write: exports
// are one-way artifacts regenerated on demand, not project state guarded by
// the atomic-write contract the writer/config packages use.
func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return model.IoError{Path: path, Err: err}
	}
	return nil
}
