package infra

import (
	"fmt"
	"os"
	"path/filepath"
)

// LocalSink persists backup payloads to a fixed file on disk. The file name
// never changes; every write overwrites the previous snapshot.
type LocalSink struct {
	dir      string
	fileName string
}

func NewLocalSink(dir string) *LocalSink {
	return &LocalSink{dir: dir, fileName: "CenterFive_Backup.json"}
}

// Write stores the payload atomically (temp file + rename) so a crash mid-
// write never leaves a truncated backup behind.
func (s *LocalSink) Write(payload []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("backup: create dir: %w", err)
	}
	target := filepath.Join(s.dir, s.fileName)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("backup: write temp: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("backup: rename: %w", err)
	}
	return nil
}

// Path returns the fixed backup file location.
func (s *LocalSink) Path() string {
	return filepath.Join(s.dir, s.fileName)
}
