package sim

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CleanDir removes every regular file in dir whose base name does not match
// one of the keep patterns. Patterns follow filepath.Match syntax and are
// tested against base names only; subdirectories are left alone. Missing
// directories are not an error.
func CleanDir(dir string, keep ...string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("sim: read workspace %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if matchAny(name, keep) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("sim: clean workspace %s: %w", dir, err)
		}
	}
	return nil
}

func matchAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		ok, err := filepath.Match(pattern, name)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// WorkdirName derives a filesystem-safe directory name from an evaluation
// label, collapsing anything outside [A-Za-z0-9_-] to underscores.
func WorkdirName(label string) string {
	var b strings.Builder
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
