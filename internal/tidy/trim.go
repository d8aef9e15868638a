package tidy

import (
	"fmt"
	"path/filepath"
	"time"
)

// TrimFilenames renames every file under root by removing the first chars
// characters of its name. Files whose name is too short, or whose trimmed
// name collides with an existing entry, are skipped. Renaming only changes
// the name; file content is untouched. Applying the same trim twice
// truncates twice, so this is deliberately not idempotent.
func (s *Service) TrimFilenames(root *Path, chars int) (*RunStats, error) {
	if chars <= 0 {
		return nil, fmt.Errorf("character count must be positive, got %d", chars)
	}

	files, err := s.discover(root)
	if err != nil {
		return nil, err
	}

	start := s.clock.Now()
	stats := &RunStats{}

	for _, f := range files {
		s.trimOneFile(f, chars, stats)
	}

	s.logger.Info("trim complete",
		"renamed", stats.Processed,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"duration", s.clock.Now().Sub(start).Truncate(time.Millisecond))
	return stats, nil
}

// trimOneFile renames a single file, recording the outcome in stats.
func (s *Service) trimOneFile(f *Path, chars int, stats *RunStats) {
	dir := filepath.Dir(f.String())
	name := filepath.Base(f.String())

	trimmed, ok := trimmedName(name, chars)
	if !ok {
		s.logger.Warn("skipping file: name too short", "path", f.String(), "chars", chars)
		stats.Skipped++
		return
	}

	newPath := filepath.Join(dir, trimmed)

	exists, err := s.fsmgr.Exists(newPath)
	if err != nil {
		s.logger.Error("checking rename target", "path", f.String(), "error", err)
		stats.Failed++
		return
	}
	if exists {
		s.logger.Warn("skipping file: target already exists", "path", f.String(), "target", trimmed)
		stats.Skipped++
		return
	}

	if err := s.fsmgr.Rename(f.String(), newPath); err != nil {
		s.logger.Error("renaming file", "path", f.String(), "error", err)
		stats.Failed++
		return
	}

	s.logger.Info("renamed", "from", f.String(), "to", newPath)
	stats.Processed++
}

// trimmedName returns name with the first chars characters removed.
// Characters are counted as runes, not bytes. The second return value is
// false when the name is too short to trim.
func trimmedName(name string, chars int) (string, bool) {
	runes := []rune(name)
	if len(runes) <= chars {
		return "", false
	}
	return string(runes[chars:]), true
}
