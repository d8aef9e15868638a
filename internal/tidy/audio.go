package tidy

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bogem/id3v2/v2"
	flac "github.com/go-flac/go-flac"
)

// id3v1Size is the fixed length of a trailing ID3v1 block.
const id3v1Size = 128

// audioExtensions are the extensions the stripper recognizes (lowercase,
// with leading dot). Everything else is passed over silently.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
}

// StripMetadata clears embedded metadata tags from every recognized audio
// file under root, rewriting each file in place. The audio payload is never
// modified. Files without tags are counted as skipped; files that fail to
// parse or save are counted as failed and the run continues.
func (s *Service) StripMetadata(root *Path) (*RunStats, error) {
	files, err := s.discover(root)
	if err != nil {
		return nil, err
	}

	start := s.clock.Now()
	stats := &RunStats{}

	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.String()))
		if !audioExtensions[ext] {
			s.logger.Debug("not an audio file", "path", f.String())
			continue
		}
		s.stripOneFile(f, ext, stats)
	}

	s.logger.Info("strip complete",
		"stripped", stats.Processed,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"duration", s.clock.Now().Sub(start).Truncate(time.Millisecond))
	return stats, nil
}

// stripOneFile removes the tags from a single audio file, recording the
// outcome in stats.
func (s *Service) stripOneFile(f *Path, ext string, stats *RunStats) {
	var (
		changed bool
		err     error
	)
	switch ext {
	case ".mp3":
		changed, err = stripMP3(f.String())
	case ".flac":
		changed, err = stripFLAC(f.String())
	}

	if err != nil {
		s.logger.Error("stripping metadata", "path", f.String(), "error", err)
		stats.Failed++
		return
	}
	if !changed {
		s.logger.Warn("skipping file: no metadata found", "path", f.String())
		stats.Skipped++
		return
	}

	s.logger.Info("metadata removed", "path", f.String())
	stats.Processed++
}

// stripMP3 removes the ID3v2 tag at the start of the file and any ID3v1
// block at the end. Returns whether the file had any tags to remove.
func stripMP3(path string) (bool, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return false, fmt.Errorf("parsing ID3v2 tag: %w", err)
	}

	hadV2 := tag.Count() > 0
	if hadV2 {
		tag.DeleteAllFrames()
		if err := tag.Save(); err != nil {
			tag.Close()
			return false, fmt.Errorf("saving without ID3v2 tag: %w", err)
		}
	}
	if err := tag.Close(); err != nil {
		return false, fmt.Errorf("closing file: %w", err)
	}

	hadV1, err := removeID3v1(path)
	if err != nil {
		return false, err
	}

	return hadV2 || hadV1, nil
}

// removeID3v1 truncates a trailing 128-byte ID3v1 block if one is present.
// Returns whether a block was removed.
func removeID3v1(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return false, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("stat file: %w", err)
	}
	if info.Size() < id3v1Size {
		return false, nil
	}

	marker := make([]byte, 3)
	if _, err := f.ReadAt(marker, info.Size()-id3v1Size); err != nil && err != io.EOF {
		return false, fmt.Errorf("reading ID3v1 marker: %w", err)
	}
	if string(marker) != "TAG" {
		return false, nil
	}

	if err := f.Truncate(info.Size() - id3v1Size); err != nil {
		return false, fmt.Errorf("truncating ID3v1 block: %w", err)
	}
	return true, nil
}

// stripFLAC drops VORBIS_COMMENT and PICTURE metadata blocks. STREAMINFO
// and the audio frames are preserved as-is. Returns whether any blocks
// were removed.
func stripFLAC(path string) (bool, error) {
	f, err := flac.ParseFile(path)
	if err != nil {
		return false, fmt.Errorf("parsing FLAC file: %w", err)
	}

	kept := f.Meta[:0]
	removed := 0
	for _, block := range f.Meta {
		if block.Type == flac.VorbisComment || block.Type == flac.Picture {
			removed++
			continue
		}
		kept = append(kept, block)
	}
	if removed == 0 {
		return false, nil
	}

	f.Meta = kept
	if err := f.Save(path); err != nil {
		return false, fmt.Errorf("saving without metadata blocks: %w", err)
	}
	return true, nil
}
