package tidy

import (
	"archive/zip"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"
)

// ArchiveOptions control how comic archives are repacked.
type ArchiveOptions struct {
	Quality   int  // JPEG quality, 1-100
	MaxHeight int  // maximum image height in pixels; 0 disables downscaling
	Backup    bool // keep a <name>_original.cbz copy before replacing
}

const (
	archiveExt    = ".cbz"
	backupSuffix  = "_original"
	tempFilePrefx = ".tidy-"
)

// imageExtensions are the archive entries that get re-encoded (lowercase,
// with leading dot). All other entries are copied verbatim.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// OptimizeArchives repacks every .cbz file under root, re-encoding its
// images, and replaces the original only when the repacked archive is
// strictly smaller. Originals are left untouched on any repack error.
// Backup copies produced by earlier runs are never reprocessed.
func (s *Service) OptimizeArchives(root *Path, opts ArchiveOptions) (*RunStats, error) {
	if opts.Quality < 1 || opts.Quality > 100 {
		return nil, fmt.Errorf("quality must be between 1 and 100, got %d", opts.Quality)
	}
	if opts.MaxHeight < 0 {
		return nil, fmt.Errorf("max height must not be negative, got %d", opts.MaxHeight)
	}

	files, err := s.discover(root)
	if err != nil {
		return nil, err
	}

	start := s.clock.Now()
	stats := &RunStats{}

	for _, f := range files {
		if strings.ToLower(filepath.Ext(f.String())) != archiveExt {
			s.logger.Debug("not a comic archive", "path", f.String())
			continue
		}
		if isBackupCopy(f.String()) {
			s.logger.Debug("skipping backup copy", "path", f.String())
			continue
		}
		s.optimizeOneArchive(f, opts, stats)
	}

	s.logger.Info("optimize complete",
		"optimized", stats.Processed,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"saved_bytes", stats.SpaceSaved(),
		"duration", s.clock.Now().Sub(start).Truncate(time.Millisecond))
	return stats, nil
}

// optimizeOneArchive repacks a single archive into a temp file alongside
// the original and swaps it in when smaller, recording the outcome in stats.
func (s *Service) optimizeOneArchive(f *Path, opts ArchiveOptions, stats *RunStats) {
	origInfo, err := s.fsmgr.Stat(f.String())
	if err != nil {
		s.logger.Error("stat archive", "path", f.String(), "error", err)
		stats.Failed++
		return
	}
	origSize := origInfo.Size()

	// Temp file lives in the same directory so the final rename is atomic.
	// The dot prefix keeps it out of discovery if a run is interrupted.
	tmpPath := filepath.Join(filepath.Dir(f.String()), tempFilePrefx+s.idgen.New()+archiveExt)

	if err := repackArchive(f.String(), tmpPath, opts); err != nil {
		s.fsmgr.Remove(tmpPath)
		s.logger.Error("repacking archive", "path", f.String(), "error", err)
		stats.Failed++
		return
	}

	newInfo, err := s.fsmgr.Stat(tmpPath)
	if err != nil {
		s.fsmgr.Remove(tmpPath)
		s.logger.Error("stat repacked archive", "path", tmpPath, "error", err)
		stats.Failed++
		return
	}
	newSize := newInfo.Size()

	if newSize >= origSize {
		if err := s.fsmgr.Remove(tmpPath); err != nil {
			s.logger.Error("removing temp archive", "path", tmpPath, "error", err)
		}
		s.logger.Warn("skipping archive: repacked file is not smaller",
			"path", f.String(), "original_bytes", origSize, "repacked_bytes", newSize)
		stats.Skipped++
		return
	}

	if opts.Backup {
		if err := s.fsmgr.Copy(f.String(), backupPath(f.String())); err != nil {
			s.fsmgr.Remove(tmpPath)
			s.logger.Error("creating backup copy", "path", f.String(), "error", err)
			stats.Failed++
			return
		}
	}

	if err := s.fsmgr.Replace(tmpPath, f.String()); err != nil {
		s.fsmgr.Remove(tmpPath)
		s.logger.Error("replacing archive", "path", f.String(), "error", err)
		stats.Failed++
		return
	}

	s.logger.Info("archive optimized", "path", f.String(), "saved_bytes", origSize-newSize)
	stats.Processed++
	stats.TotalInputBytes += origSize
	stats.TotalOutputBytes += newSize
}

// isBackupCopy reports whether path looks like a backup produced by a
// previous run (<name>_original.cbz).
func isBackupCopy(path string) bool {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.HasSuffix(base, backupSuffix)
}

// backupPath returns the backup file name for an archive path.
func backupPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + backupSuffix + ext
}

// repackArchive writes a repacked copy of the zip archive at src to dst.
// Image entries are re-encoded; everything else is copied byte for byte,
// so the entry count always matches the original.
func repackArchive(src, dst string, opts ArchiveOptions) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating temp archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, entry := range r.File {
		if err := repackEntry(zw, entry, opts); err != nil {
			zw.Close()
			return fmt.Errorf("repacking entry %s: %w", entry.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return out.Close()
}

// repackEntry writes one archive entry to zw, re-encoding it when it is
// an image.
func repackEntry(zw *zip.Writer, entry *zip.File, opts ArchiveOptions) error {
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("opening entry: %w", err)
	}
	defer rc.Close()

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     entry.Name,
		Method:   zip.Deflate,
		Modified: entry.Modified,
	})
	if err != nil {
		return fmt.Errorf("creating entry: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(entry.Name))
	if strings.HasSuffix(entry.Name, "/") || !imageExtensions[ext] {
		_, err := io.Copy(w, rc)
		return err
	}

	img, _, err := image.Decode(rc)
	if err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}
	return encodeImage(w, downscale(img, opts.MaxHeight), ext, opts.Quality)
}

// downscale shrinks img to maxHeight preserving aspect ratio. Images at or
// under the limit are returned unchanged.
func downscale(img image.Image, maxHeight int) image.Image {
	bounds := img.Bounds()
	h := bounds.Dy()
	if maxHeight <= 0 || h <= maxHeight {
		return img
	}

	w := bounds.Dx() * maxHeight / h
	if w < 1 {
		w = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, maxHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// encodeImage writes img to w in the format implied by ext.
func encodeImage(w io.Writer, img image.Image, ext string, quality int) error {
	switch ext {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case ".png":
		enc := &png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	}
	return fmt.Errorf("unsupported image extension %q", ext)
}
