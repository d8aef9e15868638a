package tidy

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/justinmstuart/tidy/internal/testutil"
)

func TestRepackArchive(t *testing.T) {
	opts := ArchiveOptions{Quality: 75, MaxHeight: 100}

	t.Run("re-encodes images and copies other entries", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "book.cbz")
		dst := filepath.Join(dir, "book.repacked.cbz")

		info := []byte("comic info xml")
		testutil.WriteCBZ(t, src, []testutil.ArchiveEntry{
			{Name: "page01.png", Data: testutil.GradientPNG(t, 80, 200)},
			{Name: "ComicInfo.xml", Data: info},
		})

		if err := repackArchive(src, dst, opts); err != nil {
			t.Fatalf("repackArchive() error = %v", err)
		}

		entries := testutil.ReadArchive(t, dst)
		if len(entries) != 2 {
			t.Fatalf("repacked archive has %d entries, want 2", len(entries))
		}
		if !bytes.Equal(entries["ComicInfo.xml"], info) {
			t.Error("non-image entry content was modified")
		}

		w, h := testutil.ImageSize(t, entries["page01.png"])
		if h != 100 {
			t.Errorf("image height = %d, want 100", h)
		}
		if w != 40 {
			t.Errorf("image width = %d, want 40", w)
		}
	})

	t.Run("images under the height limit keep their size", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "small.cbz")
		dst := filepath.Join(dir, "small.repacked.cbz")

		testutil.WriteCBZ(t, src, []testutil.ArchiveEntry{
			{Name: "page01.jpg", Data: testutil.GradientJPEG(t, 60, 90)},
		})

		if err := repackArchive(src, dst, opts); err != nil {
			t.Fatalf("repackArchive() error = %v", err)
		}

		entries := testutil.ReadArchive(t, dst)
		w, h := testutil.ImageSize(t, entries["page01.jpg"])
		if w != 60 || h != 90 {
			t.Errorf("image size = %dx%d, want 60x90", w, h)
		}
	})

	t.Run("corrupt image entry fails the archive", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "broken.cbz")
		dst := filepath.Join(dir, "broken.repacked.cbz")

		testutil.WriteCBZ(t, src, []testutil.ArchiveEntry{
			{Name: "page01.png", Data: []byte("not an image")},
		})

		if err := repackArchive(src, dst, opts); err == nil {
			t.Error("repackArchive() error = nil, want decode error")
		}
	})

	t.Run("not a zip file", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "junk.cbz")
		if err := os.WriteFile(src, []byte("junk"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := repackArchive(src, filepath.Join(dir, "out.cbz"), opts); err == nil {
			t.Error("repackArchive() error = nil, want open error")
		}
	})
}

func TestDownscale(t *testing.T) {
	tests := []struct {
		name      string
		w, h      int
		maxHeight int
		wantW     int
		wantH     int
	}{
		{name: "taller than limit", w: 80, h: 200, maxHeight: 100, wantW: 40, wantH: 100},
		{name: "at the limit", w: 80, h: 100, maxHeight: 100, wantW: 80, wantH: 100},
		{name: "under the limit", w: 80, h: 50, maxHeight: 100, wantW: 80, wantH: 50},
		{name: "limit disabled", w: 80, h: 5000, maxHeight: 0, wantW: 80, wantH: 5000},
		{name: "extreme aspect ratio clamps width to one", w: 1, h: 1000, maxHeight: 10, wantW: 1, wantH: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			got := downscale(src, tt.maxHeight)
			bounds := got.Bounds()
			if bounds.Dx() != tt.wantW || bounds.Dy() != tt.wantH {
				t.Errorf("downscale() size = %dx%d, want %dx%d",
					bounds.Dx(), bounds.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestIsBackupCopy(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/comics/book_original.cbz", want: true},
		{path: "/comics/book.cbz", want: false},
		{path: "original.cbz", want: false},
		{path: "sub/dir/issue-01_original.cbz", want: true},
	}

	for _, tt := range tests {
		if got := isBackupCopy(tt.path); got != tt.want {
			t.Errorf("isBackupCopy(%q) = %t, want %t", tt.path, got, tt.want)
		}
	}
}

func TestBackupPath(t *testing.T) {
	got := backupPath("/comics/book.cbz")
	want := "/comics/book_original.cbz"
	if got != want {
		t.Errorf("backupPath() = %q, want %q", got, want)
	}
}
