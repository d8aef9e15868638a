package testutil

import (
	"bytes"
	"encoding/binary"
	"os"
	"testing"

	"github.com/bogem/id3v2/v2"
	flac "github.com/go-flac/go-flac"
)

// FakeMP3Payload returns bytes that stand in for MPEG audio frames.
// The leading 0xFFFB sync word makes the file look like real audio data.
func FakeMP3Payload() []byte {
	payload := []byte{0xFF, 0xFB, 0x90, 0x00}
	return append(payload, bytes.Repeat([]byte{0xA5, 0x5A, 0x00, 0x42}, 64)...)
}

// WriteMP3 writes an MP3 file at path consisting of an ID3v2 tag (when
// tagged is true) followed by payload.
func WriteMP3(t *testing.T, path string, payload []byte, tagged bool) {
	t.Helper()

	var buf bytes.Buffer
	if tagged {
		tag := id3v2.NewEmptyTag()
		tag.SetTitle("Test Title")
		tag.SetArtist("Test Artist")
		tag.SetAlbum("Test Album")
		if _, err := tag.WriteTo(&buf); err != nil {
			t.Fatalf("writing ID3v2 tag: %v", err)
		}
	}
	buf.Write(payload)

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// AppendID3v1 appends a legacy 128-byte ID3v1 block to the file at path.
func AppendID3v1(t *testing.T, path string) {
	t.Helper()

	block := make([]byte, 128)
	copy(block, "TAG")
	copy(block[3:], "Old Title")
	copy(block[33:], "Old Artist")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()
	if _, err := f.Write(block); err != nil {
		t.Fatalf("appending ID3v1 block: %v", err)
	}
}

// WriteFLAC writes a FLAC file with a STREAMINFO block, optional
// VORBIS_COMMENT and PICTURE blocks, and the given frame bytes.
func WriteFLAC(t *testing.T, path string, frames []byte, tagged bool) {
	t.Helper()

	meta := []*flac.MetaDataBlock{
		{Type: flac.StreamInfo, Data: make([]byte, 34)},
	}
	if tagged {
		meta = append(meta,
			&flac.MetaDataBlock{Type: flac.VorbisComment, Data: vorbisCommentData("Test Title")},
			&flac.MetaDataBlock{Type: flac.Picture, Data: make([]byte, 8)},
		)
	}

	f := &flac.File{Meta: meta, Frames: frames}
	if err := f.Save(path); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// vorbisCommentData builds a minimal VORBIS_COMMENT block body with a
// single TITLE field.
func vorbisCommentData(title string) []byte {
	vendor := "tidy-test"
	comment := "TITLE=" + title

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(len(vendor)))
	buf.WriteString(vendor)
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	binary.Write(&buf, binary.LittleEndian, uint32(len(comment)))
	buf.WriteString(comment)
	return buf.Bytes()
}
