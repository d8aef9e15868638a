package tidy

import "testing"

func TestTrimmedName(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		chars  int
		want   string
		wantOK bool
	}{
		{
			name:   "removes leading characters",
			in:     "123notes.txt",
			chars:  3,
			want:   "notes.txt",
			wantOK: true,
		},
		{
			name:   "single character trim",
			in:     "xfile",
			chars:  1,
			want:   "file",
			wantOK: true,
		},
		{
			name:   "name equal to count is too short",
			in:     "abc",
			chars:  3,
			wantOK: false,
		},
		{
			name:   "name shorter than count is too short",
			in:     "ab",
			chars:  3,
			wantOK: false,
		},
		{
			name:   "counts runes not bytes",
			in:     "日本語file.txt",
			chars:  3,
			want:   "file.txt",
			wantOK: true,
		},
		{
			name:   "trimming into the extension",
			in:     "ab.txt",
			chars:  3,
			want:   "txt",
			wantOK: true,
		},
		{
			name:   "result may start with a dot",
			in:     "abc.txt",
			chars:  3,
			want:   ".txt",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := trimmedName(tt.in, tt.chars)
			if ok != tt.wantOK {
				t.Fatalf("trimmedName(%q, %d) ok = %t, want %t", tt.in, tt.chars, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("trimmedName(%q, %d) = %q, want %q", tt.in, tt.chars, got, tt.want)
			}
		})
	}
}
