package media

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsValidImageMagicBytes(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want bool
	}{
		{name: "JPEG JFIF", buf: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, want: true},
		{name: "JPEG EXIF", buf: []byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00, 0x00}, want: true},
		{name: "PNG", buf: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, want: true},
		{name: "GIF87a", buf: []byte("GIF87a"), want: true},
		{name: "GIF89a", buf: []byte("GIF89a"), want: true},
		{name: "WebP", buf: []byte{'R', 'I', 'F', 'F', 0, 0, 0, 0, 'W', 'E', 'B', 'P'}, want: true},
		{name: "too short", buf: []byte{0xFF, 0xD8, 0xFF}, want: false},
		{name: "empty", buf: []byte{}, want: false},
		{name: "nil", buf: nil, want: false},
		{name: "PDF", buf: []byte("%PDF-1.7"), want: false},
		{name: "ZIP", buf: []byte{0x50, 0x4B, 0x03, 0x04}, want: false},
		{name: "truncated WebP", buf: []byte{'R', 'I', 'F', 'F', 0, 0, 0, 0, 'W', 'E', 'B'}, want: false},
		{name: "RIFF AVI", buf: []byte{'R', 'I', 'F', 'F', 0, 0, 0, 0, 'A', 'V', 'I', ' '}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidImageMagicBytes(tt.buf); got != tt.want {
				t.Errorf("isValidImageMagicBytes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "photo.jpg", want: "photo.jpg"},
		{name: "spaces stripped", input: "my photo.jpg", want: "myphoto.jpg"},
		{name: "path traversal", input: "../../etc/passwd", want: "passwd"},
		{name: "windows path", input: `C:\Users\uploads\file.png`, want: "file.png"},
		{name: "brackets stripped", input: "shoe (1) [final].jpg", want: "shoe1final.jpg"},
		{name: "unicode stripped", input: "café-über.png", want: "caf-ber.png"},
		{name: "empty", input: "", want: "upload"},
		{name: "dot", input: ".", want: "upload"},
		{name: "dot dot", input: "..", want: "upload"},
		{name: "hidden file", input: ".htaccess", want: "htaccess"},
		{name: "all special", input: "!@#$%^&*()", want: "upload"},
		{name: "hyphen underscore kept", input: "my-file_name.webp", want: "my-file_name.webp"},
		{name: "case kept", input: "MyFile.PNG", want: "MyFile.PNG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeFilename(tt.input); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsRejected(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: ErrFileTooLarge, want: true},
		{err: ErrInvalidContentType, want: true},
		{err: fmt.Errorf("image 2: %w", ErrInvalidMagicBytes), want: true},
		{err: errors.New("uploading to storage: timeout"), want: false},
		{err: nil, want: false},
	}
	for _, tt := range tests {
		if got := IsRejected(tt.err); got != tt.want {
			t.Errorf("IsRejected(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
