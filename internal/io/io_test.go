package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.flac", "normal-file.flac"},
		{"AC/DC: Live?", "AC_DC_ Live_"},
		{"file<with>brackets", "file_with_brackets"},
		{`file/with\slashes`, "file_with_slashes"},
		{"file|with|pipes", "file_with_pipes"},
		{"file?with*wildcards", "file_with_wildcards"},
		{`file"with"quotes`, "file_with_quotes"},
		{"trailing dots...", "trailing dots..."},
		{"multiple   spaces  ", "multiple   spaces  "},
		{"Sigur Rós: Ágætis byrjun", "Sigur Rós_ Ágætis byrjun"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if len(got) != len(tt.input) {
				t.Errorf("SanitizeFileName(%q) changed length: %d -> %d", tt.input, len(tt.input), len(got))
			}
			if utf8.RuneCountInString(got) != utf8.RuneCountInString(tt.input) {
				t.Errorf("SanitizeFileName(%q) changed rune count: %d -> %d",
					tt.input, utf8.RuneCountInString(tt.input), utf8.RuneCountInString(got))
			}
			if again := SanitizeFileName(got); again != got {
				t.Errorf("SanitizeFileName not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestSanitizeFileName_InvalidUTF8(t *testing.T) {
	input := "a\xffb:"
	got := SanitizeFileName(input)

	if got != "a\xffb_" {
		t.Errorf("SanitizeFileName(%q) = %q, want %q", input, got, "a\xffb_")
	}
	if len(got) != len(input) {
		t.Errorf("SanitizeFileName(%q) changed length: %d -> %d", input, len(input), len(got))
	}
}

func TestWriteFile_CreatesParents(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Artist", "(2019) Album", "Disc 2", "01. Song.flac")

	if err := WriteFile(context.Background(), path, []byte("data")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "data" {
		t.Errorf("content = %q, want %q", got, "data")
	}
}

func TestWriteFile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "never.flac")
	if err := WriteFile(ctx, path, []byte("x")); err == nil {
		t.Fatal("WriteFile() with cancelled context should fail")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file should not exist, stat err = %v", err)
	}
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func TestFitCover(t *testing.T) {
	svc := NewImageService()
	ctx := context.Background()

	t.Run("small jpeg is kept as is", func(t *testing.T) {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, testImage(64, 64), nil); err != nil {
			t.Fatal(err)
		}
		got, err := svc.FitCover(ctx, buf.Bytes(), 640)
		if err != nil {
			t.Fatalf("FitCover() error = %v", err)
		}
		if !bytes.Equal(got, buf.Bytes()) {
			t.Error("FitCover() re-encoded a JPEG that already fits")
		}
	})

	t.Run("large png is scaled to jpeg", func(t *testing.T) {
		var buf bytes.Buffer
		if err := png.Encode(&buf, testImage(200, 100)); err != nil {
			t.Fatal(err)
		}
		got, err := svc.FitCover(ctx, buf.Bytes(), 50)
		if err != nil {
			t.Fatalf("FitCover() error = %v", err)
		}
		cfg, format, err := image.DecodeConfig(bytes.NewReader(got))
		if err != nil {
			t.Fatalf("DecodeConfig() error = %v", err)
		}
		if format != "jpeg" {
			t.Errorf("format = %q, want jpeg", format)
		}
		if cfg.Width != 50 || cfg.Height != 25 {
			t.Errorf("size = %dx%d, want 50x25", cfg.Width, cfg.Height)
		}
	})

	t.Run("garbage fails", func(t *testing.T) {
		if _, err := svc.FitCover(ctx, []byte("not an image"), 640); err == nil {
			t.Error("FitCover() should fail on undecodable data")
		}
	})
}
