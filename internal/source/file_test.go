package source

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("hex"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDecodeBase64(t *testing.T) {
	raw := bytes.Repeat([]byte{0x00, 0x01, 0xfe, 0xff}, 40)
	enc := base64.StdEncoding.EncodeToString(raw)

	console := "================= CORE DUMP START =================\n" +
		enc[:60] + "\n" +
		"\n" +
		"  " + enc[60:120] + "  \r\n" +
		enc[120:] + "\n" +
		"================= CORE DUMP END =================\n"

	got, err := DecodeBase64([]byte(console))
	if err != nil {
		t.Fatalf("DecodeBase64 failed: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("decoded %d bytes, want %d", len(got), len(raw))
	}
}

func TestDecodeBase64_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
	}{
		{"bad line", "AAAA\nnot base64!\n", 2},
		{"only banners", "CORE DUMP START\n\nCORE DUMP END\n", 3},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBase64([]byte(tt.text))
			var berr *Base64Error
			if !errors.As(err, &berr) {
				t.Fatalf("expected *Base64Error, got %v", err)
			}
			if berr.Line != tt.line {
				t.Errorf("Line = %d, want %d", berr.Line, tt.line)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	container := []byte{0x18, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0xff, 0x10}
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"elf", []byte("\x7fELF\x01\x01\x01"), FormatELF},
		{"base64", []byte(base64.StdEncoding.EncodeToString(container) + "\n"), FormatB64},
		{"raw", container, FormatRaw},
		{"empty", nil, FormatRaw},
		{"blank", []byte("\n\n"), FormatRaw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.data); got != tt.want {
				t.Errorf("Detect = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	raw := []byte{0x18, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00}

	rawPath := filepath.Join(dir, "dump.bin")
	b64Path := filepath.Join(dir, "dump.txt")
	if err := os.WriteFile(rawPath, raw, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b64Path, []byte(base64.StdEncoding.EncodeToString(raw)), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		path       string
		format     Format
		wantFormat Format
	}{
		{"raw explicit", rawPath, FormatRaw, FormatRaw},
		{"raw auto", rawPath, FormatAuto, FormatRaw},
		{"b64 explicit", b64Path, FormatB64, FormatB64},
		{"b64 auto", b64Path, FormatAuto, FormatB64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, format, err := ReadFile(tt.path, tt.format)
			if err != nil {
				t.Fatalf("ReadFile failed: %v", err)
			}
			if format != tt.wantFormat {
				t.Errorf("format = %q, want %q", format, tt.wantFormat)
			}
			if !bytes.Equal(data, raw) {
				t.Errorf("data = % x, want % x", data, raw)
			}
		})
	}

	_, _, err := ReadFile(filepath.Join(dir, "missing"), FormatRaw)
	if err == nil || !strings.Contains(err.Error(), "failed to read core dump") {
		t.Errorf("expected read error, got %v", err)
	}
}
