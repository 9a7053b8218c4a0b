package source

import (
	"bufio"
	"bytes"
	"debug/elf"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Format is the encoding of a core dump file.
type Format string

const (
	FormatRaw  Format = "raw"
	FormatB64  Format = "b64"
	FormatELF  Format = "elf"
	FormatAuto Format = "auto"
)

// Formats lists the values accepted by ParseFormat.
var Formats = []Format{FormatRaw, FormatB64, FormatELF, FormatAuto}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown core format %q (expected raw, b64, elf or auto)", s)
}

const bannerMarker = "CORE DUMP"

// ReadFile reads a core dump file. With FormatAuto the format is detected from the
// content. The returned format is never FormatAuto; for FormatB64 the returned
// bytes are already decoded.
func ReadFile(path string, format Format) ([]byte, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read core dump: %w", err)
	}
	return Decode(data, format)
}

// Decode interprets data according to format.
func Decode(data []byte, format Format) ([]byte, Format, error) {
	if format == FormatAuto {
		format = Detect(data)
	}
	switch format {
	case FormatRaw, FormatELF:
		return data, format, nil
	case FormatB64:
		decoded, err := DecodeBase64(data)
		if err != nil {
			return nil, "", err
		}
		return decoded, FormatB64, nil
	default:
		return nil, "", fmt.Errorf("unknown core format %q", format)
	}
}

// Detect guesses the format of data: ELF magic, then base64 console text, then raw.
func Detect(data []byte) Format {
	if bytes.HasPrefix(data, []byte(elf.ELFMAG)) {
		return FormatELF
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if _, err := DecodeBase64(data); err == nil {
			return FormatB64
		}
	}
	return FormatRaw
}

// DecodeBase64 decodes console output line by line. Blank lines and banner lines
// are skipped; every other line must be standard base64.
func DecodeBase64(data []byte) ([]byte, error) {
	var out []byte
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.Contains(text, bannerMarker) {
			continue
		}
		chunk, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, &Base64Error{Line: line, Err: err}
		}
		out = append(out, chunk...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan base64 text: %w", err)
	}
	if len(out) == 0 {
		return nil, &Base64Error{Line: line, Err: errors.New("no data")}
	}
	return out, nil
}
