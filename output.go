package img2irc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// WriteText writes rendered text followed by a newline, the same bytes
// printed to a terminal. A ".zst" extension compresses the file with
// zstd.
func WriteText(path, text string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	var w io.Writer = f
	var enc *zstd.Encoder
	if strings.EqualFold(filepath.Ext(path), ".zst") {
		enc, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		w = enc
	}

	if _, err := io.WriteString(w, text+"\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			f.Close()
			return fmt.Errorf("failed to finish zstd stream: %w", err)
		}
	}
	return f.Close()
}

// ReadText reads a file written by WriteText, decompressing ".zst"
// files.
func ReadText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open output: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.EqualFold(filepath.Ext(path), ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return "", fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read output: %w", err)
	}
	return string(data), nil
}
