package imageutil

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func TestLoadSaveImage(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	img := CreateColorBarsImage(64, 64)

	pngPath := filepath.Join(tmpDir, "test.png")
	if err := SavePNG(img, pngPath); err != nil {
		t.Fatalf("Failed to save PNG: %v", err)
	}

	loaded, err := LoadImage(pngPath)
	if err != nil {
		t.Fatalf("Failed to load PNG: %v", err)
	}

	// PNG should be lossless
	if mse := CalculateMSE(img, loaded); mse > 0.01 {
		t.Errorf("PNG should be lossless, MSE=%f", mse)
	}
}

func TestLoadImageMissing(t *testing.T) {
	t.Parallel()
	_, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"))
	if err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}

func TestDecodeGarbage(t *testing.T) {
	t.Parallel()
	if _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Fatal("Expected a decode error")
	}
}

func TestOpenURL(t *testing.T) {
	t.Parallel()
	img := CreateCheckerboardImage(8, 8, 2)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/img.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	got, err := Open(context.Background(), srv.URL+"/img.png")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if mse := CalculateMSE(img, got); mse != 0 {
		t.Errorf("Fetched image differs, MSE=%f", mse)
	}

	if _, err := Open(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("Expected an error for a 404 response")
	}
}

func TestOpenPath(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "local.png")
	img := CreateSolidImage(3, 3, RGB{1, 2, 3})
	if err := SavePNG(img, path); err != nil {
		t.Fatalf("Failed to save PNG: %v", err)
	}
	got, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got.GetRGB(2, 2) != (RGB{1, 2, 3}) {
		t.Errorf("Expected {1 2 3}, got %v", got.GetRGB(2, 2))
	}
}
