package showheat

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveFile_PNG(t *testing.T) {
	m, _ := NewMatrix([][]float64{
		{8.5, 7.9},
		{9.0, 6.1},
	})
	// Parent directories are created on demand
	path := filepath.Join(t.TempDir(), "figures", "show.png")

	if err := SaveFile(m, path, quietOpts(2, 2)); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 216 || img.Bounds().Dy() != 216 {
		t.Errorf("decoded size = %v, want 216x216", img.Bounds())
	}
}

func TestSaveFile_SVG(t *testing.T) {
	m, _ := NewMatrix([][]float64{{1, 2}})
	path := filepath.Join(t.TempDir(), "show.svg")

	if err := SaveFile(m, path, nil); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "<svg") {
		t.Error("output does not start with an svg element")
	}
}

func TestSaveFile_RenderError(t *testing.T) {
	if err := SaveFile(nil, filepath.Join(t.TempDir(), "x.png"), nil); err == nil {
		t.Error("expected error for nil matrix")
	}
}

func TestEncode_PNG(t *testing.T) {
	m, _ := NewMatrix([][]float64{{1, 2}})
	var buf bytes.Buffer

	if err := Encode(&buf, m, "png", quietOpts(1, 2)); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("output missing the PNG signature")
	}
}

func TestEncode_SVG(t *testing.T) {
	m, _ := NewMatrix([][]float64{{1, 2}})
	var buf bytes.Buffer

	if err := Encode(&buf, m, "svg", nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Error("output missing the svg element")
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	m, _ := NewMatrix([][]float64{{1}})
	err := Encode(&bytes.Buffer{}, m, "webp", nil)
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestRenderBatch(t *testing.T) {
	dir := t.TempDir()
	m1, _ := NewMatrix([][]float64{{1, 2}})
	m2, _ := NewMatrix([][]float64{{3, 4}})

	jobs := []RenderJob{
		{Matrix: m1, Path: filepath.Join(dir, "one.png"), Options: quietOpts(1, 2)},
		{Matrix: m2, Path: filepath.Join(dir, "two.png"), Options: quietOpts(1, 2)},
	}
	if err := RenderBatch(context.Background(), jobs); err != nil {
		t.Fatalf("RenderBatch: %v", err)
	}

	for _, job := range jobs {
		if _, err := os.Stat(job.Path); err != nil {
			t.Errorf("missing output %s: %v", job.Path, err)
		}
	}
}

func TestRenderBatch_FailedJob(t *testing.T) {
	dir := t.TempDir()
	m, _ := NewMatrix([][]float64{{1}})
	badPath := filepath.Join(dir, "bad.png")

	jobs := []RenderJob{
		{Matrix: m, Path: filepath.Join(dir, "good.png")},
		{Matrix: nil, Path: badPath},
	}
	err := RenderBatch(context.Background(), jobs)
	if err == nil {
		t.Fatal("expected error from the failing job")
	}
	if !strings.Contains(err.Error(), badPath) {
		t.Errorf("error %q does not name the failing output", err)
	}
}

func TestRenderBatch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, _ := NewMatrix([][]float64{{1}})
	jobs := []RenderJob{{Matrix: m, Path: filepath.Join(t.TempDir(), "x.png")}}
	if err := RenderBatch(ctx, jobs); err == nil {
		t.Error("expected error from canceled context")
	}
}
