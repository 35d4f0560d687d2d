package showheat

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// SaveFile renders the matrix and writes it to path. The format comes
// from the file extension: .png, .jpg, .gif, .tif, and .bmp encode the
// raster image; .svg writes vector output. Parent directories are
// created as needed.
func SaveFile(m *Matrix, path string, opts *Options) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	if strings.EqualFold(filepath.Ext(path), ".svg") {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create file: %w", err)
		}
		defer f.Close()
		return WriteSVG(f, m, opts)
	}

	img, err := Render(m, opts)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}

// Encode renders the matrix and writes it to w in the named format
// ("png", "jpeg", "svg", ...).
func Encode(w io.Writer, m *Matrix, format string, opts *Options) error {
	if strings.EqualFold(format, "svg") {
		return WriteSVG(w, m, opts)
	}
	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return NewConfigError("format", format, ErrUnknownFormat)
	}
	img, err := Render(m, opts)
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, f)
}
