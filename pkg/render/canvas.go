// pkg/render/canvas.go
package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// pdfDocumentDate is stamped as both creation and modification date so repeated runs are byte-identical
var pdfDocumentDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// FormatFromPath returns the output format implied by a file extension
func FormatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "pdf"
	}
	return ext
}

// newCanvas creates a backend canvas for the format
func newCanvas(format string, w, h vg.Length) (vg.CanvasWriterTo, error) {
	switch strings.ToLower(format) {
	case "pdf":
		fpdf.SetDefaultCatalogSort(true)
		fpdf.SetDefaultCreationDate(pdfDocumentDate)
		fpdf.SetDefaultModificationDate(pdfDocumentDate)
		return vgpdf.New(w, h), nil
	case "png":
		return vgimg.PngCanvas{Canvas: vgimg.New(w, h)}, nil
	case "svg":
		return vgsvg.New(w, h), nil
	default:
		return nil, fmt.Errorf("unsupported figure format %q", format)
	}
}
