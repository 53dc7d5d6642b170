package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
	FormatDOT = "dot"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT}
}

// ErrNoConverter is returned when rsvg-convert cannot be found.
var ErrNoConverter = errors.New("PNG and PDF output need rsvg-convert (brew install librsvg, apt install librsvg2-bin)")

// Converter rasterizes SVG documents with rsvg-convert.
type Converter struct {
	// Binary is the rsvg-convert executable. Empty searches PATH.
	Binary string
}

// PDF converts svg to a PDF document.
func (c Converter) PDF(ctx context.Context, svg []byte) ([]byte, error) {
	return c.run(ctx, svg, "-f", FormatPDF)
}

// PNG converts svg to a PNG image. scale multiplies the SVG's own size;
// values <= 0 mean 1.
func (c Converter) PNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return c.run(ctx, svg, "-f", FormatPNG, "-z", strconv.FormatFloat(scale, 'f', 2, 64))
}

func (c Converter) run(ctx context.Context, svg []byte, args ...string) ([]byte, error) {
	bin := c.Binary
	if bin == "" {
		bin = "rsvg-convert"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, ErrNoConverter
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("rsvg-convert: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("rsvg-convert: %w", err)
	}
	return stdout.Bytes(), nil
}

// ToPDF converts svg to PDF with the rsvg-convert found on PATH.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return Converter{}.PDF(ctx, svg)
}

// ToPNG converts svg to PNG at the given scale with the rsvg-convert found
// on PATH.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return Converter{}.PNG(ctx, svg, scale)
}
