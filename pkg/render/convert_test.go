package render

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestConverterMissingBinary(t *testing.T) {
	c := Converter{Binary: "linkgraph-no-such-rsvg-convert"}
	if _, err := c.PDF(context.Background(), []byte(tinySVG)); !errors.Is(err, ErrNoConverter) {
		t.Errorf("PDF() error = %v, want ErrNoConverter", err)
	}
	if _, err := c.PNG(context.Background(), []byte(tinySVG), 2); !errors.Is(err, ErrNoConverter) {
		t.Errorf("PNG() error = %v, want ErrNoConverter", err)
	}
}

func TestConverterPNG(t *testing.T) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		t.Skip("rsvg-convert not installed")
	}
	png, err := ToPNG(context.Background(), []byte(tinySVG), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("output is not a PNG: % x", png[:min(len(png), 8)])
	}
}

func TestFormats(t *testing.T) {
	want := map[string]bool{FormatSVG: true, FormatPNG: true, FormatPDF: true, FormatDOT: true}
	got := Formats()
	if len(got) != len(want) {
		t.Fatalf("Formats() = %v", got)
	}
	for _, f := range got {
		if !want[f] {
			t.Errorf("unexpected format %q", f)
		}
	}
}
