package convert

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"
)

const samplePage = `<html>
<head><style>.note { color: red; }</style></head>
<body>
<h1>Title</h1>
<p class="note">Some <b>bold</b> and <i>italic</i> text with a
<a href="https://example.com/">link</a>.</p>
<table border="1"><tr><th>k</th><th>v</th></tr><tr><td>a</td><td>1</td></tr></table>
<ul><li>one</li><li>two</li></ul>
</body>
</html>`

func TestConvert_ProducesPackage(t *testing.T) {
	conv := New(testCfg(), zaptest.NewLogger(t))
	out, err := conv.Convert(samplePage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty output")
	}
	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("output is not a zip package: %v", err)
	}
	names := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["word/document.xml"] || !names["[Content_Types].xml"] {
		t.Errorf("core parts missing: %v", names)
	}
}

func TestConvert_Deterministic(t *testing.T) {
	conv := New(testCfg(), zaptest.NewLogger(t))
	a, err := conv.Convert(samplePage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := conv.Convert(samplePage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same input must produce identical output")
	}
}

func TestConvert_EmptyInput(t *testing.T) {
	conv := New(testCfg(), zaptest.NewLogger(t))
	out, err := conv.Convert("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 {
		t.Error("empty input must still produce a valid package")
	}
}

func TestConvert_PanicBecomesConversionError(t *testing.T) {
	// a nil document configuration blows up inside the traversal setup
	conv := New(nil, zaptest.NewLogger(t))

	out, err := conv.Convert(samplePage)
	if out != nil {
		t.Error("no output buffer may escape a failed conversion")
	}
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("error is %T, want *ConversionError", err)
	}
	if convErr.Unwrap() == nil {
		t.Error("cause must be preserved")
	}
}

func TestConvert_FixZip(t *testing.T) {
	cfg := testCfg()
	cfg.FixZip = true
	conv := New(cfg, zaptest.NewLogger(t))

	out, err := conv.Convert(samplePage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := zip.NewReader(bytes.NewReader(out), int64(len(out))); err != nil {
		t.Fatalf("fixed output is not a zip package: %v", err)
	}
}
