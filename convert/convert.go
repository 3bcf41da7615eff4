// Package convert implements the markup-to-document transformation engine:
// style resolution, block and inline traversal, table classification, image
// embedding and final package assembly.
package convert

import (
	"fmt"

	"go.uber.org/zap"

	"hdc/config"
	"hdc/css"
	"hdc/docx"
	"hdc/htmldoc"
)

// ConversionError is the single failure kind surfaced from a conversion.
// Recoverable conditions (bad image payloads, unsupported selectors and the
// like) degrade the output instead; anything that escapes those points ends
// up here and no output buffer is produced.
type ConversionError struct {
	cause error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed: %v", e.cause)
}

func (e *ConversionError) Unwrap() error {
	return e.cause
}

// Converter transforms markup text into document packages. It is stateless
// and safe for concurrent use: everything a single conversion needs is
// created per call and threaded through the traversal.
type Converter struct {
	cfg *config.DocumentConfig
	log *zap.Logger
}

// New creates a converter with the given document configuration.
func New(cfg *config.DocumentConfig, log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{cfg: cfg, log: log.Named("convert")}
}

// Convert transforms decoded markup text into a complete document package.
// On failure it returns a *ConversionError and no buffer.
func (c *Converter) Convert(content string) (out []byte, err error) {
	// Anything unexpected inside the traversal surfaces as a single
	// conversion failure instead of taking the process down.
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Panic during conversion", zap.Any("cause", r), zap.Stack("stack"))
			out = nil
			err = &ConversionError{cause: fmt.Errorf("internal error: %v", r)}
		}
	}()

	tree, err := htmldoc.Parse(content)
	if err != nil {
		return nil, &ConversionError{cause: err}
	}

	// All style rules are in place before any node is converted.
	rules := css.NewParser(c.log).Parse(tree.StyleText)
	if len(rules.Skipped) > 0 {
		c.log.Debug("Ignored unsupported selectors", zap.Strings("selectors", rules.Skipped))
	}

	doc := docx.New()
	doc.Defaults = docx.DocDefaults{
		FontFamily:  c.cfg.FontFamily,
		FontSizePt:  c.cfg.FontSizePt,
		LineSpacing: c.cfg.LineSpacing,
	}
	if c.cfg.PageMarginCm > 0 {
		m := docx.TwipsFromCm(c.cfg.PageMarginCm)
		doc.Margins = &docx.PageMargins{Top: m, Right: m, Bottom: m, Left: m}
	}

	w := &walker{doc: doc, rules: rules, cfg: c.cfg, log: c.log}
	w.walkContainer(doc, tree.Body())

	data, err := doc.Bytes()
	if err != nil {
		return nil, &ConversionError{cause: err}
	}
	if c.cfg.FixZip {
		if data, err = docx.StripDataDescriptors(data); err != nil {
			return nil, &ConversionError{cause: err}
		}
	}
	return data, nil
}
