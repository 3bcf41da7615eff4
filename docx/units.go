package docx

// EMU is an English Metric Unit, the drawing extent unit of the format:
// 914400 per inch.
type EMU int64

// Twips are twentieths of a point, used for page geometry.
type Twips int

const (
	emuPerInch = 914400
	emuPerCm   = 360000

	twipsPerPoint = 20
	// CSS reference pixel density used for px conversions.
	pixelsPerInch = 96
)

// EMUFromPixels converts a CSS pixel length at 96 dpi.
func EMUFromPixels(px int) EMU {
	return EMU(int64(px) * emuPerInch / pixelsPerInch)
}

// EMUFromInches converts inches.
func EMUFromInches(in float64) EMU {
	return EMU(in * emuPerInch)
}

// Inches returns the extent in inches.
func (e EMU) Inches() float64 {
	return float64(e) / emuPerInch
}

// TwipsFromCm converts centimeters to twips (1 cm = 1/2.54 in = 1440/2.54).
func TwipsFromCm(cm float64) Twips {
	return Twips(cm * 1440 / 2.54)
}

// TwipsFromPoints converts points to twips.
func TwipsFromPoints(pt float64) Twips {
	return Twips(pt * twipsPerPoint)
}

// halfPoints is the run-size unit of the format (w:sz).
func halfPoints(pt float64) int {
	return int(pt * 2)
}
