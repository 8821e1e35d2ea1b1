package render

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"snapmark/internal/annotation"
	"snapmark/pkg/geometry"
)

// Size tokens map to integer scale factors over the 7x13 base face. Glyphs
// are rasterized at scale 1 and blown up with nearest-neighbor so they stay
// crisp at any zoom.
var sizeScales = map[annotation.SizeToken]int{
	annotation.SizeXS: 1,
	annotation.SizeSM: 2,
	annotation.SizeMD: 3,
	annotation.SizeLG: 4,
}

const (
	baseLineHeight = 13
	baseAscent     = 11
)

func sizeScale(tok annotation.SizeToken) int {
	if s, ok := sizeScales[tok]; ok {
		return s
	}
	return sizeScales[annotation.SizeMD]
}

// MeasureText returns the pixel size of a (possibly multi-line) string at
// the given size token. Hit-testing uses the same metrics as rendering.
func MeasureText(text string, tok annotation.SizeToken) geometry.Size {
	scale := sizeScale(tok)
	face := basicfont.Face7x13

	var maxWidth fixed.Int26_6
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if w := font.MeasureString(face, line); w > maxWidth {
			maxWidth = w
		}
	}

	return geometry.Size{
		Width:  float64(maxWidth.Ceil() * scale),
		Height: float64(len(lines) * baseLineHeight * scale),
	}
}

// drawString rasterizes text at scale 1 into a temporary buffer and blits
// it scaled to (x, y), the top-left of the text block.
func drawString(dst *image.RGBA, text string, x, y float64, col color.RGBA, tok annotation.SizeToken) {
	size := MeasureText(text, tok)
	if size.Width == 0 || size.Height == 0 {
		return
	}
	scale := sizeScale(tok)
	face := basicfont.Face7x13

	tmpW := int(size.Width) / scale
	tmpH := int(size.Height) / scale
	tmp := image.NewRGBA(image.Rect(0, 0, tmpW, tmpH))

	drawer := &font.Drawer{
		Dst:  tmp,
		Src:  image.NewUniform(col),
		Face: face,
	}
	for i, line := range strings.Split(text, "\n") {
		drawer.Dot = fixed.P(0, i*baseLineHeight+baseAscent)
		drawer.DrawString(line)
	}

	dstRect := image.Rect(int(x), int(y), int(x)+tmpW*scale, int(y)+tmpH*scale)
	draw.NearestNeighbor.Scale(dst, dstRect, tmp, tmp.Bounds(), draw.Over, nil)
}

// stepDigit maps a circled-digit glyph to the plain digits drawn inside the
// step badge. Unknown glyphs pass through unchanged.
func stepDigit(glyph string) string {
	runes := []rune(glyph)
	if len(runes) != 1 {
		return glyph
	}
	r := runes[0]
	switch {
	case r >= '①' && r <= '⑨':
		return string(rune('1' + (r - '①')))
	case r == '⑩':
		return "10"
	case r >= '⑪' && r <= '⑲':
		return "1" + string(rune('1'+(r-'⑪')))
	case r == '⑳':
		return "20"
	}
	return glyph
}

// symbolFallbacks maps symbol glyphs to an ASCII rendering and the glyph's
// conventional color. The base face has no emoji coverage, so symbols render
// as colored fallback text; unknown glyphs draw as-is in black.
var symbolFallbacks = map[string]struct {
	text  string
	color color.RGBA
}{
	"⚠": {"/!\\", color.RGBA{R: 251, G: 140, B: 0, A: 255}},
	"✓": {"ok", color.RGBA{R: 67, G: 160, B: 71, A: 255}},
	"✗": {"x", color.RGBA{R: 229, G: 57, B: 53, A: 255}},
	"★": {"*", color.RGBA{R: 253, G: 216, B: 53, A: 255}},
	"♥": {"<3", color.RGBA{R: 229, G: 57, B: 53, A: 255}},
	"→": {"->", color.RGBA{R: 0, G: 0, B: 0, A: 255}},
	"?": {"?", color.RGBA{R: 30, G: 136, B: 229, A: 255}},
}

func symbolAppearance(glyph string) (string, color.RGBA) {
	if fb, ok := symbolFallbacks[glyph]; ok {
		return fb.text, fb.color
	}
	return glyph, color.RGBA{A: 255}
}
