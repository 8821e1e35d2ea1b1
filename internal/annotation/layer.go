// Package annotation provides the layer model: a tagged union of drawable
// variants and the ordered, mutable stack that owns identity and z-order.
package annotation

import (
	"image"

	"snapmark/pkg/geometry"
)

// LayerType discriminates the layer variants.
type LayerType int

const (
	TypeImage LayerType = iota
	TypeArrow
	TypeLine
	TypeText
	TypeStep
	TypeSymbol
	TypeShape
	TypeHighlight

	numLayerTypes
)

// layerTypeNames is indexed by LayerType. The fixed array size ties the
// serialization names to the enum: adding a variant without extending this
// table (and the draw/hit-test switches keyed off it) fails to compile.
var layerTypeNames = [numLayerTypes]string{
	TypeImage:     "image",
	TypeArrow:     "arrow",
	TypeLine:      "line",
	TypeText:      "text",
	TypeStep:      "step",
	TypeSymbol:    "symbol",
	TypeShape:     "shape",
	TypeHighlight: "highlight",
}

func (t LayerType) String() string {
	if t < 0 || t >= numLayerTypes {
		return "unknown"
	}
	return layerTypeNames[t]
}

// ParseLayerType maps a serialized type name back to the enum.
func ParseLayerType(name string) (LayerType, bool) {
	for t, n := range layerTypeNames {
		if n == name {
			return LayerType(t), true
		}
	}
	return 0, false
}

// LineStyle selects the stroke pattern for lines, arrows, and shape borders.
type LineStyle string

const (
	StyleSolid  LineStyle = "solid"
	StyleDashed LineStyle = "dashed"
	StyleDotted LineStyle = "dotted"
)

// CornerStyle selects square or rounded shape corners.
type CornerStyle string

const (
	CornerSquare  CornerStyle = "square"
	CornerRounded CornerStyle = "rounded"
)

// SizeToken selects an entry in the font size/weight table.
type SizeToken string

const (
	SizeXS SizeToken = "xs"
	SizeSM SizeToken = "sm"
	SizeMD SizeToken = "md"
	SizeLG SizeToken = "lg"
)

// HighlightAlpha is the fixed opacity of highlight layers.
const HighlightAlpha = 0.30

// ImageData is the payload of an image layer. The raster handle is shared
// between duplicates rather than copied.
type ImageData struct {
	Raster image.Image
	X      float64
	Y      float64
	// Explicit display size; 0 means intrinsic raster size.
	Width  float64
	Height float64
}

// DisplaySize returns the effective width and height of the image layer.
func (d *ImageData) DisplaySize() (float64, float64) {
	w, h := d.Width, d.Height
	if w == 0 && d.Raster != nil {
		w = float64(d.Raster.Bounds().Dx())
	}
	if h == 0 && d.Raster != nil {
		h = float64(d.Raster.Bounds().Dy())
	}
	return w, h
}

// Bounds returns the display rectangle of the image layer.
func (d *ImageData) Bounds() geometry.Rect {
	w, h := d.DisplaySize()
	return geometry.Rect{X: d.X, Y: d.Y, Width: w, Height: h}
}

// LineData is the payload of arrow and line layers.
type LineData struct {
	Start geometry.Point2D `json:"start"`
	End   geometry.Point2D `json:"end"`
	Color string           `json:"color"`
	Width float64          `json:"width"`
	Style LineStyle        `json:"style"`
}

// TextData is the payload of a text layer. Text may contain newlines.
type TextData struct {
	Text   string           `json:"text"`
	Anchor geometry.Point2D `json:"anchor"`
	Color  string           `json:"color"`
	Size   SizeToken        `json:"size"`
}

// StepData is the payload of a numbered-step layer.
type StepData struct {
	Glyph  string           `json:"glyph"`
	Anchor geometry.Point2D `json:"anchor"`
	Color  string           `json:"color"`
	Size   SizeToken        `json:"size"`
}

// SymbolData is the payload of a symbol layer. Symbols render with the
// glyph's native color, so the payload carries none.
type SymbolData struct {
	Glyph  string           `json:"glyph"`
	Anchor geometry.Point2D `json:"anchor"`
	Size   SizeToken        `json:"size"`
}

// ShapeData is the payload of a rectangle shape layer. FillColor may be the
// colorutil.Transparent sentinel.
type ShapeData struct {
	Rect        geometry.Rect `json:"rect"`
	BorderColor string        `json:"border_color"`
	FillColor   string        `json:"fill_color"`
	BorderWidth float64       `json:"border_width"`
	Style       LineStyle     `json:"style"`
	Corner      CornerStyle   `json:"corner"`
}

// HighlightData is the payload of a highlight layer, rendered at the fixed
// HighlightAlpha opacity.
type HighlightData struct {
	Rect  geometry.Rect `json:"rect"`
	Color string        `json:"color"`
}

// Layer is one entry in the annotation stack: a tagged union whose payload
// pointer matches Type. Exactly one payload field is non-nil.
type Layer struct {
	ID   int
	Type LayerType

	Image     *ImageData
	Line      *LineData
	Text      *TextData
	Step      *StepData
	Symbol    *SymbolData
	Shape     *ShapeData
	Highlight *HighlightData
}

// NewImageLayer creates an image layer at the given position.
func NewImageLayer(img image.Image, x, y float64) *Layer {
	return &Layer{Type: TypeImage, Image: &ImageData{Raster: img, X: x, Y: y}}
}

// NewArrowLayer creates an arrow layer.
func NewArrowLayer(data LineData) *Layer {
	return &Layer{Type: TypeArrow, Line: &data}
}

// NewLineLayer creates a line layer.
func NewLineLayer(data LineData) *Layer {
	return &Layer{Type: TypeLine, Line: &data}
}

// NewTextLayer creates a text layer.
func NewTextLayer(data TextData) *Layer {
	return &Layer{Type: TypeText, Text: &data}
}

// NewStepLayer creates a numbered-step layer.
func NewStepLayer(data StepData) *Layer {
	return &Layer{Type: TypeStep, Step: &data}
}

// NewSymbolLayer creates a symbol layer.
func NewSymbolLayer(data SymbolData) *Layer {
	return &Layer{Type: TypeSymbol, Symbol: &data}
}

// NewShapeLayer creates a rectangle shape layer.
func NewShapeLayer(data ShapeData) *Layer {
	return &Layer{Type: TypeShape, Shape: &data}
}

// NewHighlightLayer creates a highlight layer.
func NewHighlightLayer(data HighlightData) *Layer {
	return &Layer{Type: TypeHighlight, Highlight: &data}
}

// Clone returns a deep copy of the layer. Image raster handles are shared,
// matching duplicate semantics: pixels are immutable once loaded.
func (l *Layer) Clone() *Layer {
	c := &Layer{ID: l.ID, Type: l.Type}
	switch l.Type {
	case TypeImage:
		d := *l.Image
		c.Image = &d
	case TypeArrow, TypeLine:
		d := *l.Line
		c.Line = &d
	case TypeText:
		d := *l.Text
		c.Text = &d
	case TypeStep:
		d := *l.Step
		c.Step = &d
	case TypeSymbol:
		d := *l.Symbol
		c.Symbol = &d
	case TypeShape:
		d := *l.Shape
		c.Shape = &d
	case TypeHighlight:
		d := *l.Highlight
		c.Highlight = &d
	}
	return c
}

// Translate shifts every positional field of the layer by (dx, dy).
func (l *Layer) Translate(dx, dy float64) {
	switch l.Type {
	case TypeImage:
		l.Image.X += dx
		l.Image.Y += dy
	case TypeArrow, TypeLine:
		l.Line.Start.X += dx
		l.Line.Start.Y += dy
		l.Line.End.X += dx
		l.Line.End.Y += dy
	case TypeText:
		l.Text.Anchor.X += dx
		l.Text.Anchor.Y += dy
	case TypeStep:
		l.Step.Anchor.X += dx
		l.Step.Anchor.Y += dy
	case TypeSymbol:
		l.Symbol.Anchor.X += dx
		l.Symbol.Anchor.Y += dy
	case TypeShape:
		l.Shape.Rect.X += dx
		l.Shape.Rect.Y += dy
	case TypeHighlight:
		l.Highlight.Rect.X += dx
		l.Highlight.Rect.Y += dy
	}
}

// Position returns the layer's primary positional field.
func (l *Layer) Position() geometry.Point2D {
	switch l.Type {
	case TypeImage:
		return geometry.Point2D{X: l.Image.X, Y: l.Image.Y}
	case TypeArrow, TypeLine:
		return l.Line.Start
	case TypeText:
		return l.Text.Anchor
	case TypeStep:
		return l.Step.Anchor
	case TypeSymbol:
		return l.Symbol.Anchor
	case TypeShape:
		return geometry.Point2D{X: l.Shape.Rect.X, Y: l.Shape.Rect.Y}
	case TypeHighlight:
		return geometry.Point2D{X: l.Highlight.Rect.X, Y: l.Highlight.Rect.Y}
	}
	return geometry.Point2D{}
}

// IsLineLike reports whether the layer has draggable endpoints.
func (l *Layer) IsLineLike() bool {
	return l.Type == TypeArrow || l.Type == TypeLine
}

// IsRectLike reports whether the layer has draggable corner handles.
func (l *Layer) IsRectLike() bool {
	return l.Type == TypeShape || l.Type == TypeHighlight
}
