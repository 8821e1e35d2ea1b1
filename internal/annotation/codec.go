package annotation

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
)

// layerJSON is the serialized form of a Layer: id, type discriminant, and
// the variant payload.
type layerJSON struct {
	ID   int             `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// imageJSON carries image layer payloads with the raster encoded as
// base64 PNG, so round-trips are lossless.
type imageJSON struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	PNG    string  `json:"png"`
}

// MarshalJSON implements json.Marshaler.
func (l *Layer) MarshalJSON() ([]byte, error) {
	var payload interface{}
	switch l.Type {
	case TypeImage:
		var buf bytes.Buffer
		if l.Image.Raster != nil {
			if err := png.Encode(&buf, l.Image.Raster); err != nil {
				return nil, fmt.Errorf("failed to encode image layer %d: %w", l.ID, err)
			}
		}
		payload = imageJSON{
			X:      l.Image.X,
			Y:      l.Image.Y,
			Width:  l.Image.Width,
			Height: l.Image.Height,
			PNG:    base64.StdEncoding.EncodeToString(buf.Bytes()),
		}
	case TypeArrow, TypeLine:
		payload = l.Line
	case TypeText:
		payload = l.Text
	case TypeStep:
		payload = l.Step
	case TypeSymbol:
		payload = l.Symbol
	case TypeShape:
		payload = l.Shape
	case TypeHighlight:
		payload = l.Highlight
	default:
		return nil, fmt.Errorf("unknown layer type %d", l.Type)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(layerJSON{ID: l.ID, Type: l.Type.String(), Data: data})
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Layer) UnmarshalJSON(data []byte) error {
	var raw layerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t, ok := ParseLayerType(raw.Type)
	if !ok {
		return fmt.Errorf("unknown layer type %q", raw.Type)
	}
	l.ID = raw.ID
	l.Type = t

	switch t {
	case TypeImage:
		var ij imageJSON
		if err := json.Unmarshal(raw.Data, &ij); err != nil {
			return err
		}
		d := &ImageData{X: ij.X, Y: ij.Y, Width: ij.Width, Height: ij.Height}
		if ij.PNG != "" {
			pix, err := base64.StdEncoding.DecodeString(ij.PNG)
			if err != nil {
				return fmt.Errorf("failed to decode image layer %d: %w", raw.ID, err)
			}
			img, err := png.Decode(bytes.NewReader(pix))
			if err != nil {
				return fmt.Errorf("failed to decode image layer %d: %w", raw.ID, err)
			}
			d.Raster = img
		}
		l.Image = d
	case TypeArrow, TypeLine:
		l.Line = &LineData{}
		return json.Unmarshal(raw.Data, l.Line)
	case TypeText:
		l.Text = &TextData{}
		return json.Unmarshal(raw.Data, l.Text)
	case TypeStep:
		l.Step = &StepData{}
		return json.Unmarshal(raw.Data, l.Step)
	case TypeSymbol:
		l.Symbol = &SymbolData{}
		return json.Unmarshal(raw.Data, l.Symbol)
	case TypeShape:
		l.Shape = &ShapeData{}
		return json.Unmarshal(raw.Data, l.Shape)
	case TypeHighlight:
		l.Highlight = &HighlightData{}
		return json.Unmarshal(raw.Data, l.Highlight)
	}
	return nil
}
