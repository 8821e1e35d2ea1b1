package session

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapmark/internal/annotation"
	"snapmark/internal/editor"
	"snapmark/pkg/geometry"
)

func populatedSession(t *testing.T) *editor.Session {
	t.Helper()
	s := editor.NewSession()

	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	s.SetBaseImage(img)

	s.AddLayer(annotation.NewArrowLayer(annotation.LineData{
		Start: geometry.Point2D{X: 5, Y: 5},
		End:   geometry.Point2D{X: 30, Y: 20},
		Color: "#ff0000", Width: 3, Style: annotation.StyleSolid,
	}))
	s.AddLayer(annotation.NewTextLayer(annotation.TextData{
		Text: "note", Anchor: geometry.Point2D{X: 10, Y: 10},
		Color: "blue", Size: annotation.SizeSM,
	}))
	return s
}

func TestProjectRoundTrip(t *testing.T) {
	src := populatedSession(t)
	path := filepath.Join(t.TempDir(), "doc.snapmark")

	require.NoError(t, Save(path, src))
	assert.False(t, src.Modified())

	dst := editor.NewSession()
	require.NoError(t, Load(path, dst))

	assert.Equal(t, src.Canvas, dst.Canvas)
	require.Equal(t, 3, dst.Stack.Len())

	// Ids, order, and payloads survive exactly.
	for i := 0; i < 3; i++ {
		assert.Equal(t, src.Stack.Layer(i).ID, dst.Stack.Layer(i).ID)
		assert.Equal(t, src.Stack.Layer(i).Type, dst.Stack.Layer(i).Type)
	}
	assert.Equal(t, geometry.Point2D{X: 30, Y: 20}, dst.Stack.Layer(1).Line.End)
	assert.Equal(t, "note", dst.Stack.Layer(2).Text.Text)
	assert.False(t, dst.Modified())

	// The id counter resumes past the highest loaded id.
	added := dst.AddLayer(annotation.NewLineLayer(annotation.LineData{
		Start: geometry.Point2D{X: 1, Y: 1}, End: geometry.Point2D{X: 2, Y: 2},
		Color: "red", Width: 1, Style: annotation.StyleSolid,
	}))
	assert.Greater(t, added.ID, dst.Stack.Layer(2).ID)
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	s := editor.NewSession()
	err := Unmarshal([]byte(`{"version":99,"canvas":{"width":10,"height":10},"layers":[]}`), s)
	assert.Error(t, err)
}

func TestLoadRejectsDegenerateCanvas(t *testing.T) {
	s := editor.NewSession()
	err := Unmarshal([]byte(`{"version":1,"canvas":{"width":0,"height":10},"layers":[]}`), s)
	assert.Error(t, err)
}

func TestLoadRejectsGarbage(t *testing.T) {
	s := editor.NewSession()
	assert.Error(t, Unmarshal([]byte("{nope"), s))
	assert.Error(t, Load(filepath.Join(t.TempDir(), "missing.snapmark"), s))
}

func TestExportPNG(t *testing.T) {
	s := populatedSession(t)
	path := filepath.Join(t.TempDir(), "out.png")

	require.NoError(t, ExportPNG(path, s.Render()))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestExportPDF(t *testing.T) {
	s := populatedSession(t)
	path := filepath.Join(t.TempDir(), "out.pdf")

	require.NoError(t, ExportPDF(path, s.Render()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 4 && string(data[:4]) == "%PDF")
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, IsSupportedFormat("shot.png"))
	assert.True(t, IsSupportedFormat("SCAN.TIFF"))
	assert.True(t, IsSupportedFormat("photo.jpeg"))
	assert.False(t, IsSupportedFormat("doc.pdf"))
	assert.False(t, IsSupportedFormat("archive"))
}
