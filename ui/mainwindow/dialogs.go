package mainwindow

import (
	"strconv"

	"snapmark/internal/editor"
	"snapmark/internal/raster"
	"snapmark/internal/session"
	"snapmark/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

var anchorNames = []string{
	"Top Left", "Top", "Top Right",
	"Left", "Center", "Right",
	"Bottom Left", "Bottom", "Bottom Right",
}

var edgeNames = []string{"top", "bottom", "left", "right"}

func edgeByName(name string) raster.Edge {
	switch name {
	case "bottom":
		return raster.EdgeBottom
	case "left":
		return raster.EdgeLeft
	case "right":
		return raster.EdgeRight
	}
	return raster.EdgeTop
}

// intEntry is a numeric text entry with a fallback default.
func intEntry(value int) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.Itoa(value))
	return e
}

func entryInt(e *widget.Entry, fallback int) int {
	v, err := strconv.Atoi(e.Text)
	if err != nil {
		return fallback
	}
	return v
}

func (mw *MainWindow) onResizeCanvas() {
	width := intEntry(mw.session.Canvas.Width)
	height := intEntry(mw.session.Canvas.Height)
	anchor := widget.NewSelect(anchorNames, nil)
	anchor.SetSelectedIndex(int(editor.AnchorTopLeft))

	dialog.ShowForm("Resize Canvas", "Resize", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Width", width),
			widget.NewFormItem("Height", height),
			widget.NewFormItem("Anchor", anchor),
		},
		func(ok bool) {
			if !ok {
				return
			}
			mw.session.ResizeCanvas(
				entryInt(width, mw.session.Canvas.Width),
				entryInt(height, mw.session.Canvas.Height),
				editor.Anchor(anchor.SelectedIndex()),
			)
		}, mw.Window)
}

func (mw *MainWindow) onCombineImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		img, err := session.LoadImage(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.askCombinePosition(func(pos geometry.PointInt) {
			mw.session.Combine(img, pos)
			mw.updateStatus("Image combined; nudge into place, then Flatten All")
		})
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(session.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) askCombinePosition(apply func(geometry.PointInt)) {
	// Default placement: flush right of the current canvas.
	x := intEntry(mw.session.Canvas.Width)
	y := intEntry(0)

	dialog.ShowForm("Combine Image", "Place", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("X", x),
			widget.NewFormItem("Y", y),
		},
		func(ok bool) {
			if !ok {
				return
			}
			apply(geometry.PointInt{
				X: entryInt(x, mw.session.Canvas.Width),
				Y: entryInt(y, 0),
			})
		}, mw.Window)
}

func (mw *MainWindow) onCutStrip() {
	axis := widget.NewSelect([]string{"horizontal", "vertical"}, nil)
	axis.SetSelectedIndex(0)
	start := intEntry(mw.session.Canvas.Height / 3)
	end := intEntry(mw.session.Canvas.Height * 2 / 3)
	fade := widget.NewCheck("Cross-fade the seam", nil)
	fade.SetChecked(true)
	fadeWidth := intEntry(20)

	dialog.ShowForm("Cut Strip", "Cut", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Axis", axis),
			widget.NewFormItem("Start", start),
			widget.NewFormItem("End", end),
			widget.NewFormItem("", fade),
			widget.NewFormItem("Fade width", fadeWidth),
		},
		func(ok bool) {
			if !ok {
				return
			}
			a := raster.Horizontal
			if axis.SelectedIndex() == 1 {
				a = raster.Vertical
			}
			mw.session.Cut(a, entryInt(start, 0), entryInt(end, 0),
				fade.Checked, entryInt(fadeWidth, 20))
		}, mw.Window)
}

func (mw *MainWindow) onFadeEdge() {
	edge := widget.NewSelect(edgeNames, nil)
	edge.SetSelectedIndex(0)
	width := intEntry(raster.MinFadeWidth * 3)

	dialog.ShowForm("Fade Edge", "Fade", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Edge", edge),
			widget.NewFormItem("Width", width),
		},
		func(ok bool) {
			if !ok {
				return
			}
			mw.session.FadeEdge(edgeByName(edge.Selected), entryInt(width, raster.MinFadeWidth))
		}, mw.Window)
}

func (mw *MainWindow) onFadeCorner() {
	edgeA := widget.NewSelect(edgeNames, nil)
	edgeA.SetSelectedIndex(0)
	edgeB := widget.NewSelect(edgeNames, nil)
	edgeB.SetSelectedIndex(2)
	distance := intEntry(raster.MinFadeWidth * 3)

	dialog.ShowForm("Fade Corner", "Fade", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Edge A", edgeA),
			widget.NewFormItem("Edge B", edgeB),
			widget.NewFormItem("Distance", distance),
		},
		func(ok bool) {
			if !ok {
				return
			}
			mw.session.FadeCorner(raster.CornerFadeParams{
				EdgeA:    edgeByName(edgeA.Selected),
				EdgeB:    edgeByName(edgeB.Selected),
				Distance: float64(entryInt(distance, raster.MinFadeWidth)),
			})
		}, mw.Window)
}
