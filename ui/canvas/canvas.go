// Package canvas provides the editor canvas widget: a zoomable raster view
// of the composited session with selection outlines and drag handles.
package canvas

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"snapmark/internal/editor"
	"snapmark/internal/render"
	"snapmark/internal/selection"
	"snapmark/pkg/geometry"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25

	handleSize = 7 // on-screen handle square, px
)

var (
	selectionColor = color.RGBA{R: 30, G: 136, B: 229, A: 255}
	handleFill     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// EditorCanvas displays the session and feeds pointer input to the
// selection engine. Screen coordinates divide by zoom on the way in; the
// zoom travels alongside so handle hit radii stay constant on screen.
type EditorCanvas struct {
	widget.BaseWidget

	session *editor.Session

	raster *fynecanvas.Raster
	zoom   float64

	// Cached composite, rebuilt on layer changes.
	composited *image.RGBA

	// Modifier state captured on mouse-down; Fyne move events carry none.
	mods selection.Modifiers

	scroll  *zoomScroll
	content *mouseContent
	imgSize fyne.Size

	onZoomChange func(zoom float64)
}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *EditorCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *EditorCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// mouseContent wraps the raster and translates mouse events into selection
// engine calls.
type mouseContent struct {
	widget.BaseWidget
	canvas *EditorCanvas
	raster *fynecanvas.Raster
}

func newMouseContent(ec *EditorCanvas, raster *fynecanvas.Raster) *mouseContent {
	mc := &mouseContent{canvas: ec, raster: raster}
	mc.ExtendBaseWidget(mc)
	return mc
}

func (mc *mouseContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(mc.raster)
}

func (mc *mouseContent) MinSize() fyne.Size {
	return mc.raster.MinSize()
}

// canvasPoint converts a widget-relative event position to canvas space.
func (mc *mouseContent) canvasPoint(pos fyne.Position) geometry.Point2D {
	return geometry.Point2D{
		X: float64(pos.X) / mc.canvas.zoom,
		Y: float64(pos.Y) / mc.canvas.zoom,
	}
}

// MouseDown implements desktop.Mouseable.
func (mc *mouseContent) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	mc.canvas.mods = selection.Modifiers{
		Multi: ev.Modifier&fyne.KeyModifierShortcutDefault != 0,
		Snap:  ev.Modifier&fyne.KeyModifierShift != 0,
	}
	mc.canvas.session.Selection.PointerDown(mc.canvasPoint(ev.Position), mc.canvas.zoom, mc.canvas.mods)
	mc.canvas.RefreshOverlay()
}

// MouseUp implements desktop.Mouseable.
func (mc *mouseContent) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	mc.canvas.session.Selection.PointerUp()
	mc.canvas.RefreshOverlay()
}

// MouseMoved implements desktop.Hoverable; it fires during button-down
// drags on the desktop driver.
func (mc *mouseContent) MouseMoved(ev *desktop.MouseEvent) {
	if mc.canvas.session.Selection.State() == selection.Idle {
		return
	}
	mc.canvas.session.Selection.PointerMove(mc.canvasPoint(ev.Position), mc.canvas.zoom, mc.canvas.mods)
}

// MouseIn implements desktop.Hoverable.
func (mc *mouseContent) MouseIn(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable.
func (mc *mouseContent) MouseOut() {}

// NewEditorCanvas creates the canvas for a session and subscribes to its
// change events.
func NewEditorCanvas(s *editor.Session) *EditorCanvas {
	ec := &EditorCanvas{
		session: s,
		zoom:    1.0,
		imgSize: fyne.NewSize(float32(s.Canvas.Width), float32(s.Canvas.Height)),
	}

	ec.raster = fynecanvas.NewRaster(ec.draw)
	ec.raster.ScaleMode = fynecanvas.ImageScalePixels
	ec.raster.SetMinSize(ec.imgSize)

	ec.content = newMouseContent(ec, ec.raster)
	ec.scroll = newZoomScroll(ec.content, ec)
	ec.ExtendBaseWidget(ec)

	s.On(editor.EventLayersChanged, func(interface{}) {
		ec.composited = nil
		ec.Refresh()
	})
	s.On(editor.EventSelectionChanged, func(interface{}) {
		ec.Refresh()
	})
	s.On(editor.EventCanvasResized, func(interface{}) {
		ec.updateContentSize()
	})

	ec.updateContentSize()
	return ec
}

// Container returns the canvas container for embedding in layouts.
func (ec *EditorCanvas) Container() fyne.CanvasObject {
	return ec.scroll
}

// Zoom returns the current zoom level.
func (ec *EditorCanvas) Zoom() float64 {
	return ec.zoom
}

// SetZoom sets the zoom level, clamped to the supported range.
func (ec *EditorCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	ec.zoom = zoom
	ec.updateContentSize()

	if ec.onZoomChange != nil {
		ec.onZoomChange(zoom)
	}
}

// ZoomIn increases the zoom level.
func (ec *EditorCanvas) ZoomIn() {
	ec.SetZoom(ec.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (ec *EditorCanvas) ZoomOut() {
	ec.SetZoom(ec.zoom / zoomStep)
}

// FitToWindow adjusts zoom so the whole canvas fits the viewport.
func (ec *EditorCanvas) FitToWindow() {
	viewSize := ec.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 ||
		ec.session.Canvas.Width == 0 || ec.session.Canvas.Height == 0 {
		return
	}
	zoomX := float64(viewSize.Width) / float64(ec.session.Canvas.Width)
	zoomY := float64(viewSize.Height) / float64(ec.session.Canvas.Height)
	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}
	ec.SetZoom(zoom * 0.95)
}

// OnZoomChange sets a callback for zoom changes.
func (ec *EditorCanvas) OnZoomChange(callback func(zoom float64)) {
	ec.onZoomChange = callback
}

// Refresh re-renders the canvas display.
func (ec *EditorCanvas) Refresh() {
	ec.raster.Refresh()
}

// RefreshOverlay redraws without recompositing layers.
func (ec *EditorCanvas) RefreshOverlay() {
	ec.raster.Refresh()
}

func (ec *EditorCanvas) updateContentSize() {
	width := float32(float64(ec.session.Canvas.Width) * ec.zoom)
	height := float32(float64(ec.session.Canvas.Height) * ec.zoom)
	ec.imgSize = fyne.NewSize(width, height)

	ec.raster.SetMinSize(ec.imgSize)
	ec.raster.Resize(ec.imgSize)
	if ec.content != nil {
		ec.content.Resize(ec.imgSize)
		ec.content.Refresh()
	}
	ec.raster.Refresh()
	if ec.scroll != nil {
		ec.scroll.Refresh()
	}
}

// draw is the raster drawing function: white background, zoom-scaled
// composite, then selection chrome in screen space.
func (ec *EditorCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
		output.Pix[i+1] = 255
		output.Pix[i+2] = 255
		output.Pix[i+3] = 255
	}

	if ec.composited == nil {
		ec.composited = ec.session.Render()
	}
	src := ec.composited
	srcBounds := src.Bounds()

	for y := 0; y < h; y++ {
		srcY := int(float64(y) / ec.zoom)
		if srcY >= srcBounds.Max.Y {
			continue
		}
		for x := 0; x < w; x++ {
			srcX := int(float64(x) / ec.zoom)
			if srcX >= srcBounds.Max.X {
				continue
			}
			c := src.RGBAAt(srcX, srcY)
			if c.A == 0 {
				continue
			}
			if c.A == 255 {
				output.SetRGBA(x, y, c)
				continue
			}
			// Un-premultiply against the white background.
			a := float64(c.A) / 255
			inv := 1 - a
			output.SetRGBA(x, y, color.RGBA{
				R: uint8(float64(c.R) + 255*inv),
				G: uint8(float64(c.G) + 255*inv),
				B: uint8(float64(c.B) + 255*inv),
				A: 255,
			})
		}
	}

	ec.drawSelectionChrome(output)
	return output
}

// drawSelectionChrome outlines selected layers and draws their handles.
func (ec *EditorCanvas) drawSelectionChrome(output *image.RGBA) {
	for _, i := range ec.session.Selection.Selected() {
		l := ec.session.Stack.Layer(i)
		if l == nil {
			continue
		}
		if l.IsLineLike() {
			ec.drawHandle(output, l.Line.Start)
			ec.drawHandle(output, l.Line.End)
			continue
		}
		b := render.LayerBounds(l)
		ec.drawOutline(output, b)
		if l.IsRectLike() {
			ec.drawHandle(output, b.TopLeft())
			ec.drawHandle(output, geometry.Point2D{X: b.X + b.Width, Y: b.Y})
			ec.drawHandle(output, b.BottomRight())
			ec.drawHandle(output, geometry.Point2D{X: b.X, Y: b.Y + b.Height})
		}
	}
}

// drawOutline draws a 1px dashed rectangle in screen space.
func (ec *EditorCanvas) drawOutline(output *image.RGBA, r geometry.Rect) {
	x1 := int(r.X * ec.zoom)
	y1 := int(r.Y * ec.zoom)
	x2 := int((r.X + r.Width) * ec.zoom)
	y2 := int((r.Y + r.Height) * ec.zoom)
	bounds := output.Bounds()

	set := func(x, y int) {
		if (x+y)%6 < 3 { // dash
			return
		}
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.SetRGBA(x, y, selectionColor)
		}
	}
	for x := x1; x <= x2; x++ {
		set(x, y1)
		set(x, y2)
	}
	for y := y1; y <= y2; y++ {
		set(x1, y)
		set(x2, y)
	}
}

// drawHandle draws a filled handle square at a canvas-space point. Handles
// are drawn at fixed screen size regardless of zoom.
func (ec *EditorCanvas) drawHandle(output *image.RGBA, p geometry.Point2D) {
	cx := int(p.X * ec.zoom)
	cy := int(p.Y * ec.zoom)
	bounds := output.Bounds()
	half := handleSize / 2

	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			x, y := cx+dx, cy+dy
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			if dx == -half || dx == half || dy == -half || dy == half {
				output.SetRGBA(x, y, selectionColor)
			} else {
				output.SetRGBA(x, y, handleFill)
			}
		}
	}
}

// CreateRenderer implements fyne.Widget.
func (ec *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ec.scroll)
}
