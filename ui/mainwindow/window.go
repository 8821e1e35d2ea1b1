// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"snapmark/internal/annotation"
	"snapmark/internal/editor"
	"snapmark/internal/session"
	"snapmark/internal/version"
	"snapmark/pkg/geometry"
	"snapmark/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir  = "lastDirectory"
	prefKeyAutosave = "autosaveEnabled"

	projectExt       = ".snapmark"
	autosaveInterval = 30 * time.Second
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	session   *editor.Session
	canvas    *canvas.EditorCanvas
	statusBar *widget.Label
	zoomLabel *widget.Label

	projectPath string
	autosaver   *session.Autosaver
	shiftHeld   bool
}

// New creates the main window for a session.
func New(fyneApp fyne.App, s *editor.Session) *MainWindow {
	win := fyneApp.NewWindow("Snapmark")

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: s,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()
	mw.setupAutosave()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewEditorCanvas(mw.session)
	mw.statusBar = widget.NewLabel("Ready")
	mw.zoomLabel = widget.NewLabel("100%")

	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.zoomLabel.SetText(fmt.Sprintf("%d%%", int(zoom*100+0.5)))
	})

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar,               // top
		nil,                   // bottom
		nil,                   // left
		nil,                   // right
		mw.canvas.Container(), // center
	)

	statusRow := container.NewBorder(nil, nil, nil, mw.zoomLabel, mw.statusBar)

	content := container.NewBorder(
		nil,                            // top
		container.NewPadded(statusRow), // bottom
		nil,                            // left
		nil,                            // right
		canvasArea,                     // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with layer and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewButton("Arrow", mw.onAddArrow),
		widget.NewButton("Line", mw.onAddLine),
		widget.NewButton("Text", mw.onAddText),
		widget.NewButton("Step", mw.onAddStep),
		widget.NewButton("Symbol", mw.onAddSymbol),
		widget.NewButton("Box", mw.onAddShape),
		widget.NewButton("Highlight", mw.onAddHighlight),
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.canvas.ZoomOut),
		widget.NewButton("+", mw.canvas.ZoomIn),
		widget.NewButton("Fit", mw.canvas.FitToWindow),
		widget.NewButton("1:1", func() { mw.canvas.SetZoom(1.0) }),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New", mw.onNew),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", mw.onExportPNG),
		fyne.NewMenuItem("Export PDF...", mw.onExportPDF),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Duplicate", mw.session.DuplicateSelected),
		fyne.NewMenuItem("Delete", mw.session.RemoveSelected),
	)

	layerMenu := fyne.NewMenu("Layer",
		fyne.NewMenuItem("Bring Forward", mw.session.BringForward),
		fyne.NewMenuItem("Send Backward", mw.session.SendBackward),
		fyne.NewMenuItem("Bring to Front", mw.session.BringToFront),
		fyne.NewMenuItem("Send to Back", mw.session.SendToBack),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Flatten Selected", mw.session.FlattenSelected),
		fyne.NewMenuItem("Flatten All", mw.session.FlattenAll),
	)

	imageMenu := fyne.NewMenu("Image",
		fyne.NewMenuItem("Resize Canvas...", mw.onResizeCanvas),
		fyne.NewMenuItem("Combine Image...", mw.onCombineImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Cut Strip...", mw.onCutStrip),
		fyne.NewMenuItem("Fade Edge...", mw.onFadeEdge),
		fyne.NewMenuItem("Fade Corner...", mw.onFadeCorner),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Fit to Window", mw.canvas.FitToWindow),
		fyne.NewMenuItem("Actual Size", func() { mw.canvas.SetZoom(1.0) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, layerMenu, imageMenu, viewMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupShortcuts wires keyboard handling: arrow-key nudge (10 px with
// Shift), delete, and the usual ctrl shortcuts.
func (mw *MainWindow) setupShortcuts() {
	// TypedKey events carry no modifier state, so Shift is tracked through
	// the desktop driver's raw key callbacks.
	if dc, ok := mw.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			if ev.Name == desktop.KeyShiftLeft || ev.Name == desktop.KeyShiftRight {
				mw.shiftHeld = true
			}
		})
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			if ev.Name == desktop.KeyShiftLeft || ev.Name == desktop.KeyShiftRight {
				mw.shiftHeld = false
			}
		})
	}

	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		step := 1.0
		if mw.shiftHeld {
			step = 10.0
		}
		switch ev.Name {
		case fyne.KeyUp:
			mw.session.Nudge(0, -step)
		case fyne.KeyDown:
			mw.session.Nudge(0, step)
		case fyne.KeyLeft:
			mw.session.Nudge(-step, 0)
		case fyne.KeyRight:
			mw.session.Nudge(step, 0)
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.session.RemoveSelected()
		case fyne.KeyEscape:
			mw.session.Selection.Clear()
		}
	})

	ctrl := func(key fyne.KeyName, action func()) {
		mw.Canvas().AddShortcut(&desktop.CustomShortcut{
			KeyName:  key,
			Modifier: fyne.KeyModifierShortcutDefault,
		}, func(fyne.Shortcut) { action() })
	}
	ctrl(fyne.KeyZ, mw.onUndo)
	ctrl(fyne.KeyY, mw.onRedo)
	ctrl(fyne.KeyS, mw.onSaveProject)
	ctrl(fyne.KeyD, mw.session.DuplicateSelected)
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(editor.EventNotice, func(data interface{}) {
		if n, ok := data.(editor.Notice); ok {
			mw.updateStatus(n.Message)
		}
	})

	mw.session.On(editor.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})

	mw.session.On(editor.EventCanvasResized, func(interface{}) {
		mw.updateStatus(fmt.Sprintf("Canvas %dx%d",
			mw.session.Canvas.Width, mw.session.Canvas.Height))
	})
}

// setupAutosave starts the recovery snapshot timer and prompts for a
// leftover snapshot from a previous run.
func (mw *MainWindow) setupAutosave() {
	dir := autosaveDir()
	if recovered := session.LatestSnapshot(dir); recovered != "" {
		dialog.ShowConfirm("Recover session",
			"An autosaved session from a previous run was found. Restore it?",
			func(ok bool) {
				if ok {
					data, err := os.ReadFile(recovered)
					if err == nil {
						err = session.Unmarshal(data, mw.session)
					}
					if err != nil {
						dialog.ShowError(err, mw.Window)
					}
				}
				os.Remove(recovered)
			}, mw.Window)
	}

	if !mw.app.Preferences().BoolWithFallback(prefKeyAutosave, true) {
		return
	}
	mw.autosaver = session.NewAutosaver(dir, autosaveInterval)
	mw.autosaver.Start()
	mw.SetOnClosed(mw.autosaver.Stop)

	// Serialize on the UI goroutine, once per committed command; the
	// autosaver's writer only ever sees the finished bytes.
	mw.session.On(editor.EventHistoryChanged, func(interface{}) { mw.pushAutosave() })
	mw.pushAutosave()
}

// pushAutosave snapshots the session and hands the bytes to the background
// writer.
func (mw *MainWindow) pushAutosave() {
	data, err := session.Marshal(mw.session)
	if err != nil {
		log.Printf("autosave snapshot: %v", err)
		return
	}
	mw.autosaver.Update(data)
}

func autosaveDir() string {
	cache, err := os.UserCacheDir()
	if err != nil {
		cache = os.TempDir()
	}
	return filepath.Join(cache, "snapmark", "autosave")
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// centerPoint returns the canvas midpoint, where new layers are placed.
func (mw *MainWindow) centerPoint() geometry.Point2D {
	return geometry.Point2D{
		X: float64(mw.session.Canvas.Width) / 2,
		Y: float64(mw.session.Canvas.Height) / 2,
	}
}

// Menu action handlers

func (mw *MainWindow) onNew() {
	mw.session.Reset(editor.DefaultCanvasWidth, editor.DefaultCanvasHeight)
	mw.projectPath = ""
	mw.SetTitle("Snapmark")
	mw.updateStatus("New session")
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := session.Load(path, mw.session); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.projectPath = path
		mw.SetTitle("Snapmark - " + filepath.Base(path))
		mw.updateStatus("Project loaded: " + path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{projectExt}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenImage() {
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
		mw.session.SetBaseImage(img)
		mw.projectPath = ""
		mw.SetTitle("Snapmark - " + filepath.Base(path))
		mw.updateStatus("Image loaded: " + path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(session.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveProject() {
	if mw.projectPath == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := session.Save(mw.projectPath, mw.session); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.SetTitle("Snapmark - " + filepath.Base(mw.projectPath))
	mw.updateStatus("Saved " + mw.projectPath)
}

func (mw *MainWindow) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != projectExt {
			path += projectExt
		}
		mw.saveLastDir(path)
		if err := session.Save(path, mw.session); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.projectPath = path
		mw.SetTitle("Snapmark - " + filepath.Base(path))
		mw.updateStatus("Saved " + path)
	}, mw.Window)
	fd.SetFileName("untitled" + projectExt)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportPNG() {
	mw.exportFlattened(".png", func(path string) error {
		return session.ExportPNG(path, mw.session.Render())
	})
}

func (mw *MainWindow) onExportPDF() {
	mw.exportFlattened(".pdf", func(path string) error {
		return session.ExportPDF(path, mw.session.Render())
	})
}

func (mw *MainWindow) exportFlattened(ext string, write func(string) error) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ext {
			path += ext
		}
		mw.saveLastDir(path)
		if err := write(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported " + path)
	}, mw.Window)
	fd.SetFileName("export" + ext)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onUndo() {
	mw.session.Undo()
}

func (mw *MainWindow) onRedo() {
	mw.session.Redo()
}

// Layer creation handlers. New layers land around the canvas center; the
// user drags them into place afterwards.

func (mw *MainWindow) onAddArrow() {
	c := mw.centerPoint()
	mw.session.AddLayer(annotation.NewArrowLayer(annotation.LineData{
		Start: geometry.Point2D{X: c.X - 60, Y: c.Y + 40},
		End:   geometry.Point2D{X: c.X + 60, Y: c.Y - 40},
		Color: "red",
		Width: 4,
		Style: annotation.StyleSolid,
	}))
}

func (mw *MainWindow) onAddLine() {
	c := mw.centerPoint()
	mw.session.AddLayer(annotation.NewLineLayer(annotation.LineData{
		Start: geometry.Point2D{X: c.X - 60, Y: c.Y},
		End:   geometry.Point2D{X: c.X + 60, Y: c.Y},
		Color: "red",
		Width: 4,
		Style: annotation.StyleSolid,
	}))
}

func (mw *MainWindow) onAddText() {
	entry := widget.NewMultiLineEntry()
	entry.SetPlaceHolder("Annotation text")
	dialog.ShowForm("Add Text", "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Text", entry)},
		func(ok bool) {
			if !ok || entry.Text == "" {
				return
			}
			mw.session.AddLayer(annotation.NewTextLayer(annotation.TextData{
				Text:   entry.Text,
				Anchor: mw.centerPoint(),
				Color:  "red",
				Size:   annotation.SizeMD,
			}))
		}, mw.Window)
}

func (mw *MainWindow) onAddStep() {
	mw.session.AddLayer(annotation.NewStepLayer(annotation.StepData{
		Glyph:  nextStepGlyph(mw.session.Stack),
		Anchor: mw.centerPoint(),
		Color:  "red",
		Size:   annotation.SizeMD,
	}))
}

func (mw *MainWindow) onAddSymbol() {
	mw.session.AddLayer(annotation.NewSymbolLayer(annotation.SymbolData{
		Glyph:  "⚠",
		Anchor: mw.centerPoint(),
		Size:   annotation.SizeMD,
	}))
}

func (mw *MainWindow) onAddShape() {
	c := mw.centerPoint()
	mw.session.AddLayer(annotation.NewShapeLayer(annotation.ShapeData{
		Rect:        geometry.Rect{X: c.X - 80, Y: c.Y - 50, Width: 160, Height: 100},
		BorderColor: "red",
		FillColor:   "transparent",
		BorderWidth: 3,
		Style:       annotation.StyleSolid,
		Corner:      annotation.CornerSquare,
	}))
}

func (mw *MainWindow) onAddHighlight() {
	c := mw.centerPoint()
	mw.session.AddLayer(annotation.NewHighlightLayer(annotation.HighlightData{
		Rect:  geometry.Rect{X: c.X - 80, Y: c.Y - 25, Width: 160, Height: 50},
		Color: "yellow",
	}))
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Snapmark",
		fmt.Sprintf("Snapmark v%s\n\n"+
			"A screenshot annotation and markup editor.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

// stepGlyphs are the circled digits cycled through by the step tool.
var stepGlyphs = []string{"①", "②", "③", "④", "⑤", "⑥", "⑦", "⑧", "⑨", "⑩"}

// nextStepGlyph picks the first circled digit not yet used by a step layer.
func nextStepGlyph(stack *annotation.Stack) string {
	used := map[string]bool{}
	for _, l := range stack.Layers() {
		if l.Type == annotation.TypeStep {
			used[l.Step.Glyph] = true
		}
	}
	for _, g := range stepGlyphs {
		if !used[g] {
			return g
		}
	}
	return stepGlyphs[len(stepGlyphs)-1]
}
