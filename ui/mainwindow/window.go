// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"mesh-retex/internal/app"
	"mesh-retex/internal/render"
	"mesh-retex/internal/session"
	"mesh-retex/internal/slot"
	"mesh-retex/internal/texture"
	"mesh-retex/internal/version"
	"mesh-retex/pkg/geometry"
	"mesh-retex/ui/prefs"
	"mesh-retex/ui/transformtool"
)

// toolCanvas is the fixed backing resolution of the transform canvas.
var toolCanvas = geometry.Size{Width: 900, Height: 700}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	slotList  *widget.List
	slots     []*slot.TextureSlot
	statusBar *widget.Label

	toolArea   *fyne.Container
	tool       *transformtool.Tool
	confirmBtn *widget.Button
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Mesh Retexturing Studio")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupEventHandlers()

	win.Resize(fyne.NewSize(
		float32(p.Float(prefs.KeyWindowWidth, 1200)),
		float32(p.Float(prefs.KeyWindowHeight, 800)),
	))
	return mw
}

func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel(fmt.Sprintf("mesh-retex %s", version.Version))

	mw.slotList = widget.NewList(
		func() int { return len(mw.slots) },
		func() fyne.CanvasObject {
			return widget.NewLabel("slot")
		},
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			s := mw.slots[i]
			obj.(*widget.Label).SetText(fmt.Sprintf("%s [%d] %s", s.OwnerName, s.BindingIndex, s.Kind))
		},
	)

	openBtn := widget.NewButton("Open Image...", mw.chooseImage)
	resetAllBtn := widget.NewButton("Reset All Slots", func() {
		n := mw.state.Registry.ResetAll()
		mw.setStatus(fmt.Sprintf("Reset %d slots to original textures", n))
	})

	mw.confirmBtn = widget.NewButton("Apply to Model", mw.confirm)
	mw.confirmBtn.Disable()
	cancelBtn := widget.NewButton("Cancel", mw.cancelSession)
	resetBtn := widget.NewButton("Reset Fit", func() {
		if mw.tool != nil {
			mw.tool.Session().Reset()
		}
	})

	mw.toolArea = container.NewStack(widget.NewLabel("Open an image to start retexturing"))

	side := container.NewBorder(
		container.NewVBox(openBtn, resetAllBtn),
		nil, nil, nil,
		mw.slotList,
	)
	toolBox := container.NewBorder(
		nil,
		container.NewHBox(mw.confirmBtn, resetBtn, cancelBtn),
		nil, nil,
		mw.toolArea,
	)

	split := container.NewHSplit(side, toolBox)
	split.SetOffset(0.25)

	mw.SetContent(container.NewBorder(nil, mw.statusBar, nil, nil, split))
}

func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventSlotsChanged, func(data interface{}) {
		slots, _ := data.([]*slot.TextureSlot)
		mw.slots = slots
		mw.slotList.Refresh()
	})

	mw.state.On(app.EventRedrawRequested, func(interface{}) {
		mw.Canvas().Refresh(mw.Canvas().Content())
	})

	mw.state.On(app.EventModelLoaded, func(data interface{}) {
		mw.setStatus(fmt.Sprintf("Model loaded, %d swappable slots",
			len(mw.state.Registry.SwappableSlots())))
	})
}

// chooseImage opens a file dialog and starts a transform session for the
// selected image.
func (mw *MainWindow) chooseImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		if !texture.IsSupportedFormat(path) {
			mw.setStatus(fmt.Sprintf("Unsupported image format: %s", filepath.Ext(path)))
			return
		}
		mw.prefs.SetString(prefs.KeyLastDirectory, filepath.Dir(path))
		mw.openSession(session.FileSource(path))
	}, mw.Window)

	if dir := mw.prefs.String(prefs.KeyLastDirectory, ""); dir != "" {
		if uri := storage.NewFileURI(dir); uri != nil {
			if lister, err := storage.ListerForURI(uri); err == nil {
				fd.SetLocation(lister)
			}
		}
	}
	fd.Show()
}

// openSession tears down any running session and opens the tool for src.
func (mw *MainWindow) openSession(src session.Source) {
	if mw.tool != nil {
		mw.tool.Session().Close()
	}

	exportWidth := mw.prefs.Int(prefs.KeyExportWidth, render.DefaultExportWidth)
	sess := session.Open(mw.state.Sessions, mw.state.Registry, &render.Renderer{},
		src, toolCanvas, exportWidth)

	mw.tool = transformtool.New(sess, toolCanvas)
	mw.toolArea.Objects = []fyne.CanvasObject{mw.tool}
	mw.toolArea.Refresh()

	mw.confirmBtn.Disable()
	sess.OnChange(func() {
		if sess.Ready() && !sess.Closed() {
			mw.confirmBtn.Enable()
		}
	})

	mw.setStatus(fmt.Sprintf("Editing %s", src.Key))
	mw.state.Emit(app.EventSessionOpened, src.Key)
}

func (mw *MainWindow) confirm() {
	if mw.tool == nil {
		return
	}
	sess := mw.tool.Session()
	applied, err := sess.Confirm()
	if err != nil {
		log.Printf("mainwindow: confirm: %v", err)
		mw.setStatus(fmt.Sprintf("Apply failed: %v", err))
		return
	}
	mw.state.SetModified(true)
	mw.state.Emit(app.EventTextureApplied, applied)
	mw.setStatus(fmt.Sprintf("Applied texture to %d slots", applied))
	mw.closeTool()
}

func (mw *MainWindow) cancelSession() {
	if mw.tool == nil {
		return
	}
	mw.tool.Session().Close()
	mw.setStatus("Session cancelled")
	mw.closeTool()
}

func (mw *MainWindow) closeTool() {
	mw.state.Emit(app.EventSessionClosed, nil)
	mw.tool = nil
	mw.confirmBtn.Disable()
	mw.toolArea.Objects = []fyne.CanvasObject{widget.NewLabel("Open an image to start retexturing")}
	mw.toolArea.Refresh()
}

func (mw *MainWindow) setStatus(msg string) {
	mw.statusBar.SetText(msg)
}

// SavePreferences persists window geometry and preferences to disk.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		log.Printf("mainwindow: save preferences: %v", err)
	}
}

// SavePreferencesIfChanged flushes preferences only when dirty.
func (mw *MainWindow) SavePreferencesIfChanged() {
	if err := mw.prefs.SaveIfDirty(); err != nil {
		log.Printf("mainwindow: save preferences: %v", err)
	}
}
