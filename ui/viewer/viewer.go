// Package viewer provides a desktop window that renders a point file and
// re-renders it whenever the file changes on disk.
package viewer

import (
	"fmt"
	"image"
	"log"
	"path/filepath"
	"sync"
	"time"

	"raster-points/internal/pipeline"
	"raster-points/internal/pointfile"
	"raster-points/internal/raster"
	"raster-points/internal/render"
	"raster-points/internal/version"
	"raster-points/internal/watch"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Viewer is the point file viewer window.
type Viewer struct {
	fyne.Window
	app       fyne.App
	pipe      *pipeline.Pipeline
	path      string
	image     *fynecanvas.Image
	statusBar *widget.Label
	watcher   *watch.Watcher

	// mu guards last and image.Image; Reload also runs on the watcher goroutine.
	mu   sync.Mutex
	last *render.Output
}

// New creates a viewer window for path. Call Reload to draw it.
func New(fyneApp fyne.App, pipe *pipeline.Pipeline, path string) *Viewer {
	win := fyneApp.NewWindow(fmt.Sprintf("Point Viewer %s - %s", version.Version, filepath.Base(path)))

	v := &Viewer{
		Window: win,
		app:    fyneApp,
		pipe:   pipe,
		path:   path,
	}
	v.setupUI()
	return v
}

func (v *Viewer) setupUI() {
	v.image = fynecanvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	v.image.FillMode = fynecanvas.ImageFillContain
	v.image.ScaleMode = fynecanvas.ImageScalePixels

	v.statusBar = widget.NewLabel("Ready")

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() { v.Reload() }),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), v.showExport),
	)

	content := container.NewBorder(
		toolbar,     // top
		v.statusBar, // bottom
		nil,         // left
		nil,         // right
		v.image,     // center
	)
	v.SetContent(content)
	v.Resize(fyne.NewSize(1200, 700))

	v.SetOnClosed(func() {
		if v.watcher != nil {
			v.watcher.Stop()
		}
	})
}

// Reload reads the point file, renders it and shows the result.
func (v *Viewer) Reload() error {
	pts, err := pointfile.ReadFile(v.path)
	if err != nil {
		v.setStatus(fmt.Sprintf("Error: %v", err))
		return err
	}
	out, err := v.pipe.RenderPoints(pts)
	if err != nil {
		v.setStatus(fmt.Sprintf("Error: %v", err))
		return err
	}

	v.mu.Lock()
	v.last = out
	v.image.Image = out.Image
	v.mu.Unlock()
	v.image.Refresh()

	if out.Empty {
		v.setStatus("No points")
	} else {
		v.setStatus(fmt.Sprintf("%d points, %d classes, %d painted, bounds %v (%s)",
			len(pts), len(out.Colors), out.Painted, out.Bounds, time.Now().Format("15:04:05")))
	}
	return nil
}

// Watch re-renders whenever the point file changes.
func (v *Viewer) Watch(interval time.Duration) {
	if v.watcher != nil {
		v.watcher.Stop()
	}
	v.watcher = watch.New(v.path, interval)
	v.watcher.OnChange(func() {
		log.Printf("Viewer: %s changed, reloading", v.path)
		if err := v.Reload(); err != nil {
			log.Printf("Viewer: reload failed: %v", err)
		}
	})
	v.watcher.Start()
}

// Status returns the status bar text.
func (v *Viewer) Status() string { return v.statusBar.Text }

// Output returns the last successful render, or nil.
func (v *Viewer) Output() *render.Output {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last
}

func (v *Viewer) setStatus(s string) {
	v.statusBar.SetText(s)
}

// showExport saves the current canvas as a PNG.
func (v *Viewer) showExport() {
	last := v.Output()
	if last == nil {
		dialog.ShowInformation("Export", "Nothing rendered yet.", v.Window)
		return
	}
	img := last.Image

	dlg := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, v.Window)
			return
		}
		if w == nil {
			return
		}
		defer w.Close()
		if err := raster.EncodePNG(w, img); err != nil {
			dialog.ShowError(err, v.Window)
			return
		}
		v.setStatus("Exported " + w.URI().Name())
	}, v.Window)

	base := filepath.Base(v.path)
	dlg.SetFileName(base[:len(base)-len(filepath.Ext(base))] + ".png")
	dlg.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	if dir, err := storage.ListerForURI(storage.NewFileURI(filepath.Dir(v.path))); err == nil {
		dlg.SetLocation(dir)
	}
	dlg.Show()
}
