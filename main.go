// Package main provides the entry point for the Snapmark annotation editor.
package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"snapmark/internal/editor"
	"snapmark/internal/session"
	"snapmark/internal/version"
	"snapmark/ui/mainwindow"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting Snapmark v%s", version.Version)

	fyneApp := app.NewWithID("io.snapmark.editor")

	s := editor.NewSession()
	win := mainwindow.New(fyneApp, s)
	win.Resize(fyne.NewSize(1100, 780))

	// A file argument opens either a project or an image.
	if len(os.Args) > 1 {
		path := os.Args[1]
		switch {
		case strings.EqualFold(filepath.Ext(path), ".snapmark"):
			if err := session.Load(path, s); err != nil {
				log.Printf("Failed to load project %s: %v", path, err)
			}
		case session.IsSupportedFormat(path):
			img, err := session.LoadImage(path)
			if err != nil {
				log.Printf("Failed to load image %s: %v", path, err)
			} else {
				s.SetBaseImage(img)
			}
		default:
			log.Printf("Unsupported file: %s", path)
		}
	}

	win.ShowAndRun()
}
