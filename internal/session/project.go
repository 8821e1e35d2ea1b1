// Package session persists documents: versioned JSON project files with
// exact id and z-order round-trips, autosave snapshots, and PNG/PDF export.
package session

import (
	"encoding/json"
	"fmt"
	"os"

	"snapmark/internal/annotation"
	"snapmark/internal/editor"
	"snapmark/pkg/geometry"
)

// FormatVersion is the current project file version.
const FormatVersion = 1

// File is the JSON structure of a .snapmark project file.
type File struct {
	Version int                 `json:"version"`
	Canvas  geometry.SizeInt    `json:"canvas"`
	Layers  []*annotation.Layer `json:"layers"`
}

// Save writes the session's layers and canvas size to path.
func Save(path string, s *editor.Session) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	s.SetModified(false)
	return nil
}

// Marshal serializes the session without touching the file system.
func Marshal(s *editor.Session) ([]byte, error) {
	f := File{
		Version: FormatVersion,
		Canvas:  s.Canvas,
		Layers:  s.Stack.Layers(),
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize project: %w", err)
	}
	return data, nil
}

// Load reads a project file into the session, replacing its state. Layer
// ids and stack order are preserved exactly; the id counter resynchronizes
// to max(existing ids) + 1.
func Load(path string, s *editor.Session) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}
	return Unmarshal(data, s)
}

// Unmarshal restores session state from serialized project data.
func Unmarshal(data []byte, s *editor.Session) error {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse project: %w", err)
	}
	if f.Version > FormatVersion {
		return fmt.Errorf("project version %d is newer than supported %d", f.Version, FormatVersion)
	}
	if f.Canvas.Width < 1 || f.Canvas.Height < 1 {
		return fmt.Errorf("project has degenerate canvas %dx%d", f.Canvas.Width, f.Canvas.Height)
	}

	s.Reset(f.Canvas.Width, f.Canvas.Height)
	s.Stack.Replace(f.Layers)
	s.SetModified(false)
	s.Emit(editor.EventLayersChanged, nil)
	return nil
}
