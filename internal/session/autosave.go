package session

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Autosaver periodically writes session snapshots to a recovery directory.
// Each editor session gets one uuid-named file that is overwritten in
// place, so a crash leaves at most one snapshot per session behind.
//
// Serialization stays on the goroutine that owns the session: the owner
// hands finished bytes to Update, and the background timer only flushes the
// most recent bytes to disk. The writer never touches session state, so a
// tick can never observe a half-applied edit.
type Autosaver struct {
	dir      string
	interval time.Duration

	id   string
	stop chan struct{}

	mu      sync.Mutex
	pending []byte
	dirty   bool
}

// NewAutosaver creates an autosaver writing to dir every interval.
func NewAutosaver(dir string, interval time.Duration) *Autosaver {
	return &Autosaver{
		dir:      dir,
		interval: interval,
		id:       uuid.NewString(),
		stop:     make(chan struct{}),
	}
}

// Update replaces the pending snapshot bytes. It never blocks on disk; the
// next tick writes whatever was handed over most recently.
func (a *Autosaver) Update(data []byte) {
	a.mu.Lock()
	a.pending = data
	a.dirty = true
	a.mu.Unlock()
}

// Path returns this session's snapshot file path.
func (a *Autosaver) Path() string {
	return filepath.Join(a.dir, "autosave-"+a.id+".json")
}

// Start begins the autosave timer.
func (a *Autosaver) Start() {
	go func() {
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := a.writeOnce(); err != nil {
					log.Printf("autosave: %v", err)
				}
			case <-a.stop:
				return
			}
		}
	}()
}

// Stop halts the timer and removes this session's snapshot.
func (a *Autosaver) Stop() {
	close(a.stop)
	os.Remove(a.Path())
}

// writeOnce flushes the pending snapshot, if any changed since the last
// flush. A failed write stays dirty so the next tick retries.
func (a *Autosaver) writeOnce() (err error) {
	a.mu.Lock()
	data, dirty := a.pending, a.dirty
	a.dirty = false
	a.mu.Unlock()
	if !dirty {
		return nil
	}
	defer func() {
		if err != nil {
			a.mu.Lock()
			a.dirty = true
			a.mu.Unlock()
		}
	}()

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return fmt.Errorf("failed to create autosave dir: %w", err)
	}
	tmp := a.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write autosave: %w", err)
	}
	return os.Rename(tmp, a.Path())
}

// LatestSnapshot returns the newest autosave file in dir, or "" if none
// exists. Used for crash recovery on startup.
func LatestSnapshot(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var found []candidate
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{filepath.Join(dir, e.Name()), info.ModTime()})
	}
	if len(found) == 0 {
		return ""
	}
	sort.Slice(found, func(i, j int) bool { return found[i].mod.After(found[j].mod) })
	return found[0].path
}
