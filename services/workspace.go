package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Workspace is the temporary directory owned by a single conversion
// request. Every artifact of the request lives inside it, and the request
// is the only thing allowed to delete it.
type Workspace struct {
	dir     string
	cleanup sync.Once
}

// NewWorkspace creates a uniquely named directory under root. Concurrent
// requests never collide: each workspace gets its own uuid.
func NewWorkspace(root string) (*Workspace, error) {
	dir := filepath.Join(root, uuid.New().String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path returns the path for a named artifact inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Cleanup removes the workspace and everything in it. It is safe to call
// more than once and never fails the request: a leftover directory is
// logged, not surfaced.
func (w *Workspace) Cleanup() {
	w.cleanup.Do(func() {
		if err := os.RemoveAll(w.dir); err != nil {
			log.Printf("Warning: could not remove workspace %s: %v", w.dir, err)
		}
	})
}

// SweepTempRoot removes stale request directories left under root by a
// previous run. Called once at startup, before any request is served.
func SweepTempRoot(root string) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: could not sweep temp root %s: %v", root, err)
		}
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		stale := filepath.Join(root, entry.Name())
		if err := os.RemoveAll(stale); err != nil {
			log.Printf("Warning: could not remove stale workspace %s: %v", stale, err)
		}
	}
}
