// Package session persists the signed-in profile on the local machine.
//
// The file is the only session token: if it exists and parses, the user is
// signed in. Nothing in it is secret.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

// FileName is the pointer file inside the data directory.
const FileName = "avex_user.json"

// File is a profile pointer stored as JSON on disk.
type File struct {
	path string
}

// NewFile returns the pointer kept in dir.
func NewFile(dir string) *File {
	return &File{path: filepath.Join(dir, FileName)}
}

// Path returns the pointer's location.
func (f *File) Path() string {
	return f.path
}

// Load returns the stored profile, or nil when nobody is signed in.
// A corrupt file is treated as signed out.
func (f *File) Load() (*store.Profile, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", f.path, err)
	}

	var p store.Profile
	if err := json.Unmarshal(data, &p); err != nil || p.ID == "" {
		return nil, nil
	}
	return &p, nil
}

// Save writes the profile as the current session.
func (f *File) Save(p *store.Profile) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear signs out. Clearing an absent session is not an error.
func (f *File) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Current returns the store session for the stored profile; the zero Session when signed out.
func (f *File) Current() store.Session {
	p, err := f.Load()
	if err != nil || p == nil {
		return store.Session{}
	}
	return p.Session()
}
