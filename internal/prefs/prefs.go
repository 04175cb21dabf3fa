// Package prefs persists display preferences across sessions as a small
// TOML file under the user's config directory.
package prefs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// Display-mode values for ShowIDOrName.
const (
	ModeID   = "id"
	ModeName = "name"
)

// Preferences holds the persisted display settings. The TOML keys are the
// fixed identifiers the settings have always been stored under.
type Preferences struct {
	ShowUnlisted bool   `toml:"showUnlisted"`
	ShowIDOrName string `toml:"showIdorName"`
}

// Defaults returns the preferences used when nothing has been persisted yet.
func Defaults() Preferences {
	return Preferences{
		ShowUnlisted: true,
		ShowIDOrName: ModeID,
	}
}

// Store reads and writes Preferences at a fixed path.
type Store struct {
	path  string
	prefs Preferences
}

// DefaultPath returns the preference file location under the user config
// directory, e.g. ~/.config/modelboard/prefs.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "modelboard", "prefs.toml"), nil
}

// Open loads the store at path. A missing file is not an error; defaults
// apply until the first Save.
func Open(path string) (*Store, error) {
	s := &Store{path: path, prefs: Defaults()}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	p := Defaults()
	if err := toml.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	if p.ShowIDOrName != ModeID && p.ShowIDOrName != ModeName {
		p.ShowIDOrName = ModeID
	}
	s.prefs = p
	return s, nil
}

// Get returns the current preferences.
func (s *Store) Get() Preferences {
	return s.prefs
}

// Set replaces the preferences and persists them. A write failure leaves
// the in-memory value updated; callers log and carry on.
func (s *Store) Set(p Preferences) error {
	s.prefs = p
	b, err := toml.Marshal(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}
