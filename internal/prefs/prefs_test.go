package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenMissingFileUsesDefaults(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "prefs.toml"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	p := s.Get()
	if !p.ShowUnlisted {
		t.Error("default showUnlisted must be true")
	}
	if p.ShowIDOrName != ModeID {
		t.Errorf("default showIdorName = %q, want %q", p.ShowIDOrName, ModeID)
	}
}

func TestSetRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(Preferences{ShowUnlisted: false, ShowIDOrName: ModeName}); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	p := reopened.Get()
	if p.ShowUnlisted {
		t.Error("showUnlisted did not round-trip")
	}
	if p.ShowIDOrName != ModeName {
		t.Errorf("showIdorName = %q, want %q", p.ShowIDOrName, ModeName)
	}
}

func TestOpenNormalizesBadMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("showUnlisted = true\nshowIdorName = \"bogus\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := s.Get().ShowIDOrName; got != ModeID {
		t.Errorf("showIdorName = %q, want normalized %q", got, ModeID)
	}
}

func TestOpenRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("not toml ==="), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected an error for a malformed preference file")
	}
}
