package fundselling

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/adrg/xdg"
)

func TestDefaultDataDir(t *testing.T) {
	got, err := DefaultDataDir()
	if err != nil {
		t.Fatalf("DefaultDataDir() unexpected error: %v", err)
	}
	if filepath.Base(got) != AppName || !filepath.IsAbs(got) {
		t.Errorf("DefaultDataDir() = %q, want an absolute path ending with %q", got, AppName)
	}

	if runtime.GOOS != "linux" {
		return
	}
	// Reload once the environment is restored.
	t.Cleanup(xdg.Reload)
	home := t.TempDir()
	t.Setenv("XDG_DATA_HOME", home)
	xdg.Reload()
	if got, _ := DefaultDataDir(); got != filepath.Join(home, AppName) {
		t.Errorf("DefaultDataDir() with XDG_DATA_HOME = %q, want %q", got, filepath.Join(home, AppName))
	}
}
