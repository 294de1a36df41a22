package version

import (
	"testing"

	"github.com/spf13/afero"
)

func TestLoad_MissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	v := Load(fs, "game")
	if len(v) != 0 {
		t.Errorf("expected empty versions, got %v", v)
	}
}

func TestLoad_CorruptedFileIsReset(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "game/local_version.json", []byte("{broken"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	v := Load(fs, "game")
	if len(v) != 0 {
		t.Errorf("expected empty versions for corrupted file, got %v", v)
	}
}

func TestSetGetClear(t *testing.T) {
	fs := afero.NewMemMapFs()

	if err := Set(fs, "game", "CMP", "1.4.2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := Set(fs, "game", SelfKey, "0.0.3"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v := Load(fs, "game")
	if got := v.Get("CMP"); got != "1.4.2" {
		t.Errorf("Get(CMP) = %q, want 1.4.2", got)
	}
	if got := v.Get(SelfKey); got != "0.0.3" {
		t.Errorf("Get(self) = %q, want 0.0.3", got)
	}
	if got := v.Get("unknown"); got != "" {
		t.Errorf("Get(unknown) = %q, want empty", got)
	}

	if err := Clear(fs, "game", "CMP"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := Load(fs, "game").Get("CMP"); got != "" {
		t.Errorf("expected CMP cleared, got %q", got)
	}
	// Self record survives clearing another mod.
	if got := Load(fs, "game").Get(SelfKey); got != "0.0.3" {
		t.Errorf("expected self untouched, got %q", got)
	}
}

func TestClear_UnknownNameIsNoop(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := Clear(fs, "game", "never-installed"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if exists, _ := afero.Exists(fs, "game/local_version.json"); exists {
		t.Error("no-op clear should not create the version file")
	}
}

func TestDelete(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := Set(fs, "game", "CMP", "1.0"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := Delete(fs, "game"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if exists, _ := afero.Exists(fs, "game/local_version.json"); exists {
		t.Error("expected version file removed")
	}
	// Deleting again tolerates absence.
	if err := Delete(fs, "game"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
}
