package hashscan

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// Git blob hashes, verifiable with `git hash-object`.
const (
	helloBlobSHA      = "b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0" // "hello"
	helloWorldBlobSHA = "95d09f2b10159347eece71399a7e2e907ea3df4f" // "hello world"
)

func TestBlobHash_MatchesGitHashObject(t *testing.T) {
	cases := []struct {
		content string
		want    string
	}{
		{"hello", helloBlobSHA},
		{"hello world", helloWorldBlobSHA},
	}

	for _, tc := range cases {
		got, err := BlobHash(int64(len(tc.content)), strings.NewReader(tc.content))
		if err != nil {
			t.Fatalf("BlobHash(%q) failed: %v", tc.content, err)
		}
		if got != tc.want {
			t.Errorf("BlobHash(%q) = %s, want %s", tc.content, got, tc.want)
		}
	}
}

func TestHashFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "Maps/level.dta", []byte("hello"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	got, err := HashFile(fs, "Maps/level.dta")
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	if got != helloBlobSHA {
		t.Errorf("HashFile = %s, want %s", got, helloBlobSHA)
	}
}

func TestHashFile_Missing(t *testing.T) {
	fs := afero.NewMemMapFs()
	if _, err := HashFile(fs, "nope.txt"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestScanFolder(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"game/Maps/level.dta":       "hello",
		"game/Maps/town/street.dta": "hello world",
	}
	for name, content := range files {
		if err := afero.WriteFile(fs, name, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	// Outside the scanned namespace, must not appear.
	if err := afero.WriteFile(fs, "game/HD2_SabreSquadron.exe", []byte("binary"), 0755); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	entries, err := ScanFolder(fs, "game", "Maps")
	if err != nil {
		t.Fatalf("ScanFolder failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), entries)
	}

	byPath := map[string]string{}
	for _, e := range entries {
		byPath[e.Path] = e.Hash
	}
	if byPath["Maps/level.dta"] != helloBlobSHA {
		t.Errorf("Maps/level.dta hash = %s, want %s", byPath["Maps/level.dta"], helloBlobSHA)
	}
	if byPath["Maps/town/street.dta"] != helloWorldBlobSHA {
		t.Errorf("Maps/town/street.dta hash = %s, want %s", byPath["Maps/town/street.dta"], helloWorldBlobSHA)
	}
}

func TestScanFolder_MissingFolder(t *testing.T) {
	fs := afero.NewMemMapFs()
	entries, err := ScanFolder(fs, "game", "Sounds")
	if err != nil {
		t.Fatalf("ScanFolder failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries for missing folder, got %v", entries)
	}
}

func TestScanFolders(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "game/Maps/a.dta", []byte("hello"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := afero.WriteFile(fs, "game/Sounds/b.wav", []byte("hello world"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	entries, err := ScanFolders(fs, "game", []string{"Maps", "Sounds", "Text"})
	if err != nil {
		t.Fatalf("ScanFolders failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d: %v", len(entries), entries)
	}
}
