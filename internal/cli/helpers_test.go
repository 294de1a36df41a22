package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/darkmatro/hd2sync/internal/github"
	"github.com/darkmatro/hd2sync/internal/mods"
	"github.com/darkmatro/hd2sync/internal/util"
)

func testDeps(env *util.Env) *cliDeps {
	return &cliDeps{
		Env:      env,
		Registry: mods.Default(),
		Client:   github.NewClient(),
		Root:     "/game",
	}
}

func TestFindMod(t *testing.T) {
	deps := testDeps(util.NewTestEnv())

	m, err := deps.findMod("cmp")
	if err != nil {
		t.Fatalf("findMod failed: %v", err)
	}
	if m.Name != "CMP" {
		t.Errorf("found %s, want CMP", m.Name)
	}

	_, err = deps.findMod("nope")
	if err == nil {
		t.Fatal("expected error for unknown mod")
	}
	if !strings.Contains(err.Error(), "CMP") {
		t.Errorf("error should list available mods, got: %v", err)
	}
}

func TestPreflight_MissingExecutable(t *testing.T) {
	flagNoPreflight = false
	deps := testDeps(util.NewTestEnv())

	err := deps.preflight(context.Background())
	if err == nil {
		t.Fatal("expected preflight to fail without game executable")
	}
	if !strings.Contains(err.Error(), mods.DefaultGameExecutable) {
		t.Errorf("error should name the executable, got: %v", err)
	}
}

func TestPreflight_SkippedByFlag(t *testing.T) {
	flagNoPreflight = true
	defer func() { flagNoPreflight = false }()

	deps := testDeps(util.NewTestEnv())
	if err := deps.preflight(context.Background()); err != nil {
		t.Fatalf("expected preflight skip, got %v", err)
	}
}

func TestPreflight_ChecksConnectivityAfterExecutable(t *testing.T) {
	flagNoPreflight = false
	env := util.NewTestEnv()
	if err := afero.WriteFile(env.Fs, "/game/HD2_SabreSquadron.exe", []byte("x"), 0755); err != nil {
		t.Fatalf("failed to seed executable: %v", err)
	}

	deps := testDeps(env)
	deps.Client = github.NewClient(github.WithBaseURLs("http://127.0.0.1:1", "http://127.0.0.1:1"))

	err := deps.preflight(context.Background())
	if err == nil {
		t.Fatal("expected connectivity failure")
	}
	if !strings.Contains(err.Error(), "connection") {
		t.Errorf("expected connectivity error, got: %v", err)
	}
}
