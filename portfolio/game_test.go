package portfolio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/folio/engine"
	"github.com/spaghettifunk/folio/engine/core"
)

func headlessEngine(t *testing.T, config *engine.ApplicationConfig) (*engine.Engine, *PortfolioGame) {
	t.Helper()
	config.Backend = engine.BackendHeadless
	config.StartWidth = 64
	config.StartHeight = 48
	config.Seed = 4
	config.LogLevel = "error"
	game := NewPortfolioGame(context.Background(), config)
	e, err := engine.New(game.Game)
	if err != nil {
		t.Fatalf("Expected engine, got %v", err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatalf("Expected initialize to succeed, got %v", err)
	}
	return e, game
}

func TestGameNavigatesInsideEngine(t *testing.T) {
	e, game := headlessEngine(t, engine.DefaultApplicationConfig())
	defer e.Shutdown()

	page := game.Page()
	if page.Active().State() != ViewRunning {
		t.Fatalf("Expected the hero scene running, got %s", page.Active().State())
	}
	for i := 0; i < 2; i++ {
		if err := e.Frame(); err != nil {
			t.Fatal(err)
		}
	}
	if got := page.Active().Runtime().Stats().FramesRendered; got != 2 {
		t.Errorf("Expected 2 hero frames, got %d", got)
	}

	e.Input().ProcessKey(core.KEY_NEXT, true)
	e.Frame()
	if page.Active().Section().ID() != "about" {
		t.Errorf("Expected about after PageDown, got %s", page.Active().Section().ID())
	}
}

func TestGameShutdownReleasesPage(t *testing.T) {
	e, game := headlessEngine(t, engine.DefaultApplicationConfig())
	rt := game.Page().Active().Runtime()
	if err := e.Shutdown(); err != nil {
		t.Errorf("Expected clean shutdown, got %v", err)
	}
	if !rt.Disposed() {
		t.Errorf("Expected the active scene disposed")
	}
}

func TestGameReloadsWatchedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.toml")
	if err := os.WriteFile(path, defaultContent, 0o644); err != nil {
		t.Fatal(err)
	}
	config := engine.DefaultApplicationConfig()
	config.ContentPath = path
	config.Watch = true
	e, game := headlessEngine(t, config)
	defer e.Shutdown()

	if err := os.WriteFile(path, []byte("[profile]\nname = \"Reloaded\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for game.Page().content.Profile.Name != "Reloaded" && time.Now().Before(deadline) {
		e.Frame()
		time.Sleep(10 * time.Millisecond)
	}
	if game.Page().content.Profile.Name != "Reloaded" {
		t.Errorf("Expected the page to pick up the edited content")
	}
}
