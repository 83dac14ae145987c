package portfolio

import (
	"context"
	"testing"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
)

func startPage(t *testing.T) (*Page, *fakeHost) {
	t.Helper()
	host := newFakeHost()
	page := NewPage(mustContent(t), math.NewRandom(9))
	page.Start(context.Background(), host)
	return page, host
}

func TestPageStartsOnHero(t *testing.T) {
	page, host := startPage(t)
	defer page.Stop()
	if page.Active().Section().ID() != "hero" {
		t.Errorf("Expected hero first, got %s", page.Active().Section().ID())
	}
	if page.Active().State() != ViewRunning {
		t.Errorf("Expected the hero scene to run, got %s", page.Active().State())
	}
	if host.title != "Biswajeet Behera" {
		t.Errorf("Expected the window title to be the name, got %q", host.title)
	}
	for _, v := range page.Views() {
		if v != page.Active() && v.State() != ViewUnmounted {
			t.Errorf("Expected only the active section mounted, %s is %s", v.Section().ID(), v.State())
		}
	}
}

func TestPageKeyNavigation(t *testing.T) {
	page, host := startPage(t)
	defer page.Stop()
	hero := page.Active()
	heroRuntime := hero.Runtime()

	host.bus.Fire(core.EventContext{Type: core.EVENT_CODE_KEY_PRESSED, Data: &core.KeyEvent{KeyCode: core.KEY_NEXT}})
	if page.Active().Section().ID() != "about" {
		t.Fatalf("Expected about after PageDown, got %s", page.Active().Section().ID())
	}
	if hero.State() != ViewUnmounted || !heroRuntime.Disposed() {
		t.Errorf("Expected the hero scene torn down")
	}
	if host.title != "Biswajeet Behera | About Me" {
		t.Errorf("Expected the title to follow the section, got %q", host.title)
	}

	host.bus.Fire(core.EventContext{Type: core.EVENT_CODE_KEY_PRESSED, Data: &core.KeyEvent{KeyCode: core.KEY_PRIOR}})
	if page.Active().Section().ID() != "hero" {
		t.Errorf("Expected hero after PageUp, got %s", page.Active().Section().ID())
	}

	host.bus.Fire(core.EventContext{Type: core.EVENT_CODE_KEY_PRESSED, Data: &core.KeyEvent{KeyCode: core.KEY_END}})
	if page.Active().Section().ID() != "footer" || page.Active().State() != ViewStatic {
		t.Errorf("Expected a static footer at the end, got %s %s", page.Active().Section().ID(), page.Active().State())
	}
	if page.Next() {
		t.Errorf("Expected no section past the footer")
	}
}

func TestPageWheelNavigation(t *testing.T) {
	page, host := startPage(t)
	defer page.Stop()

	host.bus.Fire(core.EventContext{Type: core.EVENT_CODE_MOUSE_WHEEL, Data: &core.MouseEvent{Scroll: -1}})
	host.bus.Fire(core.EventContext{Type: core.EVENT_CODE_MOUSE_WHEEL, Data: &core.MouseEvent{Scroll: -1}})
	if page.Active().Section().ID() != "experience" {
		t.Errorf("Expected experience after two scrolls down, got %s", page.Active().Section().ID())
	}
	host.bus.Fire(core.EventContext{Type: core.EVENT_CODE_MOUSE_WHEEL, Data: &core.MouseEvent{Scroll: 1}})
	if page.Active().Section().ID() != "about" {
		t.Errorf("Expected about after scrolling up, got %s", page.Active().Section().ID())
	}
	if host.loop.Pending() != 1 {
		t.Errorf("Expected exactly the active scene scheduled, got %d", host.loop.Pending())
	}
}

func TestPageReload(t *testing.T) {
	page, _ := startPage(t)
	defer page.Stop()
	old := page.Active().Runtime()

	c := mustContent(t)
	c.Profile.Name = "Renamed"
	page.Reload(c)
	if page.Active().Section().ID() != "hero" || page.Active().State() != ViewRunning {
		t.Errorf("Expected the hero to be remounted, got %s", page.Active().State())
	}
	if !old.Disposed() {
		t.Errorf("Expected the previous scene to be disposed")
	}
	if page.Active().Overlay()[0] != "Renamed" {
		t.Errorf("Expected the new content, got %v", page.Active().Overlay()[0])
	}
}

func TestPageStop(t *testing.T) {
	page, host := startPage(t)
	rt := page.Active().Runtime()
	page.Stop()
	page.Stop()
	if !rt.Disposed() {
		t.Errorf("Expected the active scene disposed")
	}
	if n := host.bus.ListenerCount(core.EVENT_CODE_KEY_PRESSED); n != 0 {
		t.Errorf("Expected no key listeners, got %d", n)
	}
	if n := host.bus.ListenerCount(core.EVENT_CODE_MOUSE_MOVED); n != 0 {
		t.Errorf("Expected no pointer listeners, got %d", n)
	}
}
