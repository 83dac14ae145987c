package portfolio

import (
	"context"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
)

const startSection = "hero"

// Page keeps the sections in display order and mounts only the active one.
type Page struct {
	content *Content
	rng     *math.Random
	views   []*SectionView
	active  int

	ctx       context.Context
	host      Host
	listeners []core.ListenerID
	started   bool
}

func NewPage(content *Content, rng *math.Random) *Page {
	p := &Page{content: content, rng: rng}
	p.build()
	return p
}

func (p *Page) build() {
	sections := NewSections(p.content)
	p.views = make([]*SectionView, 0, len(sections))
	for i, s := range sections {
		p.views = append(p.views, NewSectionView(s, p.rng))
		if s.ID() == startSection {
			p.active = i
		}
	}
}

// Start mounts the active section and begins following navigation input.
func (p *Page) Start(ctx context.Context, host Host) {
	if p.started {
		return
	}
	p.ctx, p.host = ctx, host
	p.started = true
	if bus := host.EventBus(); bus != nil {
		p.listen(bus, core.EVENT_CODE_KEY_PRESSED, p.onKey)
		p.listen(bus, core.EVENT_CODE_MOUSE_WHEEL, p.onWheel)
	}
	p.mountActive()
}

func (p *Page) listen(bus *core.EventBus, code core.SystemEventCode, fn core.FnOnEvent) {
	if id, ok := bus.Register(code, p, fn); ok {
		p.listeners = append(p.listeners, id)
	}
}

// Stop unmounts the active section and removes the input listeners.
func (p *Page) Stop() {
	if !p.started {
		return
	}
	p.views[p.active].Unmount()
	if bus := p.host.EventBus(); bus != nil {
		for _, id := range p.listeners {
			bus.Unregister(id)
		}
	}
	p.listeners = nil
	p.started = false
}

// Tick gives a pending section another chance to mount.
func (p *Page) Tick() {
	if p.started {
		p.views[p.active].Tick()
	}
}

func (p *Page) Views() []*SectionView {
	return p.views
}

func (p *Page) Active() *SectionView {
	return p.views[p.active]
}

func (p *Page) Next() bool {
	return p.Activate(p.active + 1)
}

func (p *Page) Prev() bool {
	return p.Activate(p.active - 1)
}

// Activate switches to section i. Out of range indices are ignored.
func (p *Page) Activate(i int) bool {
	if i < 0 || i >= len(p.views) || i == p.active {
		return false
	}
	if p.started {
		p.views[p.active].Unmount()
	}
	p.active = i
	if p.started {
		p.mountActive()
	}
	return true
}

// Reload swaps in new content and remounts the active section.
func (p *Page) Reload(content *Content) {
	if p.started {
		p.views[p.active].Unmount()
	}
	p.content = content
	current := p.active
	p.build()
	p.active = current
	if p.started {
		p.mountActive()
	}
	core.LogInfo("content reloaded")
}

func (p *Page) mountActive() {
	view := p.views[p.active]
	view.Mount(p.ctx, p.host)
	section := view.Section()
	if t, ok := p.host.(interface{ SetTitle(string) }); ok {
		title := p.content.Profile.Name
		if len(section.Title()) > 0 && section.Title() != title {
			title += " | " + section.Title()
		}
		t.SetTitle(title)
	}
	core.LogInfo("section %s (%s)", section.ID(), view.State())
	if view.State() == ViewStatic {
		for _, line := range view.Overlay() {
			core.LogInfo("  %s", line)
		}
	}
}

func (p *Page) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		return false
	}
	switch ke.KeyCode {
	case core.KEY_NEXT, core.KEY_DOWN, core.KEY_SPACE:
		return p.Next()
	case core.KEY_PRIOR, core.KEY_UP:
		return p.Prev()
	case core.KEY_HOME:
		return p.Activate(0)
	case core.KEY_END:
		return p.Activate(len(p.views) - 1)
	}
	return false
}

func (p *Page) onWheel(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		return false
	}
	switch {
	case me.Scroll < 0:
		return p.Next()
	case me.Scroll > 0:
		return p.Prev()
	}
	return false
}
