package portfolio

import (
	"context"
	"errors"
	"strings"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer"
	"github.com/spaghettifunk/folio/engine/scene"
)

// Host provides surfaces and the shared loop to section views.
type Host interface {
	AcquireSurface(name string) (renderer.Surface, error)
	Viewport() scene.Viewport
	SceneOptions() []scene.Option
	EventBus() *core.EventBus
}

type ViewState uint8

const (
	ViewUnmounted ViewState = iota
	// Waiting for a surface that can be attached.
	ViewPending
	ViewRunning
	// Text only: the section has no scene, or its scene could not be built.
	ViewStatic
)

func (s ViewState) String() string {
	switch s {
	case ViewPending:
		return "pending"
	case ViewRunning:
		return "running"
	case ViewStatic:
		return "static"
	default:
		return "unmounted"
	}
}

const (
	// Width in pixels of one overlay glyph.
	glyphWidth = 7
	// Horizontal overlay margin on both sides.
	overlayMargin = 12
)

// SectionView mounts the ambient scene of one section. Failures never leave
// the view: a scene that cannot be built degrades the section to its text.
type SectionView struct {
	section Section
	rng     *math.Random

	ctx        context.Context
	host       Host
	descriptor *scene.Descriptor
	surface    renderer.Surface
	runtime    *scene.Runtime
	state      ViewState
	attempts   int
}

func NewSectionView(section Section, rng *math.Random) *SectionView {
	return &SectionView{section: section, rng: rng}
}

func (v *SectionView) Mount(ctx context.Context, host Host) {
	if v.state != ViewUnmounted {
		return
	}
	v.ctx, v.host = ctx, host
	v.attempts = 0
	v.descriptor = v.section.Descriptor(v.rng)
	if v.descriptor == nil {
		v.state = ViewStatic
		return
	}
	v.state = ViewPending
	v.tryCreate()
}

// Tick retries a pending mount.
func (v *SectionView) Tick() {
	if v.state == ViewPending {
		v.tryCreate()
	}
}

func (v *SectionView) tryCreate() {
	v.attempts++
	if v.surface == nil {
		surface, err := v.host.AcquireSurface(v.section.ID())
		if errors.Is(err, core.ErrSurfaceNotReady) {
			core.LogDebug("section %s: no surface yet", v.section.ID())
			return
		}
		if err != nil {
			v.degrade(err)
			return
		}
		v.surface = surface
	}

	rt, err := scene.Create(v.ctx, v.surface, v.descriptor, v.host.Viewport(), v.host.SceneOptions()...)
	switch {
	case err == nil:
		v.runtime = rt
		v.state = ViewRunning
		rt.SetOverlay(v.Overlay())
		core.LogInfo("section %s mounted as scene %s", v.section.ID(), rt.ID().Short())
	case errors.Is(err, core.ErrSurfaceNotReady):
		core.LogDebug("section %s: surface not ready, retrying next tick", v.section.ID())
	default:
		v.degrade(err)
	}
}

func (v *SectionView) degrade(err error) {
	core.LogWarn("section %s falls back to static content: %s", v.section.ID(), err)
	if v.surface != nil {
		if derr := v.surface.Dispose(); derr != nil {
			core.LogDebug("section %s: %s", v.section.ID(), derr)
		}
		v.surface = nil
	}
	v.state = ViewStatic
}

// Unmount tears the scene down. Calling it on an unmounted view does nothing.
func (v *SectionView) Unmount() {
	if v.state == ViewUnmounted {
		return
	}
	if v.runtime != nil {
		if err := v.runtime.Dispose(); err != nil {
			core.LogWarn("section %s: %s", v.section.ID(), err)
		}
	} else if v.surface != nil {
		if err := v.surface.Dispose(); err != nil {
			core.LogDebug("section %s: %s", v.section.ID(), err)
		}
	}
	v.runtime = nil
	v.surface = nil
	v.descriptor = nil
	v.state = ViewUnmounted
}

func (v *SectionView) Section() Section {
	return v.section
}

func (v *SectionView) State() ViewState {
	return v.state
}

// Runtime is nil unless the view is running.
func (v *SectionView) Runtime() *scene.Runtime {
	return v.runtime
}

func (v *SectionView) Attempts() int {
	return v.attempts
}

// Overlay is the section text wrapped to the host width.
func (v *SectionView) Overlay() []string {
	columns := 0
	if v.host != nil {
		columns = (int(v.host.Viewport().Width) - 2*overlayMargin) / glyphWidth
	}
	return wrapLines(v.section.Content(), columns)
}

// wrapLines breaks lines on spaces so none exceeds columns characters.
// Non-positive columns leave the lines untouched.
func wrapLines(lines []string, columns int) []string {
	if columns <= 0 {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		current := words[0]
		for _, w := range words[1:] {
			if len(current)+1+len(w) > columns {
				out = append(out, current)
				current = w
				continue
			}
			current += " " + w
		}
		out = append(out, current)
	}
	return out
}
