package core

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestFrameLoopDefersRequestsMadeDuringFrame(t *testing.T) {
	loop := NewFrameLoop(nil)
	runs := 0
	var tick FrameCallback
	tick = func(time.Time) {
		runs++
		loop.RequestFrame(tick)
	}
	loop.RequestFrame(tick)

	for i := 0; i < 3; i++ {
		if ran := loop.RunFrame(); ran != 1 {
			t.Errorf("frame %d: expected 1 callback, got %d", i, ran)
		}
	}
	if runs != 3 {
		t.Errorf("Expected 3 runs, got %d", runs)
	}
	if loop.Pending() != 1 {
		t.Errorf("Expected 1 pending request, got %d", loop.Pending())
	}
}

func TestFrameLoopCancel(t *testing.T) {
	loop := NewFrameLoop(nil)
	called := false
	id := loop.RequestFrame(func(time.Time) { called = true })
	loop.CancelFrame(id)
	loop.CancelFrame(id)

	if ran := loop.RunFrame(); ran != 0 {
		t.Errorf("Expected 0 callbacks, got %d", ran)
	}
	if called {
		t.Errorf("Expected cancelled callback not to run")
	}
}

func TestFrameLoopPassesClockTime(t *testing.T) {
	fc := &fakeClock{t: time.Unix(100, 0)}
	loop := NewFrameLoop(fc.now)
	var seen time.Time
	loop.RequestFrame(func(now time.Time) { seen = now })
	fc.advance(time.Second)
	loop.RunFrame()

	if !seen.Equal(time.Unix(101, 0)) {
		t.Errorf("Expected %v, got %v", time.Unix(101, 0), seen)
	}
}

func TestClockElapsed(t *testing.T) {
	fc := &fakeClock{t: time.Unix(0, 0)}
	c := NewClockWithSource(fc.now)

	c.Update()
	if c.Elapsed() != 0 {
		t.Errorf("Expected unstarted clock to report 0, got %v", c.Elapsed())
	}

	c.Start()
	fc.advance(1500 * time.Millisecond)
	c.Update()
	if c.Elapsed() != 1.5 {
		t.Errorf("Expected 1.5, got %v", c.Elapsed())
	}

	c.Stop()
	fc.advance(time.Second)
	c.Update()
	if c.Elapsed() != 1.5 {
		t.Errorf("Expected stopped clock to keep 1.5, got %v", c.Elapsed())
	}
}

func TestFrameMetrics(t *testing.T) {
	m := NewFrameMetrics()
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.010)
	}
	if ft := m.FrameTime(); ft < 9.999 || ft > 10.001 {
		t.Errorf("Expected ~10ms average, got %v", ft)
	}
	for i := 0; i < 200; i++ {
		m.Update(0.010)
	}
	if fps := m.FPS(); fps < 99 || fps > 101 {
		t.Errorf("Expected ~100 fps, got %v", fps)
	}
	if m.Frames() != uint64(AVG_COUNT)+200 {
		t.Errorf("Expected %d frames, got %d", uint64(AVG_COUNT)+200, m.Frames())
	}
}
