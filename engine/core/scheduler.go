package core

import "time"

type FrameID uint64

type FrameCallback func(now time.Time)

// FrameScheduler hands out one-shot callbacks for the next display refresh.
// A callback that wants to keep running requests the following frame itself.
type FrameScheduler interface {
	RequestFrame(cb FrameCallback) FrameID
	CancelFrame(id FrameID)
}

type pendingFrame struct {
	id FrameID
	cb FrameCallback
}

// FrameLoop is the host side of FrameScheduler. The owner calls RunFrame once
// per refresh; callbacks requested while a frame runs wait for the next one.
type FrameLoop struct {
	now     NowFunc
	nextID  FrameID
	pending []pendingFrame
	live    map[FrameID]struct{}
	frames  uint64
}

func NewFrameLoop(now NowFunc) *FrameLoop {
	if now == nil {
		now = time.Now
	}
	return &FrameLoop{
		now:  now,
		live: make(map[FrameID]struct{}),
	}
}

func (l *FrameLoop) RequestFrame(cb FrameCallback) FrameID {
	l.nextID++
	id := l.nextID
	l.pending = append(l.pending, pendingFrame{id: id, cb: cb})
	l.live[id] = struct{}{}
	return id
}

// CancelFrame drops a pending request. Cancelling twice, or cancelling a frame
// that already ran, does nothing.
func (l *FrameLoop) CancelFrame(id FrameID) {
	delete(l.live, id)
}

// RunFrame invokes every callback requested before this call and returns how many ran.
func (l *FrameLoop) RunFrame() int {
	batch := l.pending
	l.pending = nil
	now := l.now()
	ran := 0
	for _, p := range batch {
		if _, ok := l.live[p.id]; !ok {
			continue
		}
		delete(l.live, p.id)
		p.cb(now)
		ran++
	}
	l.frames++
	return ran
}

// Pending reports how many requests will run on the next RunFrame.
func (l *FrameLoop) Pending() int {
	return len(l.live)
}

func (l *FrameLoop) Frames() uint64 {
	return l.frames
}
