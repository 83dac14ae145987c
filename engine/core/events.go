package core

import (
	"sync"

	"github.com/spaghettifunk/folio/engine/containers"
)

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Keyboard key pressed.
	/* Context usage:
	 * key := context.Data.(*KeyEvent).KeyCode
	 */
	EVENT_CODE_KEY_PRESSED SystemEventCode = 0x02

	// Keyboard key released.
	EVENT_CODE_KEY_RELEASED SystemEventCode = 0x03

	// Mouse button pressed.
	/* Context usage:
	 * button := context.Data.(*MouseEvent).Button
	 */
	EVENT_CODE_BUTTON_PRESSED SystemEventCode = 0x04

	// Mouse button released.
	EVENT_CODE_BUTTON_RELEASED SystemEventCode = 0x05

	// Mouse moved.
	/* Context usage:
	 * me := context.Data.(*MouseEvent)
	 * me.PosX, me.PosY, me.ViewportWidth, me.ViewportHeight
	 */
	EVENT_CODE_MOUSE_MOVED SystemEventCode = 0x06

	// Mouse wheel.
	/* Context usage:
	 * delta := context.Data.(*MouseEvent).Scroll
	 */
	EVENT_CODE_MOUSE_WHEEL SystemEventCode = 0x07

	// Resized/resolution changed from the OS.
	/* Context usage:
	 * se := context.Data.(*SystemEvent)
	 * se.WindowWidth, se.WindowHeight, se.PixelRatio
	 */
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// Queued events beyond this are dropped with a warning.
const MAX_QUEUED_EVENTS = 1024

type EventContext struct {
	Type SystemEventCode
	// Sender is optional and only used for diagnostics.
	Sender interface{}
	Data   interface{}
}

type KeyEvent struct {
	KeyCode KeyCode
}

type MouseEvent struct {
	Button Button
	PosX   float32
	PosY   float32
	// Size of the viewport the position is relative to.
	ViewportWidth  float32
	ViewportHeight float32
	Scroll         int8
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
	PixelRatio   float32
}

// Should return true if handled. A handled event is not passed to later listeners.
type FnOnEvent func(context EventContext) bool

// ListenerID is returned by Register and is the only handle needed to unregister.
type ListenerID uint64

type registeredEvent struct {
	id       ListenerID
	listener interface{}
	callback FnOnEvent
}

// EventBus routes events to registered listeners. Fire is synchronous. Post
// queues the event until the owner calls Dispatch, which the host does
// between frames so listeners never run in the middle of a render.
type EventBus struct {
	registered map[SystemEventCode][]*registeredEvent
	index      map[ListenerID]SystemEventCode
	nextID     ListenerID

	mu    sync.Mutex
	queue *containers.RingQueue[EventContext]
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[SystemEventCode][]*registeredEvent),
		index:      make(map[ListenerID]SystemEventCode),
		queue:      containers.NewRingQueue[EventContext](MAX_QUEUED_EVENTS),
	}
}

/**
 * Register to listen for when events are sent with the provided code. A listener
 * already registered for the same code is rejected and the second return is false.
 */
func (b *EventBus) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) (ListenerID, bool) {
	if onEvent == nil {
		return 0, false
	}
	if listener != nil {
		for _, e := range b.registered[code] {
			if e.listener == listener {
				LogWarn("listener already registered for event code %d", code)
				return 0, false
			}
		}
	}
	b.nextID++
	id := b.nextID
	b.registered[code] = append(b.registered[code], &registeredEvent{
		id:       id,
		listener: listener,
		callback: onEvent,
	})
	b.index[id] = code
	return id, true
}

// Unregister removes the listener. Unknown or already removed ids are ignored
// and report false.
func (b *EventBus) Unregister(id ListenerID) bool {
	code, ok := b.index[id]
	if !ok {
		return false
	}
	delete(b.index, id)
	events := b.registered[code]
	for i, e := range events {
		if e.id == id {
			b.registered[code] = append(events[:i:i], events[i+1:]...)
			break
		}
	}
	if len(b.registered[code]) == 0 {
		delete(b.registered, code)
	}
	return true
}

// ListenerCount reports how many listeners are registered for code.
func (b *EventBus) ListenerCount(code SystemEventCode) int {
	return len(b.registered[code])
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 */
func (b *EventBus) Fire(context EventContext) bool {
	events := b.registered[context.Type]
	if len(events) == 0 {
		return false
	}
	// Listeners may unregister themselves while handling.
	snapshot := make([]*registeredEvent, len(events))
	copy(snapshot, events)
	for _, e := range snapshot {
		if _, live := b.index[e.id]; !live {
			continue
		}
		if e.callback(context) {
			return true
		}
	}
	return false
}

// Post queues the event for the next Dispatch. Safe to call from any goroutine.
func (b *EventBus) Post(context EventContext) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.queue.Enqueue(context); err != nil {
		LogWarn("event queue full, dropping event code %d", context.Type)
		return err
	}
	return nil
}

// Dispatch fires every queued event in order and returns how many were fired.
func (b *EventBus) Dispatch() int {
	fired := 0
	for {
		b.mu.Lock()
		context, err := b.queue.Dequeue()
		b.mu.Unlock()
		if err != nil {
			return fired
		}
		b.Fire(context)
		fired++
	}
}

// Shutdown drops every listener and queued event.
func (b *EventBus) Shutdown() {
	b.registered = make(map[SystemEventCode][]*registeredEvent)
	b.index = make(map[ListenerID]SystemEventCode)
	b.mu.Lock()
	for !b.queue.IsEmpty() {
		_, _ = b.queue.Dequeue()
	}
	b.mu.Unlock()
}
