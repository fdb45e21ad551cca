// Package event provides a simple synchronous/async event dispatcher.
//
// Catalog mutations fire events here instead of talking to the websocket
// layer directly; the realtime controller subscribes at boot. Listener
// panics during async dispatch are swallowed so a broken subscriber can
// never fail the mutating request; callers treat delivery as best-effort.
package event

import (
	"sync"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently.
// It returns immediately without waiting for handlers to complete; a
// panicking handler is recovered and ignored.
func FireAsync(event string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	mu.RUnlock()

	for _, h := range hs {
		go func(h Handler) {
			defer func() { _ = recover() }()
			h(payload)
		}(h)
	}
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
