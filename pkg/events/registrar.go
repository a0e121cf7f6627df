// Package events provides the fire-and-forget notification hooks the
// permissions client broadcasts on after each public call.
package events

import (
	"fmt"
	"sync"
)

// CallbackError is the reserved event that receives handler failures.
// Its payload is a CallbackErrorPayload.
const CallbackError = "callback_error"

// Event is what a Handler receives: the event's name and whatever
// payload the emitter attached.
type Event struct {
	Name    string
	Payload interface{}
}

// Handler processes one emitted event. A non-nil error (or a panic) is
// redirected to the CallbackError event instead of interrupting the
// other handlers.
type Handler func(evt Event) error

// CallbackErrorPayload carries a handler failure: the event whose
// handler failed and the failure itself.
type CallbackErrorPayload struct {
	Event string
	Err   error
}

// Registrar maps event names to ordered handler lists. Registration
// order is invocation order. Safe for concurrent Register and Emit,
// though registration normally happens once at startup.
type Registrar struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewRegistrar returns an empty Registrar.
func NewRegistrar() *Registrar {
	return &Registrar{handlers: make(map[string][]Handler)}
}

// Register appends h to the handler list for event.
func (r *Registrar) Register(event string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[event] = append(r.handlers[event], h)
}

// Emit invokes every handler registered for event, in registration
// order, each with the same payload. A handler failure is redirected to
// the CallbackError event rather than propagating, so one bad handler
// never stops the rest. The single exception: a failure raised by a
// CallbackError handler itself is returned from Emit, so a broken error
// channel cannot silently swallow failures forever.
func (r *Registrar) Emit(event string, payload interface{}) error {
	r.mu.RLock()
	handlers := r.handlers[event]
	r.mu.RUnlock()

	for _, h := range handlers {
		if err := safeCall(h, Event{Name: event, Payload: payload}); err != nil {
			if emitErr := r.emitCallbackError(event, err); emitErr != nil {
				return emitErr
			}
		}
	}
	return nil
}

// emitCallbackError is the error-channel path of Emit. It is a separate
// code path, not a recursive Emit: handler failures here are returned
// unguarded, which bounds the redirection at one level.
func (r *Registrar) emitCallbackError(origin string, cause error) error {
	r.mu.RLock()
	handlers := r.handlers[CallbackError]
	r.mu.RUnlock()

	evt := Event{
		Name:    CallbackError,
		Payload: CallbackErrorPayload{Event: origin, Err: cause},
	}
	for _, h := range handlers {
		if err := h(evt); err != nil {
			return err
		}
	}
	return nil
}

// safeCall converts a handler panic into an error so it rides the same
// redirection path as a returned failure.
func safeCall(h Handler, evt Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return h(evt)
}
