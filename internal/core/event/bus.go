package event

import "reflect"

// Handler receives a dispatched event. The concrete type is the type the
// handler was subscribed with.
type Handler func(ev any)

// Bus is a double-buffered event bus. Events published during a message
// are collected in the back buffer and dispatched at the next
// SwapBuffers/DispatchAll cycle, so subscribers always observe a settled
// battle state. Accessed only from the battle actor goroutine, never locked.
type Bus struct {
	handlers map[reflect.Type][]Handler
	front    []any
	back     []any
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]Handler)}
}

// Subscribe registers a handler for the concrete type of prototype.
func (b *Bus) Subscribe(prototype any, h Handler) {
	t := reflect.TypeOf(prototype)
	b.handlers[t] = append(b.handlers[t], h)
}

// Publish queues an event for dispatch on the next cycle.
func (b *Bus) Publish(ev any) {
	b.back = append(b.back, ev)
}

// SwapBuffers moves queued events into the dispatch buffer.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front[:0]
}

// DispatchAll delivers every event in the dispatch buffer in publish order.
// Events published by handlers land in the back buffer for the next cycle.
func (b *Bus) DispatchAll() {
	for _, ev := range b.front {
		for _, h := range b.handlers[reflect.TypeOf(ev)] {
			h(ev)
		}
	}
}

// Drain runs swap+dispatch cycles until no events remain. Used by the
// battle actor after each processed message so cascading events, such as
// a defeat that ends the battle, settle before the next message.
func (b *Bus) Drain() {
	for len(b.back) > 0 {
		b.SwapBuffers()
		b.DispatchAll()
	}
}
