package ports

import "github.com/aretw0/lectern/pkg/domain"

// KeyListener handles a single key press.
type KeyListener func(key domain.Key)

// KeySource delivers global keyboard events to every installed listener.
type KeySource interface {
	Listen(fn KeyListener) UnsubscribeFunc
}

// Dispatcher runs fn on the goroutine that owns the controllers.
type Dispatcher interface {
	Post(fn func())
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(fn func())

// Post implements Dispatcher.
func (f DispatcherFunc) Post(fn func()) { f(fn) }

// Inline runs callbacks on the caller's goroutine.
var Inline Dispatcher = DispatcherFunc(func(fn func()) { fn() })
