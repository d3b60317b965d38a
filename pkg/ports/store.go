package ports

// Listener is notified with the new value after a key is written.
type Listener func(key string, value any)

// UnsubscribeFunc removes a subscription. Calling it more than once is a no-op.
type UnsubscribeFunc func()

// VariableStore is the reactive key-value store shared by every element of a page.
//
// Notification is per key: a listener only runs when its own key is written.
// A write issued from inside a listener is queued and delivered after the
// current delivery finishes, so a key's listener list is never re-entered.
type VariableStore interface {
	// Read returns the value of key, or def if the key was never written.
	Read(key string, def any) any

	// Write updates key and notifies that key's listeners.
	Write(key string, value any)

	// Subscribe registers fn for writes to key.
	Subscribe(key string, fn Listener) UnsubscribeFunc
}
