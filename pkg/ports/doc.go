/*
Package ports defines the driven ports (interfaces) for the lectern controllers.

These interfaces decouple the controllers from external implementations, allowing
them to work with various variable stores, clocks, and keyboard sources.

# Key Interfaces

  - VariableStore: Process-wide reactive key-value store with per-key subscriptions.
  - Clock: Schedules cancellable one-shot tasks (used by auto-advance).
  - KeySource: Delivers global keyboard events while a controller is mounted.
  - Dispatcher: Serializes callbacks onto the goroutine that owns the controllers.
*/
package ports
