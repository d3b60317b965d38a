/*
Package domain contains the core models shared by the lectern controllers.

It defines the item sequence a lesson page is composed of, the enumerations that
configure step and slide layouts, the truthiness rule used by gate variables, and
the read-only snapshots hosts use to introspect controller state. This package is
kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Item: A content block of a sequence (StepItem or SlideItem).
  - Snapshot: The machine-readable state of a controller (layout, total, current index).
  - StepView / SlideView: What a host should render for the current state.
  - LifecycleHooks: Optional observability callbacks fired by the controllers.
*/
package domain
