// Package view contains the presentational leaves of a lesson page.
//
// Each leaf owns at most one subscription and re-evaluates independently, so
// a write to one gate variable only touches the leaf watching it. Leaves that
// derive from a controller's position are synced explicitly by the
// controller after each navigation.
package view
