/*
Package observability provides lifecycle hooks for monitoring lesson pages.

It includes Prometheus collectors for navigation and gate activity, structured
logging hooks, and a combinator to attach several hook sets to one
controller.
*/
package observability
