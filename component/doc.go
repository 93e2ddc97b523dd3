// Package component manages the lifecycle of the service's infrastructure:
// start in registration order, stop in reverse, report health.
package component
