// Package component defines the lifecycle contract for managed pieces of
// infrastructure. A robusthttp client can be wrapped in a Component so an
// application starts, health-checks, and stops it alongside its other
// dependencies.
package component
