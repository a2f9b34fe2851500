// Package cache provides a bounded in-memory LRU cache with age-based expiry.
//
// The robusthttp client uses it to track per-request retry state: capacity
// eviction is the backstop against unbounded growth when contexts are never
// naturally cleared, while the age sweep caps how long an entry can survive
// regardless of access pattern. The two mechanisms are independent and both
// may fire.
package cache
