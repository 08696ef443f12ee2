// Package cache memoizes the computed quantities of one geometric object
// and tracks their validity through epoch counters.
//
// Every Cache owns a monotonically increasing local epoch, bumped by
// Invalidate, plus a list of upstream Sources (the caches of objects this
// one is derived from). The effective epoch is the sum of all of them, so
// a single integer comparison answers "did anything upstream change since
// this entry was computed". Invalidation is a single counter bump, one
// atomic sweep over the whole table: entries are never cleared one by one
// and a compute function that reads sibling entries mid-recompute can
// never observe a half-invalidated state.
//
// Get is the lone access path: it returns the stored value when its stamp
// matches the current epoch and recomputes otherwise. Values are treated
// as immutable once stored; callers must not modify returned slices.
//
// The cache is built for the single-goroutine evaluation model of the
// surrounding packages: concurrent mutation is not supported, concurrent
// reads of a stable object are.
package cache
