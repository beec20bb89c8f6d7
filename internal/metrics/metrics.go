// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Record cache metrics
	IncCacheHit(entity string)
	IncCacheMiss(entity string)

	// User management metrics
	IncUserCreated()
	IncUserUpdated()
	IncUserDeleted()

	// Post management metrics
	IncPostCreated()
	IncPostUpdated()
	IncPostDeleted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
