package models

const (
	// Reservation statuses. Creation always yields active; cancellation is
	// terminal. There is no pending or rejected state.
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

const (
	// Resource statuses.
	ResourceAvailable   = "available"
	ResourceUnavailable = "unavailable"
)

const (
	// Asset conditions as they appear in the source data.
	ConditionGood   = "baik"
	ConditionBroken = "rusak"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	// DefaultLockTTL caps how long a per-resource advisory lock may be held,
	// in seconds. Covers the validate+insert window with a wide margin.
	DefaultLockTTL = 10

	// DefaultLockRetryMillis is the poll interval while waiting for a busy lock.
	DefaultLockRetryMillis = 25

	// ExportQueueSize bounds the export worker queue. Tasks coalesce, so a
	// small buffer is enough.
	ExportQueueSize = 16
)
