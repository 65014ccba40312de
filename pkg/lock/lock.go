package lock

// Locker serializes access to a shared resource between cooperating processes.
// Every call blocks until it can be satisfied; there is no timeout.
type Locker interface {
	// AcquireExclusive takes the writer lock.
	AcquireExclusive() error

	// AcquireShared takes a reader lock. Any number of readers may hold it at once.
	AcquireShared() error

	// Release drops whichever lock is held.
	Release() error
}
