// Package flock provides cross-platform advisory file locks.
//
// Exclusive and Unlock are the non-blocking platform primitives. Acquire
// wraps them with a retry loop bounded by a timeout and the caller's context,
// which is how the settings store serializes writers of one document.
//
//	lock, err := flock.Acquire(ctx, path, 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	defer func() { _ = lock.Release() }()
package flock
