// Package lockfree hands objects from control goroutines to a real-time
// audio goroutine without blocking, locking or allocating on the real-time
// side.
//
// The building blocks are a spin Flag with a scoped Guard, a release/acquire
// Fence, a bounded single-producer/single-consumer Queue and a TimeOut used to
// bound control-side retries. Owner composes them: control goroutines publish
// new versions of an object with Set or Construct, the audio goroutine picks
// up the latest version with Get once per processing cycle, and superseded
// versions are handed back through the queue to be disposed by Cleanup on a
// control goroutine.
//
// Usage:
//
//	owner := lockfree.NewOwner[*filter.Cascade](lockfree.WithCapacity(4))
//
//	// control goroutine
//	status := owner.Construct(lockfree.After(100*time.Millisecond), func() (*filter.Cascade, error) {
//	    sections, err := filter.Butterworth(filter.KindLowpass, 4, 48000, 1200)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return filter.NewCascade(2, sections...), nil
//	})
//
//	// audio goroutine, once per block
//	if cascade, ok := owner.Get(); ok {
//	    cascade.Process(in, out)
//	}
//
// Operations that may run on the audio goroutine report a Status rather than
// an error, and never block, allocate or log.
package lockfree
