package d3xx

import (
	"context"
	"runtime"
	"sync"
)

// Transfer is one in-flight overlapped pipe operation.
//
// It wraps a single native completion record, created before
// the operation is issued and released exactly once no matter
// how the transfer ends. Only one transfer may be in flight
// per pipe at a time; the driver does not enforce this, so
// neither can we.
//
// Closing a transfer before it completes releases the local
// completion record but does not cancel the native transfer:
// a caller that must prevent the operation from landing later
// has to abort the pipe as well.
type Transfer struct {
	dev    *Device
	record uintptr

	// buf keeps the caller's buffer reachable while the driver
	// may still write into it.
	buf []byte

	releaseOnce sync.Once
	releaseErr  error

	done bool
	n    int
	err  error
}

func newTransfer(dev *Device, buf []byte) (*Transfer, error) {
	record, status := dev.drv.InitializeOverlapped(dev.handle)
	if err := status.Err(); err != nil {
		return nil, err
	}
	return &Transfer{dev: dev, record: record, buf: buf}, nil
}

func (t *Transfer) release() error {
	t.releaseOnce.Do(func() {
		t.releaseErr = t.dev.drv.ReleaseOverlapped(t.dev.handle, t.record).Err()
		t.buf = nil
	})
	return t.releaseErr
}

// Poll queries the completion record without blocking.
//
// While the driver reports the transfer as pending or
// incomplete, Poll returns done == false and the caller should
// poll again; there is no driver-pushed wakeup. Any other
// status is terminal: the completion record is released and
// the result is latched, so further Poll calls return the same
// outcome without touching the driver again.
func (t *Transfer) Poll() (n int, done bool, err error) {
	if t.done {
		return t.n, true, t.err
	}
	var transferred uint32
	status := t.dev.drv.GetOverlappedResult(t.dev.handle, t.record, &transferred, false)
	resultErr := status.Err()
	if resultErr == ErrIOPending || resultErr == ErrIOIncomplete {
		return 0, false, nil
	}
	t.done = true
	t.n = int(transferred)
	t.err = resultErr
	_ = t.release()
	return t.n, true, t.err
}

// Wait polls the transfer to completion. The loop yields the
// processor between polls but applies no further backoff,
// matching the busy-poll nature of the completion protocol.
//
// Cancelling the context abandons the wait and releases the
// completion record; it does not abort the native transfer.
func (t *Transfer) Wait(ctx context.Context) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			_ = t.release()
			return 0, err
		}
		n, done, err := t.Poll()
		if done {
			return n, err
		}
		runtime.Gosched()
	}
}

// Close releases the completion record if the transfer has not
// already reached a terminal state. It is safe to call Close
// any number of times.
func (t *Transfer) Close() error {
	return t.release()
}
