package d3xx

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
)

// DefaultPipeTimeout is the per-pipe transfer timeout the
// driver applies after a device is opened.
const DefaultPipeTimeout = 5000 * time.Millisecond

// PipeSession performs I/O on one direction-fixed pipe of an
// open device.
//
// Writing an input pipe or reading an output pipe is a
// programming error and panics; all driver failures come back
// as errors from the taxonomy. After any failed transfer the
// session aborts the pipe before returning, as the vendor
// requires to bring the pipe back to a known state; the abort
// outcome itself is discarded so the original error is what
// the caller sees.
type PipeSession struct {
	dev  *Device
	pipe Pipe
}

// ID returns the pipe this session is fixed to.
func (s *PipeSession) ID() Pipe { return s.pipe }

func (s *PipeSession) mustOut(op string) {
	if !s.pipe.IsOut() {
		panic(fmt.Sprintf("d3xx: %s on input pipe %v", op, s.pipe))
	}
}

func (s *PipeSession) mustIn(op string) {
	if !s.pipe.IsIn() {
		panic(fmt.Sprintf("d3xx: %s on output pipe %v", op, s.pipe))
	}
}

func narrowLen(buf []byte) uint32 {
	if uint64(len(buf)) > math.MaxUint32 {
		panic("d3xx: buffer length exceeds native width")
	}
	return uint32(len(buf))
}

// abortBestEffort restores the pipe after a failed transfer.
// Its own outcome is intentionally dropped.
func (s *PipeSession) abortBestEffort() {
	_ = s.dev.drv.AbortPipe(s.dev.handle, uint8(s.pipe))
}

// Write writes buf to the pipe, blocking until the transfer
// completes or the pipe timeout expires. It returns the number
// of bytes the device accepted.
func (s *PipeSession) Write(buf []byte) (int, error) {
	s.mustOut("write")
	narrowLen(buf)
	var transferred uint32
	status := s.dev.drv.WritePipe(s.dev.handle, uint8(s.pipe), buf, &transferred, 0)
	if err := status.Err(); err != nil {
		s.abortBestEffort()
		return 0, err
	}
	return int(transferred), nil
}

// Read reads from the pipe into buf, blocking until the
// transfer completes or the pipe timeout expires. It returns
// the number of bytes received.
func (s *PipeSession) Read(buf []byte) (int, error) {
	s.mustIn("read")
	narrowLen(buf)
	var transferred uint32
	status := s.dev.drv.ReadPipe(s.dev.handle, uint8(s.pipe), buf, &transferred, 0)
	if err := status.Err(); err != nil {
		s.abortBestEffort()
		return 0, err
	}
	return int(transferred), nil
}

// Abort cancels outstanding transfers on the pipe.
func (s *PipeSession) Abort() error {
	return s.dev.drv.AbortPipe(s.dev.handle, uint8(s.pipe)).Err()
}

// Timeout reports the transfer timeout configured for the
// pipe.
func (s *PipeSession) Timeout() (time.Duration, error) {
	var millis uint32
	status := s.dev.drv.GetPipeTimeout(s.dev.handle, uint8(s.pipe), &millis)
	if err := status.Err(); err != nil {
		return 0, errors.Wrapf(err, "get timeout of pipe %v", s.pipe)
	}
	return time.Duration(millis) * time.Millisecond, nil
}

// SetTimeout configures the transfer timeout for the pipe in
// whole milliseconds. A negative timeout, one that exceeds the
// native 32-bit millisecond range, or one that is not a whole
// number of milliseconds is a caller bug and panics: silently
// truncating half a millisecond to zero would configure the
// driver to wait forever. The driver resets the timeout to
// DefaultPipeTimeout whenever the device is opened.
func (s *PipeSession) SetTimeout(timeout time.Duration) error {
	millis := timeout.Milliseconds()
	if millis < 0 || millis > math.MaxUint32 {
		panic("d3xx: pipe timeout out of range")
	}
	if timeout != time.Duration(millis)*time.Millisecond {
		panic("d3xx: pipe timeout not a whole number of milliseconds")
	}
	status := s.dev.drv.SetPipeTimeout(s.dev.handle, uint8(s.pipe), uint32(millis))
	if err := status.Err(); err != nil {
		return errors.Wrapf(err, "set timeout of pipe %v", s.pipe)
	}
	return nil
}

// Info fetches the pipe information record for this pipe on
// the given interface.
func (s *PipeSession) Info(interfaceIndex uint8) (PipeInfo, error) {
	var raw RawPipeInformation
	status := s.dev.drv.GetPipeInformation(s.dev.handle, interfaceIndex, uint8(s.pipe), &raw)
	if err := status.Err(); err != nil {
		return PipeInfo{}, errors.Wrapf(err, "get information of pipe %v", s.pipe)
	}
	info, err := decodePipeInfo(raw)
	if err != nil {
		return PipeInfo{}, errors.Wrapf(err, "decode information of pipe %v", s.pipe)
	}
	return info, nil
}

// WriteAsync initiates an overlapped write of buf and returns
// the transfer to poll for completion. buf must stay untouched
// until the transfer is terminal. An initiate failure aborts
// the pipe and releases the completion record before the error
// is returned.
func (s *PipeSession) WriteAsync(buf []byte) (*Transfer, error) {
	s.mustOut("async write")
	narrowLen(buf)
	t, err := newTransfer(s.dev, buf)
	if err != nil {
		return nil, err
	}
	var transferred uint32
	status := s.dev.drv.WritePipe(s.dev.handle, uint8(s.pipe), buf, &transferred, t.record)
	if err := swallowPending(status.Err()); err != nil {
		t.release()
		s.abortBestEffort()
		return nil, err
	}
	return t, nil
}

// ReadAsync initiates an overlapped read into buf and returns
// the transfer to poll for completion. buf must stay untouched
// until the transfer is terminal. An initiate failure aborts
// the pipe and releases the completion record before the error
// is returned.
func (s *PipeSession) ReadAsync(buf []byte) (*Transfer, error) {
	s.mustIn("async read")
	narrowLen(buf)
	t, err := newTransfer(s.dev, buf)
	if err != nil {
		return nil, err
	}
	var transferred uint32
	status := s.dev.drv.ReadPipe(s.dev.handle, uint8(s.pipe), buf, &transferred, t.record)
	if err := swallowPending(status.Err()); err != nil {
		t.release()
		s.abortBestEffort()
		return nil, err
	}
	return t, nil
}

// swallowPending drops the "pending" status an asynchronous
// initiate is allowed to report: true completion is observed
// through polling only.
func swallowPending(err error) error {
	if err == ErrIOPending {
		return nil
	}
	return err
}
