package d3xx

import (
	"math"
	"runtime"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

type option struct {
	driver Driver
}

// Option configures Open and ListDevices.
type Option func(*option)

// WithDriver selects an explicit driver boundary instead of
// the platform one. This is how substitute drivers, such as
// d3xxtest.Driver, are injected.
func WithDriver(d Driver) Option {
	return func(o *option) {
		o.driver = d
	}
}

func resolveDriver(opts []Option) (Driver, error) {
	o := &option{}
	for _, opt := range opts {
		opt(o)
	}
	if o.driver != nil {
		return o.driver, nil
	}
	return platformDriver()
}

// Device is an open FT60x device.
//
// The handle inside is exclusively owned and carries no
// internal synchronization: it may move between goroutines,
// but must never be operated on by two of them at once. This
// is a caller contract, mirroring the driver's own lack of
// thread safety, and is not enforced at runtime.
type Device struct {
	drv    Driver
	handle uintptr
	serial string

	closeOnce sync.Once
	closeErr  error

	// notifyToken is the live notification registration, zero
	// when none. Guarded by the exclusive-use contract.
	notifyToken uintptr
}

// Open opens the device with the given serial number.
//
// The serial number must not contain an embedded NUL; passing
// one is a caller bug and panics.
func Open(serial string, opts ...Option) (*Device, error) {
	if strings.ContainsRune(serial, 0) {
		panic("d3xx: serial number contains embedded NUL")
	}
	drv, err := resolveDriver(opts)
	if err != nil {
		return nil, err
	}
	handle, status := drv.Create(serial)
	if err := status.Err(); err != nil {
		return nil, errors.Wrapf(err, "open device %q", serial)
	}
	if handle == 0 {
		return nil, errors.Wrapf(ErrDeviceNotFound, "open device %q", serial)
	}
	dev := &Device{drv: drv, handle: handle, serial: serial}
	// Backstop for leaked devices. Close clears it.
	runtime.SetFinalizer(dev, func(d *Device) { _ = d.Close() })
	return dev, nil
}

// Serial returns the serial number the device was opened with.
func (d *Device) Serial() string { return d.serial }

// Close releases the device handle. The handle is closed
// exactly once; later calls return the first outcome.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		runtime.SetFinalizer(d, nil)
		d.closeErr = d.drv.Close(d.handle).Err()
	})
	return d.closeErr
}

// Pipe returns the session for one direction-fixed pipe of
// the device. The session borrows the device handle; it must
// not outlive the device.
func (d *Device) Pipe(p Pipe) *PipeSession {
	return &PipeSession{dev: d, pipe: p}
}

// VIDPID reports the vendor and product id of the device.
func (d *Device) VIDPID() (uint16, uint16, error) {
	var vid, pid uint16
	if err := d.drv.GetVIDPID(d.handle, &vid, &pid).Err(); err != nil {
		return 0, 0, errors.Wrap(err, "get vid/pid")
	}
	return vid, pid, nil
}

// SetStreamPipes reconfigures stream transfers: all stream
// pipes are cleared first, then each entry of the set is
// applied. A stream size beyond the native 32-bit width is a
// caller bug and panics.
func (d *Device) SetStreamPipes(pipes StreamPipes) error {
	if err := d.drv.ClearStreamPipe(d.handle, true, true, 0).Err(); err != nil {
		return errors.Wrap(err, "clear stream pipes")
	}
	for pipe, size := range pipes {
		if size < 0 || uint64(size) > math.MaxUint32 {
			panic("d3xx: stream size exceeds native width")
		}
		status := d.drv.SetStreamPipe(d.handle, false, false, uint8(pipe), uint32(size))
		if err := status.Err(); err != nil {
			return errors.Wrapf(err, "set stream pipe %v", pipe)
		}
	}
	return nil
}

// Version is a packed library or driver version number.
type Version uint32

// Major version number.
func (v Version) Major() uint8 { return uint8(v >> 24) }

// Minor version number.
func (v Version) Minor() uint8 { return uint8(v >> 16) }

// Build version number.
func (v Version) Build() uint16 { return uint16(v) }

// LibraryVersion reports the version of the vendor library.
// This is not the driver version.
func LibraryVersion(opts ...Option) (Version, error) {
	drv, err := resolveDriver(opts)
	if err != nil {
		return 0, err
	}
	var version uint32
	if err := drv.GetLibraryVersion(&version).Err(); err != nil {
		return 0, errors.Wrap(err, "get library version")
	}
	return Version(version), nil
}

// DriverVersion reports the version of the kernel driver the
// device is attached through.
func (d *Device) DriverVersion() (Version, error) {
	var version uint32
	if err := d.drv.GetDriverVersion(d.handle, &version).Err(); err != nil {
		return 0, errors.Wrap(err, "get driver version")
	}
	return Version(version), nil
}
