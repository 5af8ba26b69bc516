package d3xx

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
)

// Event kind discriminants the driver delivers alongside the
// untyped notification payload.
const (
	eventKindData uint32 = 0
	eventKindGPIO uint32 = 1
)

// Event is one decoded notification payload: either DataEvent
// or GpioEvent.
type Event interface {
	isEvent()
}

// DataEvent reports data arriving on a notification-enabled
// input pipe.
type DataEvent struct {
	Pipe      Pipe
	ByteCount int
}

// GpioEvent reports a GPIO state change.
type GpioEvent struct {
	Level0 int32
	Level1 int32
}

func (DataEvent) isEvent() {}
func (GpioEvent) isEvent() {}

// Notification is what a registered callback receives: the
// decoded event plus the context value supplied at
// registration time.
type Notification struct {
	Context any
	Event   Event
}

// NotificationCallback is invoked by the driver's own thread,
// never the one that registered it. The callback and its
// context must therefore be safe to use off-thread. Panics in
// the callback are caught at the boundary and logged; they
// never unwind into native code.
type NotificationCallback func(Notification)

type notifyRegistration struct {
	callback NotificationCallback
	context  any
}

// notifyRegistry maps opaque context tokens to registrations.
// The driver only ever sees the token, never a Go pointer, so
// a stale token after replacement simply misses the map and
// the event is dropped.
var (
	notifyRegistry sync.Map
	notifyTokenSeq atomic.Uintptr
)

// notifyTrampoline is the single fixed entry point registered
// with the driver for every device.
func notifyTrampoline(context uintptr, kind uint32, info unsafe.Pointer) {
	value, ok := notifyRegistry.Load(context)
	if !ok {
		return
	}
	reg := value.(*notifyRegistration)
	event, ok := decodeEvent(kind, info)
	if !ok {
		// Unknown discriminants are dropped, not forwarded.
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log().Error("d3xx: notification callback panicked",
				"panic", r)
		}
	}()
	reg.callback(Notification{Context: reg.context, Event: event})
}

func decodeEvent(kind uint32, info unsafe.Pointer) (Event, bool) {
	if info == nil {
		return nil, false
	}
	switch kind {
	case eventKindData:
		raw := (*RawDataNotification)(info)
		pipe, ok := PipeFromByte(raw.PipeID)
		if !ok {
			return nil, false
		}
		return DataEvent{Pipe: pipe, ByteCount: int(raw.Length)}, true
	case eventKindGPIO:
		raw := (*RawGpioNotification)(info)
		return GpioEvent{Level0: raw.GPIO0, Level1: raw.GPIO1}, true
	default:
		return nil, false
	}
}

// SetNotificationCallback registers callback, with an optional
// context value, to be invoked whenever a notification-enabled
// pipe receives data or the GPIO state changes.
//
// At most one registration is live per device; a later call
// replaces the earlier one. Whether the driver frees its own
// bookkeeping for a replaced registration is not documented by
// the vendor, so replacement is treated as a potential native
// leak; the Go-side registration is always reclaimed.
func (d *Device) SetNotificationCallback(callback NotificationCallback, context any) error {
	if callback == nil {
		return errors.New("d3xx: nil notification callback")
	}
	token := notifyTokenSeq.Add(1)
	notifyRegistry.Store(token, &notifyRegistration{
		callback: callback,
		context:  context,
	})
	status := d.drv.SetNotificationCallback(d.handle, notifyTrampoline, token)
	if err := status.Err(); err != nil {
		notifyRegistry.Delete(token)
		return errors.Wrap(err, "set notification callback")
	}
	if prev := d.notifyToken; prev != 0 {
		notifyRegistry.Delete(prev)
	}
	d.notifyToken = token
	return nil
}

// ClearNotificationCallback unregisters the notification
// callback. The driver reports no failure signal for this, so
// the call always succeeds.
func (d *Device) ClearNotificationCallback() {
	d.drv.ClearNotificationCallback(d.handle)
	if prev := d.notifyToken; prev != 0 {
		notifyRegistry.Delete(prev)
		d.notifyToken = 0
	}
}
