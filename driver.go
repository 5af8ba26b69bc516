package d3xx

import (
	"sync"
	"unsafe"

	"github.com/ftlab/d3xx/config"
)

// Trampoline is the fixed-signature notification entry point
// handed to the driver together with an opaque context token.
// The driver invokes it from its own thread with the token, an
// event kind discriminant and an untyped payload pointer.
type Trampoline func(context uintptr, kind uint32, info unsafe.Pointer)

// RawDeviceListNode is one entry of the driver's device table.
type RawDeviceListNode struct {
	Flags        uint32
	Type         uint32
	ID           uint32
	LocID        uint32
	SerialNumber [16]byte
	Description  [32]byte
	Handle       uintptr
}

// RawPipeInformation is the pipe information record of the
// driver, describing one endpoint of an interface.
type RawPipeInformation struct {
	PipeType          int32
	PipeID            uint8
	MaximumPacketSize uint16
	Interval          uint8
}

// RawDeviceDescriptor is the standard USB device descriptor.
type RawDeviceDescriptor struct {
	Length            uint8
	DescriptorType    uint8
	BcdUSB            uint16
	DeviceClass       uint8
	DeviceSubClass    uint8
	DeviceProtocol    uint8
	MaxPacketSize0    uint8
	VendorID          uint16
	ProductID         uint16
	BcdDevice         uint16
	ManufacturerIndex uint8
	ProductIndex      uint8
	SerialNumberIndex uint8
	NumConfigurations uint8
}

// RawConfigurationDescriptor is the standard USB configuration
// descriptor.
type RawConfigurationDescriptor struct {
	Length             uint8
	DescriptorType     uint8
	TotalLength        uint16
	NumInterfaces      uint8
	ConfigurationValue uint8
	ConfigurationIndex uint8
	Attributes         uint8
	MaxPower           uint8
}

// RawInterfaceDescriptor is the standard USB interface
// descriptor.
type RawInterfaceDescriptor struct {
	Length            uint8
	DescriptorType    uint8
	InterfaceNumber   uint8
	AlternateSetting  uint8
	NumEndpoints      uint8
	InterfaceClass    uint8
	InterfaceSubClass uint8
	InterfaceProtocol uint8
	InterfaceIndex    uint8
}

// RawStringDescriptor is a fetched USB string descriptor. The
// payload is UTF-16LE; Length counts bytes including the two
// header bytes.
type RawStringDescriptor struct {
	Length         uint8
	DescriptorType uint8
	String         [128]uint16
}

// RawDataNotification is the payload of a data-ready event.
type RawDataNotification struct {
	Length uint32
	PipeID uint8
}

// RawGpioNotification is the payload of a GPIO-change event.
type RawGpioNotification struct {
	GPIO0 int32
	GPIO1 int32
}

// Driver is the boundary with the vendor library. Every call
// returns a raw Status with zero meaning success. On windows
// the implementation forwards to the D3XX DLL; elsewhere only
// substitute implementations such as d3xxtest.Driver exist.
//
// The driver is assumed non-reentrant: the device table calls
// must be issued under the process-wide serialization lock,
// and a device handle must never be used by two threads at
// the same time.
type Driver interface {
	// CreateDeviceInfoList rebuilds the driver's device table
	// and reports the number of connected devices.
	CreateDeviceInfoList() (uint32, Status)

	// GetDeviceInfoList copies the device table into nodes and
	// reports the actual number of entries.
	GetDeviceInfoList(nodes []RawDeviceListNode) (uint32, Status)

	// Create opens a device by serial number.
	Create(serial string) (uintptr, Status)

	// Close releases a device handle.
	Close(handle uintptr) Status

	// ReadPipe reads from an input pipe. A non-zero overlapped
	// token turns the call into an asynchronous initiate.
	ReadPipe(handle uintptr, pipe uint8, buf []byte, transferred *uint32, overlapped uintptr) Status

	// WritePipe writes to an output pipe. A non-zero overlapped
	// token turns the call into an asynchronous initiate.
	WritePipe(handle uintptr, pipe uint8, buf []byte, transferred *uint32, overlapped uintptr) Status

	// AbortPipe cancels outstanding transfers on a pipe.
	AbortPipe(handle uintptr, pipe uint8) Status

	GetPipeTimeout(handle uintptr, pipe uint8, millis *uint32) Status
	SetPipeTimeout(handle uintptr, pipe uint8, millis uint32) Status

	// InitializeOverlapped allocates one completion record
	// bound to the handle and returns an opaque token for it.
	InitializeOverlapped(handle uintptr) (uintptr, Status)

	// ReleaseOverlapped frees a completion record.
	ReleaseOverlapped(handle, overlapped uintptr) Status

	// GetOverlappedResult queries a completion record. With
	// wait false the call never blocks.
	GetOverlappedResult(handle, overlapped uintptr, transferred *uint32, wait bool) Status

	// SetNotificationCallback registers the trampoline and the
	// context token; a later call replaces the earlier pair.
	SetNotificationCallback(handle uintptr, trampoline Trampoline, context uintptr) Status

	// ClearNotificationCallback unregisters the trampoline.
	// The driver reports no outcome for it.
	ClearNotificationCallback(handle uintptr)

	EnableGPIO(handle uintptr, mask, direction uint32) Status
	WriteGPIO(handle uintptr, mask, value uint32) Status
	ReadGPIO(handle uintptr, value *uint32) Status
	SetGPIOPull(handle uintptr, mask, pull uint32) Status

	GetDeviceDescriptor(handle uintptr, desc *RawDeviceDescriptor) Status
	GetConfigurationDescriptor(handle uintptr, desc *RawConfigurationDescriptor) Status
	GetInterfaceDescriptor(handle uintptr, index uint8, desc *RawInterfaceDescriptor) Status
	GetStringDescriptor(handle uintptr, index uint8, desc *RawStringDescriptor) Status
	GetPipeInformation(handle uintptr, interfaceIndex, pipe uint8, info *RawPipeInformation) Status

	GetChipConfiguration(handle uintptr, raw *config.Raw) Status
	GetVIDPID(handle uintptr, vid, pid *uint16) Status
	GetLibraryVersion(version *uint32) Status
	GetDriverVersion(handle uintptr, version *uint32) Status

	SetStreamPipe(handle uintptr, allWritePipes, allReadPipes bool, pipe uint8, streamSize uint32) Status
	ClearStreamPipe(handle uintptr, allWritePipes, allReadPipes bool, pipe uint8) Status
}

// enumLock serializes the create-then-read device table
// sequence, which the driver does not synchronize internally.
// No other operation takes this lock; keep the critical
// section to the two enumeration calls.
var enumLock sync.Mutex

// withDriverLock runs fn while holding the process-wide
// enumeration lock. A panic inside fn releases the lock in a
// usable state and then propagates: the driver state after an
// internal panic is unknown and must not be masked.
func withDriverLock(fn func() error) error {
	enumLock.Lock()
	defer enumLock.Unlock()
	return fn()
}
