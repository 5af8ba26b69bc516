package d3xxtest

import (
	"sync"
	"time"
	"unicode/utf16"
	"unsafe"

	"github.com/ftlab/d3xx"
	"github.com/ftlab/d3xx/config"
)

// defaultTimeoutMillis is applied to every pipe when a device
// is opened, matching the vendor driver.
const defaultTimeoutMillis = 5000

var allPipes = []uint8{
	0x02, 0x03, 0x04, 0x05,
	0x82, 0x83, 0x84, 0x85,
}

// Driver is the in-memory driver boundary. Unlike the vendor
// library it is safe for concurrent use; it still mimics the
// vendor's unsynchronized device table by detecting when the
// create-then-read enumeration pair of one caller interleaves
// with another's.
type Driver struct {
	mu        sync.Mutex
	devices   map[string]*Device
	order     []string
	handles   map[uintptr]*Device
	handleSeq uintptr
	records   map[uintptr]*record
	recordSeq uintptr

	libraryVersion uint32

	enumPending     bool
	enumInterleaves int
	enumDelay       time.Duration
}

// record is one overlapped completion record.
type record struct {
	dev       *Device
	pipe      uint8
	write     bool
	issued    bool
	completed bool
	n         uint32
	status    d3xx.Status
	data      []byte
	buf       []byte
}

// New returns an empty driver with no devices attached.
func New() *Driver {
	return &Driver{
		devices:        make(map[string]*Device),
		handles:        make(map[uintptr]*Device),
		records:        make(map[uintptr]*record),
		libraryVersion: 0x0100001a,
	}
}

var _ d3xx.Driver = (*Driver)(nil)

// Device is one simulated device of the table. Configure it
// after AddDevice and inspect it after the code under test ran.
type Device struct {
	drv *Driver

	serial      string
	description string
	devType     uint32
	vid, pid    uint16
	locID       uint32
	flags       uint32

	driverVersion uint32

	open   bool
	handle uintptr

	timeouts map[uint8]uint32
	inbox    map[uint8][]byte
	mirror   map[uint8]uint8
	forced   map[uint8]d3xx.Error
	aborts   map[uint8]int

	tramp    d3xx.Trampoline
	trampCtx uintptr

	gpioEnabled uint32
	gpioDir     uint32
	gpioVal     uint32
	pullMask    uint32
	pullValue   uint32

	streams      map[uint8]uint32
	streamClears int

	chip       config.Raw
	devDesc    d3xx.RawDeviceDescriptor
	confDesc   d3xx.RawConfigurationDescriptor
	ifaceDescs map[uint8]d3xx.RawInterfaceDescriptor
	strings    map[uint8]string
	pipeInfo   map[uint8]d3xx.RawPipeInformation
}

// AddDevice attaches a device with the given serial number and
// FT600 defaults, and returns it for further configuration.
func (d *Driver) AddDevice(serial string) *Device {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev := &Device{
		drv:           d,
		serial:        serial,
		description:   "FTDI SuperSpeed-FIFO Bridge",
		devType:       600,
		vid:           0x0403,
		pid:           0x601e,
		flags:         0x04,
		driverVersion: 0x0100000a,
		timeouts:      make(map[uint8]uint32),
		inbox:         make(map[uint8][]byte),
		mirror:        make(map[uint8]uint8),
		forced:        make(map[uint8]d3xx.Error),
		aborts:        make(map[uint8]int),
		streams:       make(map[uint8]uint32),
		ifaceDescs:    make(map[uint8]d3xx.RawInterfaceDescriptor),
		strings:       make(map[uint8]string),
		pipeInfo:      make(map[uint8]d3xx.RawPipeInformation),
	}
	d.devices[serial] = dev
	d.order = append(d.order, serial)
	return dev
}

// SetEnumDelay injects a pause between rebuilding the device
// table and returning the count, widening the enumeration race
// window for tests.
func (d *Driver) SetEnumDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enumDelay = delay
}

// Interleaves reports how many times one enumeration pair
// started while another was still in flight.
func (d *Driver) Interleaves() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enumInterleaves
}

// SetLibraryVersion overrides the packed library version.
func (d *Driver) SetLibraryVersion(version uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.libraryVersion = version
}

// Device configuration and inspection.

// SetDescription sets the device table description string.
func (v *Device) SetDescription(description string) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	v.description = description
}

// SetType sets the chip family value of the device table entry.
func (v *Device) SetType(devType uint32) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	v.devType = devType
}

// SetVIDPID sets the vendor and product id.
func (v *Device) SetVIDPID(vid, pid uint16) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	v.vid, v.pid = vid, pid
}

// SetFlags sets the device table flag bits.
func (v *Device) SetFlags(flags uint32) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	v.flags = flags
}

// SetLocation sets the location id of the device table entry.
func (v *Device) SetLocation(locID uint32) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	v.locID = locID
}

// SetDriverVersion sets the packed kernel driver version.
func (v *Device) SetDriverVersion(version uint32) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	v.driverVersion = version
}

// MirrorPipes loops data written to the out pipe back into the
// in pipe, where later reads pick it up.
func (v *Device) MirrorPipes(out, in d3xx.Pipe) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	v.mirror[uint8(out)] = uint8(in)
}

// Push preloads data into an input pipe.
func (v *Device) Push(pipe d3xx.Pipe, data []byte) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	v.inbox[uint8(pipe)] = append(v.inbox[uint8(pipe)], data...)
}

// FailNext makes the next transfer on the pipe fail with the
// given error. The failure is consumed by that one transfer.
func (v *Device) FailNext(pipe d3xx.Pipe, err d3xx.Error) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	v.forced[uint8(pipe)] = err
}

// AbortCount reports how many times the pipe was aborted.
func (v *Device) AbortCount(pipe d3xx.Pipe) int {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	return v.aborts[uint8(pipe)]
}

// SetChip sets the raw chip configuration record.
func (v *Device) SetChip(raw config.Raw) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	v.chip = raw
}

// SetDeviceDescriptor sets the USB device descriptor.
func (v *Device) SetDeviceDescriptor(desc d3xx.RawDeviceDescriptor) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	v.devDesc = desc
}

// SetConfigurationDescriptor sets the USB configuration
// descriptor.
func (v *Device) SetConfigurationDescriptor(desc d3xx.RawConfigurationDescriptor) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	v.confDesc = desc
}

// SetInterfaceDescriptor sets the USB interface descriptor at
// the given index.
func (v *Device) SetInterfaceDescriptor(index uint8, desc d3xx.RawInterfaceDescriptor) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	v.ifaceDescs[index] = desc
}

// SetStringDescriptor sets the USB string descriptor at the
// given index.
func (v *Device) SetStringDescriptor(index uint8, value string) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	v.strings[index] = value
}

// SetPipeInformation sets the pipe information record reported
// for the pipe.
func (v *Device) SetPipeInformation(pipe d3xx.Pipe, info d3xx.RawPipeInformation) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	v.pipeInfo[uint8(pipe)] = info
}

// GPIOState reports the merged enable mask, direction word and
// output value word.
func (v *Device) GPIOState() (enabled, direction, value uint32) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	return v.gpioEnabled, v.gpioDir, v.gpioVal
}

// SetGPIOValue sets the word a later gpio read samples.
func (v *Device) SetGPIOValue(value uint32) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	v.gpioVal = value
}

// PullArgs reports the mask and value words of the last pull
// configuration call.
func (v *Device) PullArgs() (mask, value uint32) {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	return v.pullMask, v.pullValue
}

// StreamPipes reports the stream sizes currently configured.
func (v *Device) StreamPipes() map[uint8]uint32 {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	out := make(map[uint8]uint32, len(v.streams))
	for pipe, size := range v.streams {
		out[pipe] = size
	}
	return out
}

// StreamClears reports how many times all stream pipes were
// cleared at once.
func (v *Device) StreamClears() int {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	return v.streamClears
}

// CompleteTransfers finishes every overlapped transfer of the
// device that is still in flight.
func (v *Device) CompleteTransfers() {
	v.drv.mu.Lock()
	defer v.drv.mu.Unlock()
	for _, rec := range v.drv.records {
		if rec.dev == v && rec.issued && !rec.completed {
			v.drv.complete(rec)
		}
	}
}

// NotifyData delivers a data-ready event to the registered
// callback, the way the vendor driver does: from a thread that
// is not the caller's, blocking until the callback returns.
func (v *Device) NotifyData(pipe d3xx.Pipe, length int) {
	info := &d3xx.RawDataNotification{
		Length: uint32(length),
		PipeID: uint8(pipe),
	}
	v.dispatch(0, unsafe.Pointer(info))
}

// NotifyGPIO delivers a GPIO-change event to the registered
// callback.
func (v *Device) NotifyGPIO(level0, level1 int32) {
	info := &d3xx.RawGpioNotification{GPIO0: level0, GPIO1: level1}
	v.dispatch(1, unsafe.Pointer(info))
}

// NotifyRaw delivers an event with an arbitrary discriminant
// and payload, for exercising the decode boundary.
func (v *Device) NotifyRaw(kind uint32, info unsafe.Pointer) {
	v.dispatch(kind, info)
}

func (v *Device) dispatch(kind uint32, info unsafe.Pointer) {
	v.drv.mu.Lock()
	tramp, ctx := v.tramp, v.trampCtx
	v.drv.mu.Unlock()
	if tramp == nil {
		return
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		tramp(ctx, kind, info)
	}()
	<-done
}

// Driver boundary.

func (d *Driver) CreateDeviceInfoList() (uint32, d3xx.Status) {
	d.mu.Lock()
	if d.enumPending {
		d.enumInterleaves++
	}
	d.enumPending = true
	count := uint32(len(d.order))
	delay := d.enumDelay
	d.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	return count, d3xx.StatusSuccess
}

func (d *Driver) GetDeviceInfoList(nodes []d3xx.RawDeviceListNode) (uint32, d3xx.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enumPending = false
	for i := range nodes {
		if i >= len(d.order) {
			break
		}
		dev := d.devices[d.order[i]]
		node := d3xx.RawDeviceListNode{
			Flags: dev.flags,
			Type:  dev.devType,
			ID:    uint32(dev.vid)<<16 | uint32(dev.pid),
			LocID: dev.locID,
		}
		copy(node.SerialNumber[:], dev.serial)
		copy(node.Description[:], dev.description)
		nodes[i] = node
	}
	return uint32(len(d.order)), d3xx.StatusSuccess
}

func (d *Driver) Create(serial string) (uintptr, d3xx.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.devices[serial]
	if !ok {
		return 0, d3xx.Status(d3xx.ErrDeviceNotFound)
	}
	d.handleSeq++
	handle := d.handleSeq
	d.handles[handle] = dev
	dev.open = true
	dev.handle = handle
	dev.flags |= 0x01
	for _, pipe := range allPipes {
		dev.timeouts[pipe] = defaultTimeoutMillis
	}
	return handle, d3xx.StatusSuccess
}

func (d *Driver) Close(handle uintptr) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.handles[handle]
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	delete(d.handles, handle)
	dev.open = false
	dev.handle = 0
	dev.flags &^= 0x01
	dev.tramp = nil
	dev.trampCtx = 0
	return d3xx.StatusSuccess
}

func (d *Driver) byHandle(handle uintptr) (*Device, bool) {
	dev, ok := d.handles[handle]
	return dev, ok
}

// consumeForced pops the one-shot failure armed for the pipe.
func (dev *Device) consumeForced(pipe uint8) (d3xx.Error, bool) {
	err, ok := dev.forced[pipe]
	if ok {
		delete(dev.forced, pipe)
	}
	return err, ok
}

// deliver mirrors written data into the paired input pipe.
func (d *Driver) deliver(dev *Device, pipe uint8, data []byte) {
	if in, ok := dev.mirror[pipe]; ok {
		dev.inbox[in] = append(dev.inbox[in], data...)
	}
}

func (d *Driver) WritePipe(handle uintptr, pipe uint8, buf []byte, transferred *uint32, overlapped uintptr) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	if err, ok := dev.consumeForced(pipe); ok {
		return d3xx.Status(err)
	}
	if overlapped != 0 {
		rec, ok := d.records[overlapped]
		if !ok {
			return d3xx.Status(d3xx.ErrInvalidParameter)
		}
		rec.dev = dev
		rec.pipe = pipe
		rec.write = true
		rec.issued = true
		rec.completed = false
		rec.data = append([]byte(nil), buf...)
		return d3xx.Status(d3xx.ErrIOPending)
	}
	d.deliver(dev, pipe, buf)
	*transferred = uint32(len(buf))
	return d3xx.StatusSuccess
}

func (d *Driver) ReadPipe(handle uintptr, pipe uint8, buf []byte, transferred *uint32, overlapped uintptr) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	if err, ok := dev.consumeForced(pipe); ok {
		return d3xx.Status(err)
	}
	if overlapped != 0 {
		rec, ok := d.records[overlapped]
		if !ok {
			return d3xx.Status(d3xx.ErrInvalidParameter)
		}
		rec.dev = dev
		rec.pipe = pipe
		rec.write = false
		rec.issued = true
		rec.completed = false
		rec.buf = buf
		return d3xx.Status(d3xx.ErrIOPending)
	}
	avail := dev.inbox[pipe]
	if len(avail) == 0 {
		return d3xx.Status(d3xx.ErrTimeout)
	}
	n := copy(buf, avail)
	dev.inbox[pipe] = avail[n:]
	*transferred = uint32(n)
	return d3xx.StatusSuccess
}

func (d *Driver) AbortPipe(handle uintptr, pipe uint8) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	dev.aborts[pipe]++
	for _, rec := range d.records {
		if rec.dev == dev && rec.pipe == pipe && rec.issued && !rec.completed {
			rec.completed = true
			rec.n = 0
			rec.status = d3xx.Status(d3xx.ErrOperationAborted)
		}
	}
	return d3xx.StatusSuccess
}

func (d *Driver) GetPipeTimeout(handle uintptr, pipe uint8, millis *uint32) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	*millis = dev.timeouts[pipe]
	return d3xx.StatusSuccess
}

func (d *Driver) SetPipeTimeout(handle uintptr, pipe uint8, millis uint32) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	dev.timeouts[pipe] = millis
	return d3xx.StatusSuccess
}

func (d *Driver) InitializeOverlapped(handle uintptr) (uintptr, d3xx.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return 0, d3xx.Status(d3xx.ErrInvalidHandle)
	}
	d.recordSeq++
	token := d.recordSeq
	d.records[token] = &record{dev: dev}
	return token, d3xx.StatusSuccess
}

func (d *Driver) ReleaseOverlapped(handle, overlapped uintptr) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.records[overlapped]; !ok {
		return d3xx.Status(d3xx.ErrInvalidParameter)
	}
	delete(d.records, overlapped)
	return d3xx.StatusSuccess
}

// complete finishes one in-flight record: writes mirror their
// data, reads drain the pipe inbox.
func (d *Driver) complete(rec *record) {
	if rec.write {
		d.deliver(rec.dev, rec.pipe, rec.data)
		rec.n = uint32(len(rec.data))
	} else {
		avail := rec.dev.inbox[rec.pipe]
		n := copy(rec.buf, avail)
		rec.dev.inbox[rec.pipe] = avail[n:]
		rec.n = uint32(n)
	}
	rec.status = d3xx.StatusSuccess
	rec.completed = true
}

func (d *Driver) GetOverlappedResult(handle, overlapped uintptr, transferred *uint32, wait bool) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.records[overlapped]
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidParameter)
	}
	if !rec.completed {
		if !wait {
			return d3xx.Status(d3xx.ErrIOIncomplete)
		}
		d.complete(rec)
	}
	*transferred = rec.n
	return rec.status
}

func (d *Driver) SetNotificationCallback(handle uintptr, trampoline d3xx.Trampoline, context uintptr) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	dev.tramp = trampoline
	dev.trampCtx = context
	return d3xx.StatusSuccess
}

func (d *Driver) ClearNotificationCallback(handle uintptr) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if dev, ok := d.byHandle(handle); ok {
		dev.tramp = nil
		dev.trampCtx = 0
	}
}

func (d *Driver) EnableGPIO(handle uintptr, mask, direction uint32) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	dev.gpioEnabled |= mask
	dev.gpioDir = dev.gpioDir&^mask | direction&mask
	return d3xx.StatusSuccess
}

func (d *Driver) WriteGPIO(handle uintptr, mask, value uint32) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	dev.gpioVal = dev.gpioVal&^mask | value&mask
	return d3xx.StatusSuccess
}

func (d *Driver) ReadGPIO(handle uintptr, value *uint32) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	*value = dev.gpioVal
	return d3xx.StatusSuccess
}

func (d *Driver) SetGPIOPull(handle uintptr, mask, pull uint32) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	dev.pullMask = mask
	dev.pullValue = pull
	return d3xx.StatusSuccess
}

func (d *Driver) GetDeviceDescriptor(handle uintptr, desc *d3xx.RawDeviceDescriptor) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	*desc = dev.devDesc
	return d3xx.StatusSuccess
}

func (d *Driver) GetConfigurationDescriptor(handle uintptr, desc *d3xx.RawConfigurationDescriptor) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	*desc = dev.confDesc
	return d3xx.StatusSuccess
}

func (d *Driver) GetInterfaceDescriptor(handle uintptr, index uint8, desc *d3xx.RawInterfaceDescriptor) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	ifd, ok := dev.ifaceDescs[index]
	if !ok {
		return d3xx.Status(d3xx.ErrNoMoreItems)
	}
	*desc = ifd
	return d3xx.StatusSuccess
}

func (d *Driver) GetStringDescriptor(handle uintptr, index uint8, desc *d3xx.RawStringDescriptor) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	units := utf16.Encode([]rune(dev.strings[index]))
	if len(units) > len(desc.String) {
		units = units[:len(desc.String)]
	}
	copy(desc.String[:], units)
	desc.Length = uint8(2 + 2*len(units))
	desc.DescriptorType = 3
	return d3xx.StatusSuccess
}

func (d *Driver) GetPipeInformation(handle uintptr, interfaceIndex, pipe uint8, info *d3xx.RawPipeInformation) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	if pi, ok := dev.pipeInfo[pipe]; ok {
		*info = pi
		return d3xx.StatusSuccess
	}
	*info = d3xx.RawPipeInformation{
		PipeType:          2,
		PipeID:            pipe,
		MaximumPacketSize: 1024,
	}
	return d3xx.StatusSuccess
}

func (d *Driver) GetChipConfiguration(handle uintptr, raw *config.Raw) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	*raw = dev.chip
	return d3xx.StatusSuccess
}

func (d *Driver) GetVIDPID(handle uintptr, vid, pid *uint16) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	*vid, *pid = dev.vid, dev.pid
	return d3xx.StatusSuccess
}

func (d *Driver) GetLibraryVersion(version *uint32) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	*version = d.libraryVersion
	return d3xx.StatusSuccess
}

func (d *Driver) GetDriverVersion(handle uintptr, version *uint32) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	*version = dev.driverVersion
	return d3xx.StatusSuccess
}

func (d *Driver) SetStreamPipe(handle uintptr, allWritePipes, allReadPipes bool, pipe uint8, streamSize uint32) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	if allWritePipes || allReadPipes {
		for _, p := range allPipes {
			dev.streams[p] = streamSize
		}
		return d3xx.StatusSuccess
	}
	dev.streams[pipe] = streamSize
	return d3xx.StatusSuccess
}

func (d *Driver) ClearStreamPipe(handle uintptr, allWritePipes, allReadPipes bool, pipe uint8) d3xx.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.byHandle(handle)
	if !ok {
		return d3xx.Status(d3xx.ErrInvalidHandle)
	}
	if allWritePipes && allReadPipes {
		dev.streamClears++
		dev.streams = make(map[uint8]uint32)
		return d3xx.StatusSuccess
	}
	delete(dev.streams, pipe)
	return d3xx.StatusSuccess
}
