package d3xx

import (
	"bytes"

	"github.com/pkg/errors"
)

// Device table flag bits.
const (
	flagOpened     = 0x01
	flagHiSpeed    = 0x02
	flagSuperSpeed = 0x04
)

// DeviceType is the chip family reported by the device table.
type DeviceType uint32

const (
	DeviceTypeUnknown DeviceType = 0
	DeviceTypeFT600   DeviceType = 600
	DeviceTypeFT601   DeviceType = 601
)

func deviceTypeFrom(value uint32) DeviceType {
	switch value {
	case 600:
		return DeviceTypeFT600
	case 601:
		return DeviceTypeFT601
	default:
		return DeviceTypeUnknown
	}
}

func (t DeviceType) String() string {
	switch t {
	case DeviceTypeFT600:
		return "FT600"
	case DeviceTypeFT601:
		return "FT601"
	default:
		return "unknown"
	}
}

// DeviceInfo describes one connected device, as reported by
// the driver's device table.
type DeviceInfo struct {
	Flags        uint32
	Type         DeviceType
	VID          uint16
	PID          uint16
	LocationID   uint32
	SerialNumber string
	Description  string

	drv Driver
}

// IsOpen reports whether the device is already open, by this
// process or another.
func (i *DeviceInfo) IsOpen() bool { return i.Flags&flagOpened != 0 }

// IsHiSpeed reports whether the device enumerated at USB 2.0
// high speed.
func (i *DeviceInfo) IsHiSpeed() bool { return i.Flags&flagHiSpeed != 0 }

// IsSuperSpeed reports whether the device enumerated at USB
// 3.0 super speed.
func (i *DeviceInfo) IsSuperSpeed() bool { return i.Flags&flagSuperSpeed != 0 }

// Open opens the device by its serial number.
func (i *DeviceInfo) Open() (*Device, error) {
	return Open(i.SerialNumber, WithDriver(i.drv))
}

func cstring(raw []byte) string {
	if idx := bytes.IndexByte(raw, 0); idx >= 0 {
		raw = raw[:idx]
	}
	return string(raw)
}

func decodeDeviceInfo(node RawDeviceListNode, drv Driver) DeviceInfo {
	return DeviceInfo{
		Flags:        node.Flags,
		Type:         deviceTypeFrom(node.Type),
		VID:          uint16(node.ID >> 16),
		PID:          uint16(node.ID & 0xffff),
		LocationID:   node.LocID,
		SerialNumber: cstring(node.SerialNumber[:]),
		Description:  cstring(node.Description[:]),
		drv:          drv,
	}
}

// ListDevices builds the driver's device table and returns one
// entry per connected device.
//
// The table build is a create-then-read pair over shared,
// unsynchronized driver state, so the whole sequence runs
// under the process-wide serialization lock.
func ListDevices(opts ...Option) ([]DeviceInfo, error) {
	drv, err := resolveDriver(opts)
	if err != nil {
		return nil, err
	}
	var nodes []RawDeviceListNode
	if err := withDriverLock(func() error {
		count, status := drv.CreateDeviceInfoList()
		if err := status.Err(); err != nil {
			return errors.Wrap(err, "create device info list")
		}
		if count == 0 {
			return nil
		}
		nodes = make([]RawDeviceListNode, count)
		actual, status := drv.GetDeviceInfoList(nodes)
		if err := status.Err(); err != nil {
			nodes = nil
			return errors.Wrap(err, "get device info list")
		}
		// A device attached between the two calls may leave the
		// table shorter than announced; trust the shorter side.
		if actual < count {
			nodes = nodes[:actual]
		}
		return nil
	}); err != nil {
		return nil, err
	}
	devices := make([]DeviceInfo, 0, len(nodes))
	for _, node := range nodes {
		devices = append(devices, decodeDeviceInfo(node, drv))
	}
	return devices, nil
}
