package d3xx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeDeviceInfo(t *testing.T) {
	assert := assert.New(t)
	node := RawDeviceListNode{
		Flags: flagOpened | flagSuperSpeed,
		Type:  600,
		ID:    0x0403601e,
		LocID: 0x1234,
	}
	copy(node.SerialNumber[:], "ABC123")
	copy(node.Description[:], "FTDI SuperSpeed-FIFO Bridge")

	info := decodeDeviceInfo(node, nil)
	assert.Equal(DeviceTypeFT600, info.Type)
	assert.Equal(uint16(0x0403), info.VID)
	assert.Equal(uint16(0x601e), info.PID)
	assert.Equal(uint32(0x1234), info.LocationID)
	assert.Equal("ABC123", info.SerialNumber)
	assert.Equal("FTDI SuperSpeed-FIFO Bridge", info.Description)
	assert.True(info.IsOpen())
	assert.False(info.IsHiSpeed())
	assert.True(info.IsSuperSpeed())
}

func TestDecodeDeviceInfoUnknownType(t *testing.T) {
	info := decodeDeviceInfo(RawDeviceListNode{Type: 245}, nil)
	assert.Equal(t, DeviceTypeUnknown, info.Type)
}

// panicEnumDriver blows up inside the enumeration critical
// section. Only CreateDeviceInfoList is ever reached.
type panicEnumDriver struct{ Driver }

func (panicEnumDriver) CreateDeviceInfoList() (uint32, Status) {
	panic("driver blew up")
}

// emptyEnumDriver enumerates an empty device table.
type emptyEnumDriver struct{ Driver }

func (emptyEnumDriver) CreateDeviceInfoList() (uint32, Status) {
	return 0, StatusSuccess
}

func TestListDevicesPanicReleasesLock(t *testing.T) {
	assert := assert.New(t)
	assert.Panics(func() {
		_, _ = ListDevices(WithDriver(panicEnumDriver{}))
	})

	// The lock must come out of the panic released.
	assert.True(enumLock.TryLock())
	enumLock.Unlock()

	devices, err := ListDevices(WithDriver(emptyEnumDriver{}))
	assert.NoError(err)
	assert.Empty(devices)
}

func TestDeviceTypeString(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("FT600", DeviceTypeFT600.String())
	assert.Equal("FT601", DeviceTypeFT601.String())
	assert.Equal("unknown", DeviceTypeUnknown.String())
}

func TestVersionUnpack(t *testing.T) {
	assert := assert.New(t)
	v := Version(0x0102000a)
	assert.Equal(uint8(1), v.Major())
	assert.Equal(uint8(2), v.Minor())
	assert.Equal(uint16(10), v.Build())
}

func TestUsbVersionUnpack(t *testing.T) {
	assert := assert.New(t)
	v := UsbVersion(0x0210)
	assert.Equal(2, v.Major())
	assert.Equal(1, v.Minor())
}
