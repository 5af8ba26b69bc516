package d3xx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftlab/d3xx"
	"github.com/ftlab/d3xx/config"
)

func TestDeviceDescriptor(t *testing.T) {
	assert := assert.New(t)
	sim, dev := openTestDevice(t)
	sim.SetDeviceDescriptor(d3xx.RawDeviceDescriptor{
		BcdUSB:            0x0320,
		MaxPacketSize0:    9,
		VendorID:          0x0403,
		ProductID:         0x601e,
		ManufacturerIndex: 1,
		ProductIndex:      2,
		SerialNumberIndex: 3,
	})
	sim.SetStringDescriptor(1, "FTDI")
	sim.SetStringDescriptor(2, "FT600")
	sim.SetStringDescriptor(3, "ABC123")

	desc, err := dev.DeviceDescriptor()
	require.NoError(t, err)
	assert.Equal(uint16(0x0403), desc.VendorID())
	assert.Equal(uint16(0x601e), desc.ProductID())
	assert.Equal(3, desc.UsbVersion().Major())
	assert.Equal(2, desc.UsbVersion().Minor())
	assert.Equal(9, desc.MaxPacketSize())
	assert.Equal("FTDI", desc.Manufacturer())
	assert.Equal("FT600", desc.Product())
	assert.Equal("ABC123", desc.SerialNumber())
	assert.Equal(d3xx.ClassCodes{}, desc.ClassCodes())
}

func TestConfigurationDescriptor(t *testing.T) {
	assert := assert.New(t)
	sim, dev := openTestDevice(t)
	sim.SetConfigurationDescriptor(d3xx.RawConfigurationDescriptor{
		NumInterfaces:      2,
		ConfigurationValue: 1,
		Attributes:         0xe0,
		MaxPower:           48,
	})

	desc, err := dev.ConfigurationDescriptor()
	require.NoError(t, err)
	assert.Equal(2, desc.Interfaces())
	assert.Equal(uint8(1), desc.ConfigurationValue())
	assert.Equal(96, desc.MaxPower())
	assert.True(desc.SelfPowered())
	assert.True(desc.RemoteWakeup())
	assert.Empty(desc.Description())
}

func TestInterfaceDescriptor(t *testing.T) {
	assert := assert.New(t)
	sim, dev := openTestDevice(t)
	sim.SetInterfaceDescriptor(1, d3xx.RawInterfaceDescriptor{
		InterfaceNumber: 1,
		NumEndpoints:    2,
		InterfaceClass:  0xff,
		InterfaceIndex:  4,
	})
	sim.SetStringDescriptor(4, "Data Channel")

	desc, err := dev.InterfaceDescriptor(1)
	require.NoError(t, err)
	assert.Equal(1, desc.InterfaceNumber())
	assert.Equal(2, desc.Endpoints())
	assert.Equal(uint8(0xff), desc.ClassCodes().Class)
	assert.Equal("Data Channel", desc.Description())

	_, err = dev.InterfaceDescriptor(9)
	assert.ErrorIs(err, d3xx.ErrNoMoreItems)
}

func TestChipConfiguration(t *testing.T) {
	assert := assert.New(t)
	sim, dev := openTestDevice(t)
	sim.SetChip(config.Raw{
		VendorID:      0x0403,
		ProductID:     0x601e,
		FIFOMode:      1,
		ChannelConfig: 0,
		Interval:      1,
	})

	chip, err := dev.ChipConfiguration()
	require.NoError(t, err)
	assert.Equal(uint16(0x0403), chip.VendorID())
	assert.Equal(config.FifoMode600, chip.DataTransfer().FifoMode())
	assert.Equal(config.ChannelsFour, chip.DataTransfer().ChannelConfig())
	assert.Equal(uint8(1), chip.InterruptLatency())
}

func TestChipConfigurationDecodeFailure(t *testing.T) {
	sim, dev := openTestDevice(t)
	sim.SetChip(config.Raw{FIFOClock: 9})
	_, err := dev.ChipConfiguration()
	assert.Error(t, err)
}
