package config

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringBlock(s string) []byte {
	units := utf16.Encode([]rune(s))
	block := []byte{byte(2 + 2*len(units)), 3}
	for _, u := range units {
		block = append(block, byte(u), byte(u>>8))
	}
	return block
}

func stringArea(parts ...string) [128]byte {
	var area [128]byte
	off := 0
	for _, part := range parts {
		off += copy(area[off:], stringBlock(part))
	}
	return area
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)
	chip, err := Decode(Raw{
		VendorID:                  0x0403,
		ProductID:                 0x601e,
		StringDescriptors:         stringArea("FTDI", "FT600", "ABC123"),
		PowerAttributes:           0x60,
		PowerConsumption:          96,
		FIFOClock:                 1,
		FIFOMode:                  1,
		ChannelConfig:             1,
		OptionalFeatureSupport:    0x0005,
		BatteryChargingGPIOConfig: 0xe4,
		MSIOControl:               0x21,
		GPIOControl:               0x300,
		Interval:                  9,
	})
	require.NoError(t, err)

	assert.Equal(uint16(0x0403), chip.VendorID())
	assert.Equal(uint16(0x601e), chip.ProductID())

	strings := chip.StringDescriptor()
	assert.Equal("FTDI", strings.Manufacturer())
	assert.Equal("FT600", strings.Product())
	assert.Equal("ABC123", strings.SerialNumber())

	power := chip.Power()
	assert.True(power.SelfPowered())
	assert.False(power.BusPowered())
	assert.True(power.RemoteWakeup())
	assert.Equal(uint16(96), power.MaxPower())

	pins := chip.PinDriveStrengths()
	assert.Equal(Drive35Ohm, pins.FifoData())
	assert.Equal(Drive25Ohm, pins.FifoClock())
	assert.Equal(Drive18Ohm, pins.GPIO0())
	assert.Equal(Drive50Ohm, pins.GPIO1())

	assert.Equal(uint8(9), chip.InterruptLatency())

	transfer := chip.DataTransfer()
	assert.Equal(FifoClock66MHz, transfer.FifoClock())
	assert.Equal(FifoMode600, transfer.FifoMode())
	assert.Equal(ChannelsTwo, transfer.ChannelConfig())
}

func TestDecodeOutOfRange(t *testing.T) {
	assert := assert.New(t)
	_, err := Decode(Raw{FIFOClock: 2})
	assert.Error(err)
	_, err = Decode(Raw{FIFOMode: 2})
	assert.Error(err)
	_, err = Decode(Raw{ChannelConfig: 5})
	assert.Error(err)
}

func TestOptionalFeatures(t *testing.T) {
	assert := assert.New(t)

	features := decodeOptionalFeatures(0x0005, 0xe4)
	assert.False(features.AllDisabled())
	assert.False(features.AllEnabled())
	assert.True(features.NotificationEnabled(0))
	assert.False(features.NotificationEnabled(1))
	assert.True(features.UnderrunCheckEnabled())
	assert.False(features.UnderrunDisabled(0))

	battery := features.BatteryCharging()
	require.NotNil(t, battery)
	assert.Equal(uint8(3), battery.DCP())
	assert.Equal(uint8(2), battery.CDP())
	assert.Equal(uint8(1), battery.SDP())

	assert.True(decodeOptionalFeatures(0, 0).AllDisabled())
	assert.Nil(decodeOptionalFeatures(0, 0).BatteryCharging())
	assert.True(decodeOptionalFeatures(0xffff, 0).AllEnabled())
	assert.False(decodeOptionalFeatures(0x0002, 0).UnderrunCheckEnabled())
	assert.True(decodeOptionalFeatures(0x0080, 0).UnderrunDisabled(1))
}

func TestOptionalFeatureBounds(t *testing.T) {
	features := decodeOptionalFeatures(0xffff, 0)
	assert.Panics(t, func() { features.NotificationEnabled(4) })
	assert.Panics(t, func() { features.NotificationEnabled(-1) })
	assert.Panics(t, func() { features.UnderrunDisabled(4) })
}

func TestExtractPartMalformed(t *testing.T) {
	assert := assert.New(t)

	// An all-zero area decodes as three empty strings.
	empty := decodeStringDescriptor([128]byte{})
	assert.Empty(empty.Manufacturer())
	assert.Empty(empty.Product())
	assert.Empty(empty.SerialNumber())

	// A length shorter than its own header ends the walk.
	var broken [128]byte
	broken[0] = 1
	assert.Empty(decodeStringDescriptor(broken).Manufacturer())
	assert.Empty(decodeStringDescriptor(broken).Product())

	// A length running past the area is clamped, not read
	// beyond.
	overrun := stringArea("FTDI")
	overrun[0] = 0xff
	_ = decodeStringDescriptor(overrun)
}

func TestDriveStrengthString(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("50ohm", Drive50Ohm.String())
	assert.Equal("18ohm", Drive18Ohm.String())
	assert.Equal("invalid", DriveStrength(7).String())
}
