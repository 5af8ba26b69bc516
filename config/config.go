package config

import "github.com/pkg/errors"

// Raw is the chip configuration record in the layout the
// driver fills in. Field names follow the native structure.
type Raw struct {
	VendorID                  uint16
	ProductID                 uint16
	StringDescriptors         [128]byte
	Reserved                  uint8
	PowerAttributes           uint8
	PowerConsumption          uint16
	Reserved2                 uint8
	FIFOClock                 uint8
	FIFOMode                  uint8
	ChannelConfig             uint8
	OptionalFeatureSupport    uint16
	BatteryChargingGPIOConfig uint8
	FlashEEPROMDetection      uint8
	MSIOControl               uint32
	GPIOControl               uint32
	Interval                  uint8
}

// Chip is a decoded chip configuration.
type Chip struct {
	vid              uint16
	pid              uint16
	strings          StringDescriptor
	power            Power
	pins             PinDriveStrengths
	interruptLatency uint8
	transfer         DataTransfer
	features         OptionalFeatures
}

// Decode translates a raw configuration record. It fails when
// an enumerated field carries a value outside its defined
// range.
func Decode(raw Raw) (*Chip, error) {
	pins, err := decodePinDriveStrengths(raw.MSIOControl, raw.GPIOControl)
	if err != nil {
		return nil, err
	}
	transfer, err := decodeDataTransfer(raw.FIFOClock, raw.FIFOMode, raw.ChannelConfig)
	if err != nil {
		return nil, err
	}
	return &Chip{
		vid:              raw.VendorID,
		pid:              raw.ProductID,
		strings:          decodeStringDescriptor(raw.StringDescriptors),
		power:            Power{flags: raw.PowerAttributes, maxPower: raw.PowerConsumption},
		pins:             pins,
		interruptLatency: raw.Interval,
		transfer:         transfer,
		features:         decodeOptionalFeatures(raw.OptionalFeatureSupport, raw.BatteryChargingGPIOConfig),
	}, nil
}

// VendorID returns the configured vendor id.
func (c *Chip) VendorID() uint16 { return c.vid }

// ProductID returns the configured product id.
func (c *Chip) ProductID() uint16 { return c.pid }

// StringDescriptor returns the configured manufacturer,
// product and serial number strings.
func (c *Chip) StringDescriptor() StringDescriptor { return c.strings }

// Power returns the power configuration.
func (c *Chip) Power() Power { return c.power }

// PinDriveStrengths returns the configured pin drive
// strengths.
func (c *Chip) PinDriveStrengths() PinDriveStrengths { return c.pins }

// InterruptLatency returns the interrupt latency, 1 through
// 16. The latency translates to 2**(latency-1) USB frames of
// 125us each.
func (c *Chip) InterruptLatency() uint8 { return c.interruptLatency }

// DataTransfer returns the FIFO and channel configuration.
func (c *Chip) DataTransfer() DataTransfer { return c.transfer }

// OptionalFeatures returns the optional feature flags.
func (c *Chip) OptionalFeatures() OptionalFeatures { return c.features }

// Power is the power section of the configuration.
type Power struct {
	flags    uint8
	maxPower uint16
}

// SelfPowered reports whether the device is self-powered.
func (p Power) SelfPowered() bool { return p.flags&0x40 != 0 }

// BusPowered reports whether the device is bus-powered.
func (p Power) BusPowered() bool { return !p.SelfPowered() }

// RemoteWakeup reports whether remote wakeup is supported.
func (p Power) RemoteWakeup() bool { return p.flags&0x20 != 0 }

// MaxPower returns the maximum power consumption.
func (p Power) MaxPower() uint16 { return p.maxPower }

func errOutOfRange(field string, value uint64) error {
	return errors.Errorf("config: field %s value %d out of range", field, value)
}
