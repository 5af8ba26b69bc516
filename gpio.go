package d3xx

import "github.com/pkg/errors"

// GpioPin selects one of the two GPIO pins of the chip.
type GpioPin uint8

const (
	GpioPin0 GpioPin = 0
	GpioPin1 GpioPin = 1
)

// GpioDirection configures a pin as input or output.
type GpioDirection uint8

const (
	GpioInput  GpioDirection = 0
	GpioOutput GpioDirection = 1
)

// GpioLevel is the logic level of a pin.
type GpioLevel uint8

const (
	GpioLow  GpioLevel = 0
	GpioHigh GpioLevel = 1
)

// GpioPull selects the internal pull resistor of a pin. Only
// available on Rev. B parts or later.
type GpioPull uint8

const (
	GpioPullDown      GpioPull = 0
	GpioHighImpedance GpioPull = 1
	GpioPullUp        GpioPull = 2
)

// GPIO accesses one GPIO pin of a device. The driver addresses
// pins through a mask word and a value word shifted to the pin
// position; the accessor hides that arithmetic.
type GPIO struct {
	dev *Device
	pin GpioPin
}

// GPIO returns the accessor for one of the device's pins.
func (d *Device) GPIO(pin GpioPin) GPIO {
	return GPIO{dev: d, pin: pin}
}

func (g GPIO) mask() uint32 { return 1 << g.pin }

// Enable enables the pin in the given direction. Once enabled
// a pin cannot be disabled again.
func (g GPIO) Enable(direction GpioDirection) error {
	status := g.dev.drv.EnableGPIO(g.dev.handle, g.mask(), uint32(direction)<<g.pin)
	if err := status.Err(); err != nil {
		return errors.Wrapf(err, "enable gpio %d", g.pin)
	}
	return nil
}

// SetPull configures the internal pull resistor of the pin.
func (g GPIO) SetPull(pull GpioPull) error {
	status := g.dev.drv.SetGPIOPull(g.dev.handle, g.mask(), uint32(pull)<<g.pin)
	if err := status.Err(); err != nil {
		return errors.Wrapf(err, "set pull of gpio %d", g.pin)
	}
	return nil
}

// Write drives the pin to the given level.
func (g GPIO) Write(level GpioLevel) error {
	status := g.dev.drv.WriteGPIO(g.dev.handle, g.mask(), uint32(level)<<g.pin)
	if err := status.Err(); err != nil {
		return errors.Wrapf(err, "write gpio %d", g.pin)
	}
	return nil
}

// Read samples the level of the pin.
func (g GPIO) Read() (GpioLevel, error) {
	var value uint32
	if err := g.dev.drv.ReadGPIO(g.dev.handle, &value).Err(); err != nil {
		return GpioLow, errors.Wrapf(err, "read gpio %d", g.pin)
	}
	return GpioLevel((value >> g.pin) & 1), nil
}
