package config

// DriveStrength is the output drive strength of a pin group.
type DriveStrength uint8

const (
	Drive50Ohm DriveStrength = iota
	Drive35Ohm
	Drive25Ohm
	Drive18Ohm
)

func (d DriveStrength) String() string {
	switch d {
	case Drive50Ohm:
		return "50ohm"
	case Drive35Ohm:
		return "35ohm"
	case Drive25Ohm:
		return "25ohm"
	case Drive18Ohm:
		return "18ohm"
	default:
		return "invalid"
	}
}

// PinDriveStrengths groups the drive strengths the MSIO and
// GPIO control words configure.
type PinDriveStrengths struct {
	fifoData  DriveStrength
	fifoClock DriveStrength
	gpio0     DriveStrength
	gpio1     DriveStrength
}

// FifoData returns the FIFO data line drive strength.
func (p PinDriveStrengths) FifoData() DriveStrength { return p.fifoData }

// FifoClock returns the FIFO clock line drive strength.
func (p PinDriveStrengths) FifoClock() DriveStrength { return p.fifoClock }

// GPIO0 returns the drive strength of GPIO pin 0.
func (p PinDriveStrengths) GPIO0() DriveStrength { return p.gpio0 }

// GPIO1 returns the drive strength of GPIO pin 1.
func (p PinDriveStrengths) GPIO1() DriveStrength { return p.gpio1 }

func decodePinDriveStrengths(msio, gpio uint32) (PinDriveStrengths, error) {
	// Each strength is a two-bit field, so every value decodes.
	return PinDriveStrengths{
		fifoData:  DriveStrength(msio & 0b11),
		fifoClock: DriveStrength((msio >> 4) & 0b11),
		gpio0:     DriveStrength((gpio >> 8) & 0b11),
		gpio1:     DriveStrength((gpio >> 10) & 0b11),
	}, nil
}
