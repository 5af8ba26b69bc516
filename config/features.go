package config

const (
	flagBatteryChargingEnable  = 0x0001
	flagUnderrunDisable        = 0x0002
	flagNotificationEnablePipe = 0x0004
	flagUnderrunDisablePipe    = 0x0040
	flagAllEnabled             = 0xffff
)

// OptionalFeatures is the optional feature section of the
// configuration: battery charging, per-pipe notification
// enables and underrun handling.
type OptionalFeatures struct {
	flags   uint16
	battery *BatteryChargingModes
}

func decodeOptionalFeatures(flags uint16, batteryFlags uint8) OptionalFeatures {
	features := OptionalFeatures{flags: flags}
	if flags&flagBatteryChargingEnable != 0 {
		features.battery = &BatteryChargingModes{flags: batteryFlags}
	}
	return features
}

// AllDisabled reports whether every optional feature is off.
func (f OptionalFeatures) AllDisabled() bool { return f.flags == 0 }

// AllEnabled reports whether every optional feature is on.
func (f OptionalFeatures) AllEnabled() bool { return f.flags == flagAllEnabled }

// BatteryCharging returns the battery charging configuration,
// or nil when battery charging is disabled.
func (f OptionalFeatures) BatteryCharging() *BatteryChargingModes { return f.battery }

// NotificationEnabled reports whether notification messages
// are enabled for the input pipe with the given index, 0
// through 3.
func (f OptionalFeatures) NotificationEnabled(pipeIndex int) bool {
	if pipeIndex < 0 || pipeIndex > 3 {
		panic("config: pipe index out of range")
	}
	return f.flags&(flagNotificationEnablePipe<<pipeIndex) != 0
}

// UnderrunCheckEnabled reports whether the chip checks for
// FIFO underrun conditions at all.
func (f OptionalFeatures) UnderrunCheckEnabled() bool {
	return f.flags&flagUnderrunDisable == 0
}

// UnderrunDisabled reports whether IN transfer cancellation on
// underrun is disabled for the input pipe with the given
// index, 0 through 3.
func (f OptionalFeatures) UnderrunDisabled(pipeIndex int) bool {
	if pipeIndex < 0 || pipeIndex > 3 {
		panic("config: pipe index out of range")
	}
	return f.flags&(flagUnderrunDisablePipe<<pipeIndex) != 0
}

// BatteryChargingModes describes the GPIO levels the chip
// reports for each downstream port type it detects.
type BatteryChargingModes struct {
	flags uint8
}

// DCP returns the GPIO pattern for a dedicated charging port.
func (b BatteryChargingModes) DCP() uint8 { return (b.flags & 0xc0) >> 6 }

// CDP returns the GPIO pattern for a charging downstream port.
func (b BatteryChargingModes) CDP() uint8 { return (b.flags & 0x30) >> 4 }

// SDP returns the GPIO pattern for a standard downstream port.
func (b BatteryChargingModes) SDP() uint8 { return (b.flags & 0x0c) >> 2 }
