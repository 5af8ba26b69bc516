package d3xx

import "fmt"

// Status is a raw status code returned by the vendor library.
// Zero means success, codes 1 through 32 are defined failures,
// and everything else is folded into ErrOther.
type Status uint32

// StatusSuccess is the only non-failure status.
const StatusSuccess Status = 0

// Error is the closed taxonomy of driver failures. The vendor
// documentation rarely explains which call can fail with which
// code, so callers are encouraged to treat these as opaque and
// use a catch-all approach.
type Error uint8

const (
	ErrInvalidHandle Error = iota + 1
	ErrDeviceNotFound
	ErrDeviceNotOpened
	ErrIO
	ErrInsufficientResources
	ErrInvalidParameter
	ErrInvalidBaudRate
	ErrDeviceNotOpenedForErase
	ErrDeviceNotOpenedForWrite
	ErrFailedToWriteDevice
	ErrEEPROMReadFailed
	ErrEEPROMWriteFailed
	ErrEEPROMEraseFailed
	ErrEEPROMNotPresent
	ErrEEPROMNotProgrammed
	ErrInvalidArgs
	ErrNotSupported
	ErrNoMoreItems
	ErrTimeout
	ErrOperationAborted
	ErrReservedPipe
	ErrInvalidControlRequestDirection
	ErrInvalidControlRequestType
	ErrIOPending
	ErrIOIncomplete
	ErrHandleEOF
	ErrBusy
	ErrNoSystemResources
	ErrDeviceListNotReady
	ErrDeviceNotConnected
	ErrIncorrectDevicePath

	// ErrOther covers status codes the taxonomy does not know.
	ErrOther
)

var errorNames = [...]string{
	ErrInvalidHandle:                  "invalid handle",
	ErrDeviceNotFound:                 "device not found",
	ErrDeviceNotOpened:                "device not opened",
	ErrIO:                             "io error",
	ErrInsufficientResources:          "insufficient resources",
	ErrInvalidParameter:               "invalid parameter",
	ErrInvalidBaudRate:                "invalid baud rate",
	ErrDeviceNotOpenedForErase:        "device not opened for erase",
	ErrDeviceNotOpenedForWrite:        "device not opened for write",
	ErrFailedToWriteDevice:            "failed to write device",
	ErrEEPROMReadFailed:               "eeprom read failed",
	ErrEEPROMWriteFailed:              "eeprom write failed",
	ErrEEPROMEraseFailed:              "eeprom erase failed",
	ErrEEPROMNotPresent:               "eeprom not present",
	ErrEEPROMNotProgrammed:            "eeprom not programmed",
	ErrInvalidArgs:                    "invalid args",
	ErrNotSupported:                   "not supported",
	ErrNoMoreItems:                    "no more items",
	ErrTimeout:                        "timeout",
	ErrOperationAborted:               "operation aborted",
	ErrReservedPipe:                   "reserved pipe",
	ErrInvalidControlRequestDirection: "invalid control request direction",
	ErrInvalidControlRequestType:      "invalid control request type",
	ErrIOPending:                      "io pending",
	ErrIOIncomplete:                   "io incomplete",
	ErrHandleEOF:                      "handle eof",
	ErrBusy:                           "busy",
	ErrNoSystemResources:              "no system resources",
	ErrDeviceListNotReady:             "device list not ready",
	ErrDeviceNotConnected:             "device not connected",
	ErrIncorrectDevicePath:            "incorrect device path",
	ErrOther:                          "other error",
}

// Code returns the numeric driver error code of e.
func (e Error) Code() uint8 { return uint8(e) }

func (e Error) Error() string {
	name := "other error"
	if int(e) < len(errorNames) && errorNames[e] != "" {
		name = errorNames[e]
	}
	return fmt.Sprintf("d3xx: %s (status %d)", name, e.Code())
}

// Err translates the status into the error taxonomy. Success
// yields nil; unknown codes yield ErrOther.
func (s Status) Err() error {
	switch {
	case s == StatusSuccess:
		return nil
	case s <= Status(ErrOther):
		return Error(s)
	default:
		return ErrOther
	}
}
