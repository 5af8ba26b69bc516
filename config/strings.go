package config

import "unicode/utf16"

// StringDescriptor holds the three configured string
// descriptors of the chip. The native record stores them as
// consecutive length-prefixed UTF-16LE blocks.
type StringDescriptor struct {
	manufacturer string
	product      string
	serialNumber string
}

// Manufacturer returns the manufacturer name.
func (s StringDescriptor) Manufacturer() string { return s.manufacturer }

// Product returns the product name.
func (s StringDescriptor) Product() string { return s.product }

// SerialNumber returns the serial number.
func (s StringDescriptor) SerialNumber() string { return s.serialNumber }

func decodeStringDescriptor(raw [128]byte) StringDescriptor {
	return StringDescriptor{
		manufacturer: extractPart(raw[:], 0),
		product:      extractPart(raw[:], 1),
		serialNumber: extractPart(raw[:], 2),
	}
}

// extractPart pulls the index-th length-prefixed UTF-16LE
// block out of the descriptor area. Each block starts with its
// own total length in bytes followed by a type byte. Malformed
// lengths yield an empty string rather than reading past the
// area.
func extractPart(raw []byte, index int) string {
	const headerSize = 2
	start := 0
	for i := 0; i < index; i++ {
		if start >= len(raw) || raw[start] < headerSize {
			return ""
		}
		start += int(raw[start])
	}
	if start >= len(raw) || raw[start] < headerSize {
		return ""
	}
	length := int(raw[start]) - headerSize
	payload := raw[start+headerSize:]
	if length > len(payload) {
		length = len(payload)
	}
	units := make([]uint16, 0, length/2)
	for i := 0; i+1 < length; i += 2 {
		units = append(units, uint16(payload[i])|uint16(payload[i+1])<<8)
	}
	return string(utf16.Decode(units))
}
