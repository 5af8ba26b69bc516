package d3xx

import (
	"unicode/utf16"

	"github.com/pkg/errors"

	"github.com/ftlab/d3xx/config"
)

// ClassCodes groups the class, subclass and protocol bytes a
// descriptor carries.
type ClassCodes struct {
	Class    uint8
	SubClass uint8
	Protocol uint8
}

// UsbVersion is a BCD-encoded USB protocol version, e.g.
// 0x0210 for USB 2.1.
type UsbVersion uint16

// Major version number.
func (v UsbVersion) Major() int { return int(v >> 8) }

// Minor version number.
func (v UsbVersion) Minor() int { return int(v>>4) & 0xf }

// descriptorString fetches a string descriptor by index and
// decodes its UTF-16LE payload. Index zero means "no string"
// and decodes as empty.
func descriptorString(drv Driver, handle uintptr, index uint8) (string, error) {
	if index == 0 {
		return "", nil
	}
	var raw RawStringDescriptor
	if err := drv.GetStringDescriptor(handle, index, &raw).Err(); err != nil {
		return "", errors.Wrapf(err, "get string descriptor %d", index)
	}
	const headerSize = 2
	if raw.Length < headerSize {
		return "", nil
	}
	units := int(raw.Length-headerSize) / 2
	if units > len(raw.String) {
		units = len(raw.String)
	}
	return string(utf16.Decode(raw.String[:units])), nil
}

// DeviceDescriptor is the standard USB device descriptor with
// its referenced strings resolved.
type DeviceDescriptor struct {
	raw          RawDeviceDescriptor
	serialNumber string
	manufacturer string
	product      string
}

// DeviceDescriptor fetches the device descriptor and the
// strings it references.
func (d *Device) DeviceDescriptor() (*DeviceDescriptor, error) {
	var raw RawDeviceDescriptor
	if err := d.drv.GetDeviceDescriptor(d.handle, &raw).Err(); err != nil {
		return nil, errors.Wrap(err, "get device descriptor")
	}
	serial, err := descriptorString(d.drv, d.handle, raw.SerialNumberIndex)
	if err != nil {
		return nil, err
	}
	manufacturer, err := descriptorString(d.drv, d.handle, raw.ManufacturerIndex)
	if err != nil {
		return nil, err
	}
	product, err := descriptorString(d.drv, d.handle, raw.ProductIndex)
	if err != nil {
		return nil, err
	}
	return &DeviceDescriptor{
		raw:          raw,
		serialNumber: serial,
		manufacturer: manufacturer,
		product:      product,
	}, nil
}

// SerialNumber returns the device serial number string.
func (d *DeviceDescriptor) SerialNumber() string { return d.serialNumber }

// Manufacturer returns the human-readable manufacturer name.
func (d *DeviceDescriptor) Manufacturer() string { return d.manufacturer }

// Product returns the human-readable product name.
func (d *DeviceDescriptor) Product() string { return d.product }

// VendorID returns the vendor id.
func (d *DeviceDescriptor) VendorID() uint16 { return d.raw.VendorID }

// ProductID returns the product id.
func (d *DeviceDescriptor) ProductID() uint16 { return d.raw.ProductID }

// UsbVersion returns the USB protocol version of the device.
func (d *DeviceDescriptor) UsbVersion() UsbVersion { return UsbVersion(d.raw.BcdUSB) }

// MaxPacketSize returns the maximum packet size, in bytes, of
// endpoint zero.
func (d *DeviceDescriptor) MaxPacketSize() int { return int(d.raw.MaxPacketSize0) }

// ClassCodes returns the device class codes.
func (d *DeviceDescriptor) ClassCodes() ClassCodes {
	return ClassCodes{
		Class:    d.raw.DeviceClass,
		SubClass: d.raw.DeviceSubClass,
		Protocol: d.raw.DeviceProtocol,
	}
}

// ConfigurationDescriptor is the standard USB configuration
// descriptor of the active configuration.
type ConfigurationDescriptor struct {
	raw         RawConfigurationDescriptor
	description string
}

// ConfigurationDescriptor fetches the configuration descriptor
// of the active configuration.
func (d *Device) ConfigurationDescriptor() (*ConfigurationDescriptor, error) {
	var raw RawConfigurationDescriptor
	if err := d.drv.GetConfigurationDescriptor(d.handle, &raw).Err(); err != nil {
		return nil, errors.Wrap(err, "get configuration descriptor")
	}
	description, err := descriptorString(d.drv, d.handle, raw.ConfigurationIndex)
	if err != nil {
		return nil, err
	}
	return &ConfigurationDescriptor{raw: raw, description: description}, nil
}

// Interfaces returns the number of interfaces in this
// configuration.
func (c *ConfigurationDescriptor) Interfaces() int { return int(c.raw.NumInterfaces) }

// ConfigurationValue returns the configuration number.
func (c *ConfigurationDescriptor) ConfigurationValue() uint8 { return c.raw.ConfigurationValue }

// Description returns the configuration description string.
func (c *ConfigurationDescriptor) Description() string { return c.description }

// MaxPower returns the maximum power consumption in
// milliamps. The descriptor stores it in 2 mA units.
func (c *ConfigurationDescriptor) MaxPower() int { return int(c.raw.MaxPower) * 2 }

// SelfPowered reports whether the device is self-powered.
func (c *ConfigurationDescriptor) SelfPowered() bool { return c.raw.Attributes&0x40 != 0 }

// RemoteWakeup reports whether the device supports remote
// wakeup.
func (c *ConfigurationDescriptor) RemoteWakeup() bool { return c.raw.Attributes&0x20 != 0 }

// InterfaceDescriptor is the standard USB interface
// descriptor.
type InterfaceDescriptor struct {
	raw         RawInterfaceDescriptor
	description string
}

// InterfaceDescriptor fetches the descriptor of the interface
// at the given index.
func (d *Device) InterfaceDescriptor(index uint8) (*InterfaceDescriptor, error) {
	var raw RawInterfaceDescriptor
	if err := d.drv.GetInterfaceDescriptor(d.handle, index, &raw).Err(); err != nil {
		return nil, errors.Wrapf(err, "get interface descriptor %d", index)
	}
	description, err := descriptorString(d.drv, d.handle, raw.InterfaceIndex)
	if err != nil {
		return nil, err
	}
	return &InterfaceDescriptor{raw: raw, description: description}, nil
}

// InterfaceNumber returns the number of the interface this
// descriptor describes.
func (i *InterfaceDescriptor) InterfaceNumber() int { return int(i.raw.InterfaceNumber) }

// ClassCodes returns the interface class codes.
func (i *InterfaceDescriptor) ClassCodes() ClassCodes {
	return ClassCodes{
		Class:    i.raw.InterfaceClass,
		SubClass: i.raw.InterfaceSubClass,
		Protocol: i.raw.InterfaceProtocol,
	}
}

// Endpoints returns the number of endpoints the interface
// uses.
func (i *InterfaceDescriptor) Endpoints() int { return int(i.raw.NumEndpoints) }

// AlternateSetting returns the alternate setting number.
func (i *InterfaceDescriptor) AlternateSetting() uint8 { return i.raw.AlternateSetting }

// Description returns the interface description string.
func (i *InterfaceDescriptor) Description() string { return i.description }

// ChipConfiguration reads and decodes the 60x chip
// configuration record. The configuration is read-only here;
// writing it back is out of scope for this package.
func (d *Device) ChipConfiguration() (*config.Chip, error) {
	var raw config.Raw
	if err := d.drv.GetChipConfiguration(d.handle, &raw).Err(); err != nil {
		return nil, errors.Wrap(err, "get chip configuration")
	}
	chip, err := config.Decode(raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode chip configuration")
	}
	return chip, nil
}
