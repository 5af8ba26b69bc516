// Package config decodes the FT60x chip configuration record.
//
// The record is read from an open device as one fixed-layout
// native structure; this package turns its packed bit fields
// into typed values. Writing a changed configuration back to
// the chip is intentionally not supported, the vendor's
// configuration utility should be used for that.
package config
