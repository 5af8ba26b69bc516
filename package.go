// Package d3xx is a safety layer above the FTDI D3XX driver
// for the FT60x series of USB 3.0 FIFO bridge chips.
//
// The vendor library is loaded in a DLLProc+NonCGO manner and
// is assumed to be neither thread-safe nor reentrant, so this
// package serializes the operations that touch shared driver
// state and confines each device handle to one owner.
//
// The real driver is only reachable on windows. Every portable
// part of the package is written against the Driver boundary
// and can be exercised with the in-memory backend found in the
// d3xxtest package.
package d3xx
