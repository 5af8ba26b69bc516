// Package d3xxtest provides an in-memory substitute for the
// vendor library, for testing code built on package d3xx
// without hardware attached.
//
// The driver keeps a configurable device table, mirrors data
// written to an output pipe into a chosen input pipe, records
// pipe aborts, and can synthesize notification events from a
// separate goroutine the way the real driver delivers them.
// Inject it with d3xx.WithDriver.
package d3xxtest
