// Package split classifies the package files of a split Android application
// and picks the subset that matches a device.
//
// Every function here is pure: no I/O, no shared state, safe for concurrent
// use with disjoint inputs.
package split
