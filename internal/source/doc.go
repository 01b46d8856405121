// Package source provides the item sources that feed a liveset view.
//
// A Source exposes a snapshot and a change stream whose first event is always
// a Reset. Manual is mutated directly by its owner. Sorted and Filtered derive
// their snapshot from an upstream source. Container republishes whichever
// source it currently points at, turning a swap into an ordinary batch so
// that downstream observers never see the stream restart.
package source
