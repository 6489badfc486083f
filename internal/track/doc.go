// Package track owns the immutable track data model: detections, tracks,
// the classification calculator, the reusable track builder used by the
// cutting engine, and the in-memory track repository.
//
// Tracks are immutable once built. Cutting and any other reshaping produce
// new Track instances through Builder; nothing in this module mutates a
// Track in place.
package track
