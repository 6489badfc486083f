// Package section owns the user-defined counting geometries: line sections
// and polygonal areas, their per-event-type offset configuration, the
// opaque plugin-data bag, and the in-memory section repository.
//
// The section variant set is closed. Code dispatching on Section.Kind
// switches exhaustively over KindLine and KindArea; adding a third kind is
// intentionally a compile-touching exercise rather than runtime
// registration.
package section
