// Package event owns the typed crossing-event model: the Event record, the
// stateful builders used by the intersection strategies, and the in-memory
// event repository with batch change notification.
//
// Events are created exactly once per crossing and never mutated afterwards.
package event
