package core

// StreamEventKind discriminates the events a stream producer can emit.
type StreamEventKind int

// Stream producer event kinds.
const (
	StreamEventData StreamEventKind = iota
	StreamEventError
	StreamEventDone
)

// StreamEvent is a single tagged event emitted by a stream producer.
// Producers never write to the wire themselves; the transport layer maps
// Data to a content chunk, Error to an in-band error frame and Done to the
// terminal sentinel.
type StreamEvent struct {
	Kind StreamEventKind
	Text string
	Err  string
}
