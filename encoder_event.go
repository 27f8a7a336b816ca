package cp16

// EncoderEventKind is an event tag that should be used to differentiate between different event types.
// See EncoderEvent docs for more info.
type EncoderEventKind int

const (
	// EventUnknown is a sentinel value.
	// You should never receive an event of this kind.
	EventUnknown EncoderEventKind = iota

	// EventGlyph is emitted when the encoder starts to render a glyph.
	// EncoderEvent.Glyph and EncoderEvent.Rune describe that glyph.
	EventGlyph

	// EventEnd is emitted once, when the encoder runs out of samples.
	// A rewind makes it possible to receive it again.
	EventEnd
)

func (k EncoderEventKind) String() string {
	switch k {
	case EventGlyph:
		return "glyph"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

// EncoderEvent holds a single Encoder event data.
// This object is an argument to the Encoder.SetEventHandler function.
//
// Every event has a Time value. This is a moment when this event happened in
// relation to the signal start (in seconds), as if the signal was played
// in real time at the configured sample rate.
type EncoderEvent struct {
	Kind EncoderEventKind

	// Glyph is an index of the glyph inside the rendering order.
	// For EventEnd it's equal to the number of glyphs.
	Glyph int

	// Rune is the character being rendered (EventGlyph only).
	Rune rune

	// Sample is the index of the first sample produced after the event.
	Sample int

	// Time represents the signal offset in seconds.
	Time float64
}
