package cp16

import (
	"io"
	"sync"
)

// SyncReader makes an Encoder usable from an audio device callback.
//
// All reads are serialized. Buffers of any length are accepted:
// when a sample is split between two reads, its second byte starts
// the next read. Once the encoder is exhausted, the rest of the buffer
// is filled with silence and Done channel is closed; SyncReader keeps
// producing silence after that, so devices that require full buffers
// are never starved.
type SyncReader struct {
	mu       sync.Mutex
	enc      *Encoder
	total    int
	done     chan struct{}
	doneOnce sync.Once

	// pending is the high byte of a sample split by the previous read.
	pending    byte
	hasPending bool
}

// NewSyncReader wraps the encoder.
// The encoder must not be used directly after that.
func NewSyncReader(enc *Encoder) *SyncReader {
	return &SyncReader{
		enc:   enc,
		total: enc.Info().NumSamples,
		done:  make(chan struct{}),
	}
}

// Done returns a channel that is closed when the encoder runs out of samples.
func (r *SyncReader) Done() <-chan struct{} { return r.done }

// Progress reports the fraction of the signal that was read so far, in [0, 1].
func (r *SyncReader) Progress() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return float64(r.enc.Position()) / float64(r.total)
}

// Read implements io.Reader.
// It always fills the entire slice and never returns an error.
func (r *SyncReader) Read(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	if r.hasPending && len(b) != 0 {
		b[0] = r.pending
		r.hasPending = false
		n = 1
	}
	if len(b)-n >= bytesPerSample && !r.enc.Exhausted() {
		m, err := r.enc.Read(b[n:])
		n += m
		if err != nil && err != io.EOF {
			return n, err
		}
	}
	if len(b)-n == 1 && !r.enc.Exhausted() {
		var sample [bytesPerSample]byte
		if m, _ := r.enc.Read(sample[:]); m == bytesPerSample {
			b[n] = sample[0]
			n++
			r.pending = sample[1]
			r.hasPending = true
		}
	}

	if r.enc.Exhausted() && !r.hasPending {
		r.doneOnce.Do(func() { close(r.done) })
	}
	for i := n; i < len(b); i++ {
		b[i] = 0
	}
	return len(b), nil
}
