package cp16

import (
	"bytes"
	"io"
	"sync"
	"testing"
)

func TestSyncReader(t *testing.T) {
	e := mustEncoder(t, "a", lowRateConfig())
	total := e.Info().NumSamples
	r := NewSyncReader(e)

	var wg sync.WaitGroup
	var mu sync.Mutex
	bytesRead := 0
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, 64)
			for {
				select {
				case <-r.Done():
					return
				default:
				}
				n, err := r.Read(buf)
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				bytesRead += n
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if bytesRead < 2*total {
		t.Errorf("read %d bytes, expected at least %d", bytesRead, 2*total)
	}
	if r.Progress() != 1 {
		t.Errorf("progress: have %f, want 1", r.Progress())
	}

	buf := []byte{1, 2, 3, 4, 5}
	n, err := r.Read(buf)
	if n != len(buf) || err != nil {
		t.Fatalf("read after the end: n=%d err=%v", n, err)
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d: expected silence, got %d", i, b)
		}
	}
}

func TestSyncReaderOddBuffers(t *testing.T) {
	want, err := io.ReadAll(mustEncoder(t, "ab", lowRateConfig()))
	if err != nil {
		t.Fatal(err)
	}

	for _, size := range []int{1, 3, 7, 33} {
		r := NewSyncReader(mustEncoder(t, "ab", lowRateConfig()))
		var have []byte
		buf := make([]byte, size)
		for len(have) < len(want)+16 {
			n, err := r.Read(buf)
			if n != size || err != nil {
				t.Fatalf("size %d: n=%d err=%v", size, n, err)
			}
			have = append(have, buf...)
		}

		if !bytes.Equal(have[:len(want)], want) {
			t.Fatalf("size %d: the signal bytes are misaligned", size)
		}
		for i, v := range have[len(want):] {
			if v != 0 {
				t.Fatalf("size %d: tail byte %d is %d, expected silence", size, i, v)
			}
		}
		select {
		case <-r.Done():
		default:
			t.Errorf("size %d: Done is not closed", size)
		}
	}
}
