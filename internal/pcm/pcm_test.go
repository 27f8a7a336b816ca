package pcm

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"
)

func TestAppendSamples(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 0x1234}
	b := AppendSamples(nil, samples)
	want := []byte{
		0x00, 0x00,
		0x01, 0x00,
		0xff, 0xff,
		0xff, 0x7f,
		0x00, 0x80,
		0x34, 0x12,
	}
	if !bytes.Equal(b, want) {
		t.Fatalf("have % x\nwant % x", b, want)
	}

	decoded := Samples(append(b, 0xaa))
	if len(decoded) != len(samples) {
		t.Fatalf("sample count: have %d, want %d", len(decoded), len(samples))
	}
	for i := range samples {
		if decoded[i] != samples[i] {
			t.Errorf("sample %d: have %d, want %d", i, decoded[i], samples[i])
		}
	}
}

func TestStereo(t *testing.T) {
	samples := []int16{100, -200, 300, -400, 500}
	mono := AppendSamples(nil, samples)

	tests := []struct {
		name string
		src  io.Reader
	}{
		{"whole", bytes.NewReader(mono)},
		{"one byte", iotest.OneByteReader(bytes.NewReader(mono))},
		{"half", iotest.HalfReader(bytes.NewReader(mono))},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// A 6 byte buffer fits a single frame only.
			data, err := readAll(NewStereo(test.src), 6)
			if err != nil {
				t.Fatal(err)
			}
			stereo := Samples(data)
			if len(stereo) != 2*len(samples) {
				t.Fatalf("sample count: have %d, want %d", len(stereo), 2*len(samples))
			}
			for i, v := range samples {
				if stereo[2*i] != v || stereo[2*i+1] != v {
					t.Errorf("frame %d: have (%d, %d), want %d", i, stereo[2*i], stereo[2*i+1], v)
				}
			}
		})
	}
}

func TestStereoShortBuffer(t *testing.T) {
	s := NewStereo(bytes.NewReader([]byte{1, 2}))
	if _, err := s.Read(make([]byte, 3)); err != io.ErrShortBuffer {
		t.Errorf("expected io.ErrShortBuffer, got %v", err)
	}
}

func readAll(r io.Reader, bufSize int) ([]byte, error) {
	var out []byte
	buf := make([]byte, bufSize)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}
