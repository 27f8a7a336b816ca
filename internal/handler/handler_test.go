package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-audio/wav"
	"go.uber.org/zap"

	"github.com/benderblog/cp16/glyph"
	"github.com/benderblog/cp16/internal/config"
	"github.com/benderblog/cp16/internal/middleware"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Server{
		Encoding: config.Encoding{
			SampleRate:  8000,
			StartFreq:   1600,
			Step:        15,
			TimePerFont: 0.2,
			Font:        "basic",
		},
		MaxText:       8,
		MaxSeconds:    10,
		MaxSampleRate: 48000,
	}
	srv := httptest.NewServer(NewRouter(NewHandlers(cfg, glyph.Default(), zap.NewNop()), zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != `{"status":"ok"}` {
		t.Errorf("have %d %s", resp.StatusCode, body)
	}
	if resp.Header.Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func decodeWAV(t *testing.T, resp *http.Response) []int {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		t.Fatal("invalid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Data
}

func TestEncodeGet(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/encode?text=Hi")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: have %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "audio/wav" {
		t.Errorf("content type: have %q", ct)
	}
	// Two half-width glyphs, 17 rows of 100 samples each.
	if n := resp.Header.Get("X-CP16-Samples"); n != "3400" {
		t.Errorf("samples header: have %q, want 3400", n)
	}
	if samples := decodeWAV(t, resp); len(samples) != 3400 {
		t.Errorf("decoded samples: have %d, want 3400", len(samples))
	}
}

func TestEncodePost(t *testing.T) {
	srv := newTestServer(t)
	body := `{"text":"A","sampleRate":16000,"disableVertical":true}`
	resp, err := http.Post(srv.URL+"/v1/encode", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: have %d", resp.StatusCode)
	}
	// A half-width glyph takes 8 columns plus a spacer in horizontal mode.
	if n := resp.Header.Get("X-CP16-Samples"); n != "1800" {
		t.Errorf("samples header: have %q, want 1800", n)
	}
	if spr := resp.Header.Get("X-CP16-Samples-Per-Row"); spr != "200" {
		t.Errorf("samples per row header: have %q, want 200", spr)
	}
	decodeWAV(t, resp)
}

func TestEncodeRejects(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name  string
		query string
		body  string
	}{
		{name: "no text", query: ""},
		{name: "too long", query: "text=ninechars"},
		{name: "nyquist", query: "text=a&startFreq=3900&step=10"},
		{name: "bad int", query: "text=a&step=wide"},
		{name: "bad bool", query: "text=a&reverse=maybe"},
		{name: "bad float", query: "text=a&timePerFont=slow"},
		{name: "zero step", query: "text=a&step=0"},
		{name: "tiny rows", query: "text=a&timePerFont=0.0001"},
		{name: "signal too long", query: "text=abc&timePerFont=5"},
		{name: "huge sample rate", query: "text=A&sampleRate=2000000000"},
		{name: "rate above limit", query: "text=A&sampleRate=96000&startFreq=1600"},
		{name: "huge time", query: "text=A&timePerFont=20000000"},
		{name: "bad json", body: `{"text":`},
		{name: "json nyquist", body: `{"text":"a","sampleRate":2000}`},
		{name: "json huge sample rate", body: `{"text":"A","sampleRate":2000000000}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var resp *http.Response
			var err error
			if test.body != "" {
				resp, err = http.Post(srv.URL+"/v1/encode", "application/json", strings.NewReader(test.body))
			} else {
				resp, err = http.Get(srv.URL + "/v1/encode?" + test.query)
			}
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status: have %d, want 400", resp.StatusCode)
			}
			var payload map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				t.Fatal(err)
			}
			if payload["error"] == "" {
				t.Error("missing error message")
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/encode?text=a")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, name := range []string{"cp16_encode_requests_total", "cp16_encoded_samples_total"} {
		if !bytes.Contains(body, []byte(name)) {
			t.Errorf("metrics output has no %s", name)
		}
	}
}
