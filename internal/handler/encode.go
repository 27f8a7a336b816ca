package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/benderblog/cp16"
	"github.com/benderblog/cp16/internal/config"
	"github.com/benderblog/cp16/internal/metrics"
	"github.com/benderblog/cp16/internal/middleware"
	"github.com/benderblog/cp16/internal/wavfile"
)

const maxBodyBytes = 64 << 10

// EncodeRequest is the POST /v1/encode body.
// Omitted parameters use the server defaults.
type EncodeRequest struct {
	Text            string   `json:"text"`
	SampleRate      *int     `json:"sampleRate,omitempty"`
	StartFreq       *int     `json:"startFreq,omitempty"`
	Step            *int     `json:"step,omitempty"`
	TimePerFont     *float64 `json:"timePerFont,omitempty"`
	DisableVertical *bool    `json:"disableVertical,omitempty"`
	Reverse         *bool    `json:"reverse,omitempty"`
}

func (req *EncodeRequest) apply(e *config.Encoding) {
	if req.SampleRate != nil {
		e.SampleRate = *req.SampleRate
	}
	if req.StartFreq != nil {
		e.StartFreq = *req.StartFreq
	}
	if req.Step != nil {
		e.Step = *req.Step
	}
	if req.TimePerFont != nil {
		e.TimePerFont = *req.TimePerFont
	}
	if req.DisableVertical != nil {
		e.DisableVertical = *req.DisableVertical
	}
	if req.Reverse != nil {
		e.Reverse = *req.Reverse
	}
}

// Encode handles GET and POST /v1/encode.
// It responds with a mono 16-bit WAV file.
func (h *Handlers) Encode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	metrics.EncodesInFlight.Inc()
	defer func() {
		metrics.EncodesInFlight.Dec()
		metrics.EncodeLatency.Observe(float64(time.Since(start).Milliseconds()))
	}()

	logger := h.logger.With(zap.String("requestId", middleware.GetRequestID(r.Context())))

	var req EncodeRequest
	var err error
	if r.Method == http.MethodPost {
		err = json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	} else {
		req, err = parseQuery(r.URL.Query())
	}
	if err != nil {
		h.reject(w, fmt.Sprintf("invalid request: %v", err))
		return
	}

	if req.Text == "" {
		h.reject(w, cp16.ErrEmptyGlyphSequence.Error())
		return
	}
	if n := utf8.RuneCountInString(req.Text); n > h.cfg.MaxText {
		h.reject(w, fmt.Sprintf("text is too long: %d characters, the limit is %d", n, h.cfg.MaxText))
		return
	}

	settings := h.cfg.Encoding
	req.apply(&settings)
	if err := settings.Validate(); err != nil {
		h.reject(w, err.Error())
		return
	}
	if settings.SampleRate > h.cfg.MaxSampleRate {
		h.reject(w, fmt.Sprintf("sample rate %d Hz exceeds the %d Hz limit", settings.SampleRate, h.cfg.MaxSampleRate))
		return
	}

	encoderConfig := settings.EncoderConfig(h.font)
	encoderConfig.OnMissingGlyph = func(index int, c rune) {
		metrics.MissingGlyphsTotal.Inc()
		logger.Debug("no glyph for a character", zap.Int("index", index), zap.String("char", string(c)))
	}
	enc, err := cp16.NewEncoder(req.Text, encoderConfig)
	if err != nil {
		if errors.Is(err, cp16.ErrInvalidConfig) ||
			errors.Is(err, cp16.ErrFrequencyExceedsNyquist) ||
			errors.Is(err, cp16.ErrEmptyGlyphSequence) {
			h.reject(w, err.Error())
			return
		}
		metrics.EncodeRequestsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		logger.Error("create encoder", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "encoder failure")
		return
	}

	info := enc.Info()
	if info.NumSamples > h.cfg.MaxSamples() || info.Duration.Seconds() > h.cfg.MaxSeconds {
		h.reject(w, fmt.Sprintf("signal is too long: %.1fs, the limit is %.1fs",
			info.Duration.Seconds(), h.cfg.MaxSeconds))
		return
	}

	var buf wavfile.Buffer
	if _, err := wavfile.Write(&buf, info.SampleRate, enc); err != nil {
		metrics.EncodeRequestsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		logger.Error("write wav", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "encoder failure")
		return
	}

	metrics.EncodeRequestsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.EncodedSamplesTotal.Add(float64(info.NumSamples))
	metrics.EncodedGlyphsTotal.Add(float64(info.NumGlyphs))
	metrics.SignalSeconds.Observe(info.Duration.Seconds())
	logger.Debug("encoded",
		zap.Int("glyphs", info.NumGlyphs),
		zap.Int("samples", info.NumSamples),
		zap.Duration("signal", info.Duration),
	)

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-CP16-Samples", strconv.Itoa(info.NumSamples))
	w.Header().Set("X-CP16-Samples-Per-Row", strconv.Itoa(info.SamplesPerRow))
	buf.WriteTo(w)
}

func (h *Handlers) reject(w http.ResponseWriter, msg string) {
	metrics.EncodeRequestsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
	writeError(w, http.StatusBadRequest, msg)
}

func parseQuery(q url.Values) (EncodeRequest, error) {
	req := EncodeRequest{Text: q.Get("text")}

	ints := []struct {
		key string
		dst **int
	}{
		{"sampleRate", &req.SampleRate},
		{"startFreq", &req.StartFreq},
		{"step", &req.Step},
	}
	for _, p := range ints {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%s: %q is not an integer", p.key, v)
		}
		*p.dst = &n
	}

	bools := []struct {
		key string
		dst **bool
	}{
		{"disableVertical", &req.DisableVertical},
		{"reverse", &req.Reverse},
	}
	for _, p := range bools {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("%s: %q is not a boolean", p.key, v)
		}
		*p.dst = &b
	}

	if v := q.Get("timePerFont"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, fmt.Errorf("timePerFont: %q is not a number", v)
		}
		req.TimePerFont = &f
	}

	return req, nil
}
