package config

import (
	"fmt"
)

// Server is the cp16-server configuration.
type Server struct {
	// Encoding holds the defaults for the request parameters.
	Encoding

	ListenAddr string

	// MaxText limits the request text length, in characters.
	MaxText int

	// MaxSeconds limits the encoded signal duration.
	MaxSeconds float64

	// MaxSampleRate limits the requested sample rate, in Hz.
	MaxSampleRate int
}

// MaxSamples is the largest signal the server agrees to render.
func (s *Server) MaxSamples() int {
	return int(s.MaxSeconds * float64(s.MaxSampleRate))
}

// LoadServer reads the server configuration from the environment.
func LoadServer() (*Server, error) {
	return loadServer(newEnvReader())
}

func loadServer(env *envReader) (*Server, error) {
	cfg := &Server{
		Encoding:   defaultEncoding(env),
		ListenAddr: env.String("CP16_LISTEN_ADDR", ":8080"),
		MaxText:    env.Int("CP16_MAX_TEXT", 64),
		MaxSeconds: env.Float("CP16_MAX_SECONDS", 120),

		MaxSampleRate: env.Int("CP16_MAX_SAMPLE_RATE", 48000),
	}
	if env.err != nil {
		return nil, env.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxText <= 0 {
		return nil, fmt.Errorf("CP16_MAX_TEXT must be positive, got %d", cfg.MaxText)
	}
	if !(cfg.MaxSeconds > 0) {
		return nil, fmt.Errorf("CP16_MAX_SECONDS must be positive, got %v", cfg.MaxSeconds)
	}
	if cfg.MaxSampleRate <= 0 {
		return nil, fmt.Errorf("CP16_MAX_SAMPLE_RATE must be positive, got %d", cfg.MaxSampleRate)
	}
	if cfg.SampleRate > cfg.MaxSampleRate {
		return nil, fmt.Errorf("CP16_SAMPLE_RATE %d exceeds CP16_MAX_SAMPLE_RATE %d", cfg.SampleRate, cfg.MaxSampleRate)
	}
	return cfg, nil
}
