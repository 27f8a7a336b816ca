package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/benderblog/cp16/glyph"
	"github.com/benderblog/cp16/internal/config"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	cfg    *config.Server
	font   glyph.Font
	logger *zap.Logger
}

// NewHandlers creates handlers that encode with the font.
// Request parameters default to cfg values.
func NewHandlers(cfg *config.Server, font glyph.Font, logger *zap.Logger) *Handlers {
	return &Handlers{cfg: cfg, font: font, logger: logger}
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
