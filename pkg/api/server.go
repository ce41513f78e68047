// Package api exposes LUT generation and combination over HTTP.
//
// The server is a thin JSON/multipart front over the same pipeline and
// composition code the CLI uses. Generated LUTs are returned as .cube
// bodies; failures are JSON objects carrying the machine-readable error
// code.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lutforge/lutforge/pkg/colorimetry"
	"github.com/lutforge/lutforge/pkg/cube"
	"github.com/lutforge/lutforge/pkg/errors"
	"github.com/lutforge/lutforge/pkg/lut"
	"github.com/lutforge/lutforge/pkg/pipeline"
)

// maxUploadBytes bounds combine uploads. A 256³ LUT serializes well
// under this.
const maxUploadBytes = 512 << 20

// Server handles LUT requests over HTTP.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// NewServer wires the routes. A nil logger uses the package default.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Get("/formats", s.handleFormats)
		r.Post("/generate", s.handleGenerate)
		r.Post("/combine", s.handleCombine)
	})
	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// formatInfo is the JSON shape of one registry entry.
type formatInfo struct {
	Key      string `json:"key"`
	FullName string `json:"full_name"`
	Gamut    string `json:"gamut"`
}

// handleFormats lists the supported log formats.
func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	formats := colorimetry.Formats()
	out := make([]formatInfo, len(formats))
	for i, f := range formats {
		out[i] = formatInfo{Key: f.Key, FullName: f.FullName, Gamut: f.Space.Name}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"formats": out})
}

// generateRequest is the JSON body of POST /api/generate.
type generateRequest struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	Size       int    `json:"size"`
	Adaptation string `json:"adaptation"`
}

// handleGenerate synthesizes a conversion LUT and streams it back as a
// .cube attachment. The analysis report travels in response headers so
// the body stays a plain LUT file.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "decoding request body: %v", err))
		return
	}

	grid, report, err := s.runner.Generate(r.Context(), pipeline.Options{
		Source:     req.Source,
		Target:     req.Target,
		Size:       req.Size,
		Adaptation: colorimetry.Adaptation(req.Adaptation),
		Logger:     s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("X-Clipped-Ratio", fmt.Sprintf("%.6f", report.Stats.ClippedRatio))
	w.Header().Set("X-Cache-Hit", fmt.Sprintf("%t", report.CacheHit))
	s.writeCube(w, grid)
}

// handleCombine composes two uploaded LUTs (multipart fields "first" and
// "second", applied in that order) and streams the combined .cube back.
func (s *Server) handleCombine(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "parsing multipart form: %v", err))
		return
	}

	first, err := s.formGrid(r, "first")
	if err != nil {
		s.writeError(w, err)
		return
	}
	second, err := s.formGrid(r, "second")
	if err != nil {
		s.writeError(w, err)
		return
	}

	combined, err := lut.Compose(first, second)
	if err != nil {
		s.writeError(w, err)
		return
	}

	stats := lut.Analyze(combined)
	w.Header().Set("X-Clipped-Ratio", fmt.Sprintf("%.6f", stats.ClippedRatio))
	s.writeCube(w, combined)
}

// formGrid parses the named multipart file as a LUT.
func (s *Server) formGrid(r *http.Request, field string) (*lut.Grid, error) {
	f, header, err := r.FormFile(field)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing upload %q", field)
	}
	defer f.Close()

	grid, err := cube.Read(f, cube.BaseName(header.Filename))
	if err != nil {
		return nil, err
	}
	return grid, nil
}

// writeCube streams a grid as a .cube attachment.
func (s *Server) writeCube(w http.ResponseWriter, g *lut.Grid) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", g.Name+cube.Extension))
	if err := cube.Write(w, g); err != nil {
		s.logger.Error("streaming LUT failed", "error", err)
	}
}

// writeJSON marshals v with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response failed", "error", err)
	}
}

// writeError maps a coded error to an HTTP status and JSON body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusBadRequest
	switch code {
	case errors.ErrCodeInternal, errors.ErrCodeIO:
		status = http.StatusInternalServerError
	case errors.ErrCodeUnknownFormat, errors.ErrCodeUnknownAdaptation:
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(code),
	})
}
