package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lutforge/lutforge/pkg/cube"
	"github.com/lutforge/lutforge/pkg/lut"
	"github.com/lutforge/lutforge/pkg/pipeline"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := log.New(os.Stderr)
	logger.SetLevel(log.FatalLevel)
	return NewServer(pipeline.NewRunner(nil, nil, logger), logger)
}

func TestFormatsEndpoint(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/formats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var body struct {
		Formats []struct {
			Key      string `json:"key"`
			FullName string `json:"full_name"`
			Gamut    string `json:"gamut"`
		} `json:"formats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Formats) != 14 {
		t.Errorf("got %d formats, want 14", len(body.Formats))
	}
	for _, f := range body.Formats {
		if f.Key == "" || f.FullName == "" || f.Gamut == "" {
			t.Errorf("incomplete format entry: %+v", f)
		}
	}
}

func TestGenerateEndpoint(t *testing.T) {
	s := testServer(t)
	body, _ := json.Marshal(map[string]any{
		"source": "LogC4", "target": "S-Log3", "size": 5,
	})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/api/generate", bytes.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "LogC4_to_S-Log3.cube") {
		t.Errorf("Content-Disposition = %q", got)
	}
	if rec.Header().Get("X-Clipped-Ratio") == "" {
		t.Error("missing X-Clipped-Ratio header")
	}

	grid, err := cube.Read(rec.Body, "")
	if err != nil {
		t.Fatal(err)
	}
	if grid.Size != 5 {
		t.Errorf("Size = %d, want 5", grid.Size)
	}
}

func TestGenerateEndpointErrors(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"unknown format", `{"source":"S-Log3","target":"nope"}`, http.StatusNotFound, "UNKNOWN_FORMAT"},
		{"bad size", `{"source":"S-Log3","target":"LogC4","size":1}`, http.StatusBadRequest, "INVALID_SIZE"},
		{"bad json", `{`, http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/api/generate", strings.NewReader(tt.body)))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			var e struct {
				Code string `json:"code"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
				t.Fatal(err)
			}
			if e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func multipartLUTs(t *testing.T, grids map[string]*lut.Grid) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, g := range grids {
		fw, err := w.CreateFormFile(field, g.Name+".cube")
		if err != nil {
			t.Fatal(err)
		}
		if err := cube.Write(fw, g); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestCombineEndpoint(t *testing.T) {
	s := testServer(t)
	body, contentType := multipartLUTs(t, map[string]*lut.Grid{
		"first":  lut.NewIdentity(9, "A"),
		"second": lut.NewIdentity(5, "B"),
	})

	req := httptest.NewRequest("POST", "/api/combine", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	grid, err := cube.Read(rec.Body, "")
	if err != nil {
		t.Fatal(err)
	}
	// The combined LUT keeps the first input's resolution.
	if grid.Size != 9 {
		t.Errorf("Size = %d, want 9", grid.Size)
	}
	if grid.Name != "A_PLUS_B" {
		t.Errorf("Name = %q, want A_PLUS_B", grid.Name)
	}
}

func TestCombineEndpointMissingUpload(t *testing.T) {
	s := testServer(t)
	body, contentType := multipartLUTs(t, map[string]*lut.Grid{
		"first": lut.NewIdentity(5, "A"),
	})

	req := httptest.NewRequest("POST", "/api/combine", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
