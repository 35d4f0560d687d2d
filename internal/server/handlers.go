package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/showheat/showheat"
)

// maxRequestBody bounds a posted grid. Even a very long-running show
// is a few kilobytes of ratings.
const maxRequestBody = 8 << 20

// renderRequest is the POST /v1/heatmap body. Null ratings mark
// missing cells; options follow the theme file body.
type renderRequest struct {
	Title   string          `json:"title,omitempty"`
	Values  [][]*float64    `json:"values"`
	XLabels []string        `json:"x_labels,omitempty"`
	YLabels []string        `json:"y_labels,omitempty"`
	Options *showheat.Theme `json:"options,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"svg":  "image/svg+xml",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	m, err := showheat.NewMatrix(gridFromRequest(req.Values))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := showheat.DefaultOptions()
	if req.Options != nil {
		if err := req.Options.Apply(opts); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if len(req.XLabels) > 0 {
		opts.XLabels = req.XLabels
	}
	if len(req.YLabels) > 0 {
		opts.YLabels = req.YLabels
	}
	if err := opts.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts.FontCache = s.fonts

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "png"
	}

	var buf bytes.Buffer
	if err := showheat.Encode(&buf, m, format, opts); err != nil {
		status := http.StatusInternalServerError
		var de *showheat.DataError
		var ce *showheat.ConfigError
		if errors.As(err, &de) || errors.As(err, &ce) {
			status = http.StatusBadRequest
		}
		if status == http.StatusInternalServerError {
			log.Printf("[ERROR] render failed: %v", err)
		}
		writeError(w, status, err.Error())
		return
	}

	ct := contentTypes[format]
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[WARN] write response: %v", err)
	}
}

func (s *Server) handleColormaps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"colormaps": showheat.ColormapNames(),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// gridFromRequest converts the wire grid into render values, mapping
// JSON nulls to missing cells.
func gridFromRequest(values [][]*float64) [][]float64 {
	grid := make([][]float64, len(values))
	for i, row := range values {
		cells := make([]float64, len(row))
		for j, v := range row {
			if v == nil {
				cells[j] = showheat.Missing()
				continue
			}
			cells[j] = *v
		}
		grid[i] = cells
	}
	return grid
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
