package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/cropsy/pkg/crop"
	cerrors "github.com/matzehuels/cropsy/pkg/errors"
	"github.com/matzehuels/cropsy/pkg/layout"
	"github.com/matzehuels/cropsy/pkg/panner"
	"github.com/matzehuels/cropsy/pkg/pipeline"
	"github.com/matzehuels/cropsy/pkg/relay"
)

// LayoutResponse is the body of GET /v1/layout.
type LayoutResponse struct {
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Count  int           `json:"count"`
	Layout layout.Layout `json:"layout"`
	Crops  []crop.Values `json:"crops"`
	Rects  []crop.Rect   `json:"rects"`
	Cached bool          `json:"cached"`
}

// PannerResponse is the body of GET /v1/panner.
type PannerResponse struct {
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Count  int           `json:"count"`
	Params panner.Params `json:"params"`
	Cached bool          `json:"cached"`
}

// RangeEntry is one count of GET /v1/panner/range.
type RangeEntry struct {
	Count  int            `json:"count"`
	Params *panner.Params `json:"params,omitempty"`
	Error  *ErrorBody     `json:"error,omitempty"`
}

// RangeResponse is the body of GET /v1/panner/range.
type RangeResponse struct {
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Max     int          `json:"max"`
	Entries []RangeEntry `json:"entries"`
}

// RelayRequest is the body of POST /v1/relay. With Single set only Count is
// sent; otherwise every count from 1 to Count.
type RelayRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Count  int     `json:"count"`
	Single bool    `json:"single,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := parseOptions(r, "count", s.runner.MaxCount)
	if err != nil {
		writeError(w, err, 0)
		return
	}

	res, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), opts.Width, opts.Height, opts.Count)
	if err != nil {
		writeError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		Width:  opts.Width,
		Height: opts.Height,
		Count:  opts.Count,
		Layout: res.Layout,
		Crops:  res.Crops,
		Rects:  crop.ToRects(opts.Width, opts.Height, res.Crops),
		Cached: hit,
	})
}

func (s *Server) handlePanner(w http.ResponseWriter, r *http.Request) {
	opts, err := parseOptions(r, "count", s.runner.MaxCount)
	if err != nil {
		writeError(w, err, 0)
		return
	}

	params, hit, err := s.runner.PannerWithCacheInfo(r.Context(), opts.Width, opts.Height, opts.Count)
	if err != nil {
		writeError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, PannerResponse{
		Width:  opts.Width,
		Height: opts.Height,
		Count:  opts.Count,
		Params: params,
		Cached: hit,
	})
}

func (s *Server) handlePannerRange(w http.ResponseWriter, r *http.Request) {
	opts, err := parseOptions(r, "max", s.runner.MaxCount)
	if err != nil {
		writeError(w, err, 0)
		return
	}

	steps, err := s.runner.Range(r.Context(), opts.Width, opts.Height, opts.Count)
	if err != nil {
		writeError(w, err, 0)
		return
	}

	resp := RangeResponse{
		Width:   opts.Width,
		Height:  opts.Height,
		Max:     opts.Count,
		Entries: make([]RangeEntry, 0, len(steps)),
	}
	for _, step := range steps {
		entry := RangeEntry{Count: step.Count}
		if step.Err != nil {
			entry.Error = errorBody(step.Err)
		}
		// Degenerate layouts still carry the values the relay would send.
		if step.Params.Count() == step.Count {
			params := step.Params
			entry.Params = &params
		}
		resp.Entries = append(resp.Entries, entry)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRelay(w http.ResponseWriter, r *http.Request) {
	if s.relay == nil {
		writeError(w, cerrors.New(cerrors.ErrCodeUnsupported, "relay is not running"), http.StatusServiceUnavailable)
		return
	}

	var req RelayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "bad json"), 0)
		return
	}

	var (
		report relay.Report
		err    error
	)
	if req.Single {
		report, err = s.relay.EmitOne(r.Context(), req.Width, req.Height, req.Count)
	} else {
		report, err = s.relay.EmitAll(r.Context(), req.Width, req.Height, req.Count)
	}
	if err != nil {
		writeError(w, err, 0)
		return
	}

	status := http.StatusOK
	if !report.OK() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, report)
}

// parseOptions reads width, height and the count parameter named countKey
// from the query string, applying pipeline defaults. Counts above limit are
// rejected.
func parseOptions(r *http.Request, countKey string, limit int) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Count: pipeline.DefaultCount, MaxCount: limit}

	var err error
	if v := q.Get("width"); v != "" {
		if opts.Width, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, cerrors.New(cerrors.ErrCodeInvalidInput, "width %q is not a number", v)
		}
	}
	if v := q.Get("height"); v != "" {
		if opts.Height, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, cerrors.New(cerrors.ErrCodeInvalidInput, "height %q is not a number", v)
		}
	}
	if v := q.Get(countKey); v != "" {
		if opts.Count, err = strconv.Atoi(v); err != nil {
			return opts, cerrors.New(cerrors.ErrCodeInvalidInput, "%s %q is not an integer", countKey, v)
		}
	}
	if opts.Width == 0 && opts.Height == 0 {
		opts.Width, opts.Height = pipeline.DefaultWidth, pipeline.DefaultHeight
	} else if opts.Width == 0 || opts.Height == 0 {
		return opts, cerrors.New(cerrors.ErrCodeInvalidDimension, "width and height must both be given")
	}
	return opts, opts.ValidateAndSetDefaults()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err as JSON. A zero status is derived from the error
// code.
func writeError(w http.ResponseWriter, err error, status int) {
	if status == 0 {
		status = StatusFor(err)
	}
	writeJSON(w, status, map[string]*ErrorBody{"error": errorBody(err)})
}

func errorBody(err error) *ErrorBody {
	code := cerrors.GetCode(err)
	if code == "" {
		code = cerrors.ErrCodeInternal
	}
	return &ErrorBody{Code: string(code), Message: cerrors.UserMessage(err)}
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(err error) int {
	switch {
	case cerrors.IsInvalid(err):
		return http.StatusBadRequest
	case cerrors.IsUnusable(err):
		return http.StatusUnprocessableEntity
	}
	switch cerrors.GetCode(err) {
	case cerrors.ErrCodeTransport, cerrors.ErrCodeNetwork:
		return http.StatusBadGateway
	case cerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case cerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
