package server

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pinout/pkg/buildinfo"
	"github.com/matzehuels/pinout/pkg/errors"
	"github.com/matzehuels/pinout/pkg/pipeline"
	"github.com/matzehuels/pinout/pkg/store"
)

const defaultListLimit = 50

var contentTypes = map[string]string{
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
	pipeline.FormatPDF: "application/pdf",
}

// renderSummary is a stored render without its artifacts.
type renderSummary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	DescriptionHash string    `json:"description_hash"`
	Page            string    `json:"page,omitempty"`
	DPI             int       `json:"dpi,omitempty"`
	Elements        int       `json:"elements"`
	Formats         []string  `json:"formats"`
	CreatedAt       time.Time `json:"created_at"`
}

func summarize(rec *store.Record) renderSummary {
	return renderSummary{
		ID:              rec.ID,
		Name:            rec.Name,
		DescriptionHash: rec.DescriptionHash,
		Page:            rec.Page,
		DPI:             rec.DPI,
		Elements:        rec.Elements,
		Formats:         rec.Formats(),
		CreatedAt:       rec.CreatedAt,
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

// render runs the pipeline on the request body and returns the artifact.
func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	desc, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read description"))
		return
	}
	opts.Description = desc

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.Timeout)
	defer cancel()
	result, err := s.opts.Runner.Execute(ctx, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rec := &store.Record{
		Name:            opts.Name,
		DescriptionHash: result.DescriptionHash,
		Page:            opts.Page,
		DPI:             opts.DPI,
		Elements:        result.Stats.Elements,
		Artifacts:       result.Artifacts,
	}
	id, err := s.opts.Store.Put(ctx, rec)
	if err != nil {
		writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	cacheStatus := "MISS"
	if result.CacheInfo.Hit {
		cacheStatus = "HIT"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Render-ID", id)
	w.Header().Set("X-Cache", cacheStatus)
	if n := len(result.OffPage); n > 0 {
		w.Header().Set("X-Off-Page", strconv.Itoa(n))
	}
	w.Header().Set("Location", "/v1/renders/"+id)
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Name:    q.Get("name"),
		Assets:  s.opts.Assets,
		Formats: []string{pipeline.FormatSVG},
		Page:    s.opts.Render.Page,
		DPI:     s.opts.Render.DPI,
		Strict:  s.opts.Render.Strict,
		Logger:  log.FromContext(r.Context()),
	}
	if f := q.Get("format"); f != "" {
		if err := pipeline.ValidateFormat(f); err != nil {
			return opts, err
		}
		opts.Formats = []string{f}
	}
	if p := q.Get("page"); p != "" {
		opts.Page = p
	}
	if d := q.Get("dpi"); d != "" {
		dpi, err := strconv.Atoi(d)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidDPI, "dpi %q is not an integer", d)
		}
		opts.DPI = dpi
	}
	if v := q.Get("strict"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "strict %q is not a boolean", v)
		}
		opts.Strict = strict
	}
	opts.Refresh = q.Get("refresh") == "true"
	return opts, nil
}

func (s *Server) listRenders(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit %q must be a non-negative integer", v))
			return
		}
		limit = n
	}
	recs, err := s.opts.Store.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]renderSummary, len(recs))
	for i, rec := range recs {
		out[i] = summarize(rec)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getRender(w http.ResponseWriter, r *http.Request) {
	rec, err := s.opts.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(rec))
}

func (s *Server) getArtifact(w http.ResponseWriter, r *http.Request) {
	id, format := chi.URLParam(r, "id"), chi.URLParam(r, "format")
	rec, err := s.opts.Store.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, ok := rec.Artifacts[format]
	if !ok {
		writeError(w, r, errors.New(errors.ErrCodeNotFound, "render %s has no %s artifact", id, format))
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(data)
}
