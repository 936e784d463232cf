package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/inarow/pkg/buildinfo"
	"github.com/matzehuels/inarow/pkg/errors"
	"github.com/matzehuels/inarow/pkg/game"
	"github.com/matzehuels/inarow/pkg/grid"
	"github.com/matzehuels/inarow/pkg/render"
	"github.com/matzehuels/inarow/pkg/state"
	"github.com/matzehuels/inarow/pkg/vault"
)

// Graph export limits applied when the query does not set them.
const (
	defaultGraphDepth = 3
	defaultGraphNodes = 200
	maxGraphNodes     = 5000
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type stateResponse struct {
	Digest    state.Digest    `json:"digest"`
	Rows      int             `json:"rows"`
	Cols      int             `json:"cols"`
	RunLength int             `json:"run_length"`
	Next      game.Chip       `json:"next"`
	Board     []string        `json:"board"`
	Terminal  bool            `json:"terminal"`
	Win       *game.WinState  `json:"win,omitempty"`
	Solved    bool            `json:"solved"`
	Histogram state.Histogram `json:"histogram,omitempty"`
	Leaves    int             `json:"leaves,omitempty"`
	Parents   []state.Digest  `json:"parents"`
	Children  []state.Digest  `json:"children"`
}

type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func newStateResponse(s *state.State) stateResponse {
	resp := stateResponse{
		Digest:    s.Digest(),
		Rows:      s.Rows(),
		Cols:      s.Cols(),
		RunLength: s.RunLength(),
		Next:      s.Next(),
		Board:     strings.Split(s.Board(), "\n"),
		Terminal:  s.Terminal(),
		Parents:   state.Digests(s.Parents()),
		Children:  state.Digests(s.Children()),
	}
	if w, done := s.WinState(); done {
		resp.Win = &w
	}
	if o := s.Outcome(); o != nil {
		resp.Solved = true
		resp.Histogram = o.Histogram
		resp.Leaves = len(o.Leaves)
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st, err := s.load(r, chi.URLParam(r, "digest"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(st))
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	digest := chi.URLParam(r, "digest")
	if err := errors.ValidateDigest(digest); err != nil {
		s.writeError(w, err)
		return
	}
	q := r.URL.Query()
	depth, err := intParam(q, "depth", defaultGraphDepth)
	if err != nil {
		s.writeError(w, err)
		return
	}
	nodes, err := intParam(q, "nodes", defaultGraphNodes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if nodes <= 0 || nodes > maxGraphNodes {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "nodes must be between 1 and %d", maxGraphNodes))
		return
	}

	g, err := render.Walk(r.Context(), s.vault, state.Digest(digest), render.Limits{MaxNodes: nodes, MaxDepth: depth})
	if err != nil {
		s.writeError(w, lookupError(err, digest))
		return
	}
	dot := render.ToDOT(g, render.Options{Detailed: q.Get("detailed") == "true"})

	switch format := q.Get("format"); format {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(dot))
	case "svg":
		svg, err := render.RenderSVG(r.Context(), dot)
		if err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(svg)
	default:
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "unsupported graph format %q", format))
	}
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var shape [3]int
	for i, name := range []string{"rows", "cols", "run"} {
		v, err := intParam(q, name, 0)
		if err != nil {
			s.writeError(w, err)
			return
		}
		shape[i] = v
	}
	rows, cols, run := shape[0], shape[1], shape[2]
	b := s.vault.Bounds()
	if err := errors.ValidateShape(rows, cols, run, b.MaxRows, b.MaxCols); err != nil {
		s.writeError(w, err)
		return
	}
	moves, err := errors.ParseMoves(q.Get("moves"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	first := game.Green
	if v := q.Get("first"); v != "" {
		if first, err = game.ParseChip(v); err != nil || !first.Placeable() {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "first must be green or red, got %q", v))
			return
		}
	}

	g, err := grid.New(b, rows, cols)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "grid"))
		return
	}
	pos, err := state.FromMoves(s.vault.Digester(), g, first, run, moves...)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidMove, err, "replay moves"))
		return
	}
	st, err := s.load(r, string(pos.Digest()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(st))
}

// load validates digest and reads it from the vault, mapping failures to
// coded errors.
func (s *Server) load(r *http.Request, digest string) (*state.State, error) {
	if err := errors.ValidateDigest(digest); err != nil {
		return nil, err
	}
	st, err := s.vault.Load(r.Context(), state.Digest(digest))
	if err != nil {
		return nil, lookupError(err, digest)
	}
	return st, nil
}

func lookupError(err error, digest string) error {
	switch {
	case vault.IsNotInVault(err):
		return errors.New(errors.ErrCodeNotFound, "position %s is not in the vault", digest)
	case stderrors.Is(err, vault.ErrCorruptEntry):
		return errors.Wrap(errors.ErrCodeInternal, err, "position %s", digest)
	default:
		return errors.Wrap(errors.ErrCodeStorage, err, "position %s", digest)
	}
}

func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, v)
	}
	return n, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Error: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
