package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/inarow/pkg/errors"
	"github.com/matzehuels/inarow/pkg/game"
	"github.com/matzehuels/inarow/pkg/grid"
	"github.com/matzehuels/inarow/pkg/observability"
	"github.com/matzehuels/inarow/pkg/solver"
	"github.com/matzehuels/inarow/pkg/state"
	"github.com/matzehuels/inarow/pkg/store"
	"github.com/matzehuels/inarow/pkg/vault"
)

// solvedServer solves the 2x2 board with run length 2 and serves it.
func solvedServer(t *testing.T, opts Options) (http.Handler, *state.State) {
	t.Helper()
	d, err := state.NewDigester(state.SHA256)
	if err != nil {
		t.Fatal(err)
	}
	v := vault.New(store.NewMemoryStore(), d, grid.DefaultBounds)
	logger := log.New(io.Discard)
	root, err := state.NewRoot(d, grid.DefaultBounds, 2, 2, 2, game.Green)
	if err != nil {
		t.Fatal(err)
	}
	res, err := solver.NewBuilder(v, solver.Options{Logger: logger}).Build(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}
	return New(v, opts).Handler(), res.Root
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	h, _ := solvedServer(t, Options{})
	rec := get(t, h, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decode[healthResponse](t, rec); resp.Status != "ok" || resp.Build.Version == "" {
		t.Errorf("health = %+v", resp)
	}
}

func TestGetState(t *testing.T) {
	h, root := solvedServer(t, Options{})
	rec := get(t, h, "/states/"+string(root.Digest()))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	resp := decode[stateResponse](t, rec)
	if resp.Digest != root.Digest() || !resp.Solved || resp.Terminal {
		t.Errorf("response = %+v", resp)
	}
	if want := (state.Histogram{game.GreenWin: 6}); !resp.Histogram.Equal(want) {
		t.Errorf("Histogram = %v, want %v", resp.Histogram, want)
	}
	if resp.Leaves != 6 {
		t.Errorf("Leaves = %d, want 6", resp.Leaves)
	}
	if len(resp.Children) != 2 || len(resp.Parents) != 0 {
		t.Errorf("children = %d, parents = %d", len(resp.Children), len(resp.Parents))
	}
	if strings.Join(resp.Board, "\n") != root.Board() {
		t.Errorf("Board = %q", resp.Board)
	}
	if !strings.Contains(rec.Body.String(), `"green":6`) {
		t.Errorf("histogram keys should be win state names: %s", rec.Body)
	}
}

func TestGetStateErrors(t *testing.T) {
	h, _ := solvedServer(t, Options{})
	tests := []struct {
		target string
		status int
		code   errors.Code
	}{
		{"/states/not-a-digest", http.StatusBadRequest, errors.ErrCodeInvalidDigest},
		{"/states/" + strings.Repeat("ab", 32), http.StatusNotFound, errors.ErrCodeNotFound},
		{"/states/" + strings.Repeat("ab", 32) + "/graph", http.StatusNotFound, errors.ErrCodeNotFound},
		{"/nowhere", http.StatusNotFound, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if resp := decode[errorResponse](t, rec); resp.Code != tt.code || resp.Error == "" {
				t.Errorf("error = %+v", resp)
			}
		})
	}
}

func TestGetPosition(t *testing.T) {
	h, root := solvedServer(t, Options{})

	rec := get(t, h, "/positions?rows=2&cols=2&run=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if resp := decode[stateResponse](t, rec); resp.Digest != root.Digest() {
		t.Errorf("empty move list should resolve to the root, got %s", resp.Digest)
	}

	rec = get(t, h, "/positions?rows=2&cols=2&run=2&moves=0")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	resp := decode[stateResponse](t, rec)
	if want := (state.Histogram{game.GreenWin: 3}); !resp.Histogram.Equal(want) {
		t.Errorf("Histogram = %v, want %v", resp.Histogram, want)
	}
	if resp.Next != game.Red || len(resp.Parents) != 1 || resp.Parents[0] != root.Digest() {
		t.Errorf("response = %+v", resp)
	}

	rec = get(t, h, "/positions?rows=2&cols=2&run=2&moves=0,1")
	resp = decode[stateResponse](t, rec)
	if !resp.Terminal || resp.Win == nil || *resp.Win != game.GreenWin {
		t.Errorf("0,1 should be a green win, got %+v", resp)
	}
}

func TestGetPositionErrors(t *testing.T) {
	h, _ := solvedServer(t, Options{})
	tests := []struct {
		name   string
		query  string
		status int
		code   errors.Code
	}{
		{"missing run", "rows=2&cols=2", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"non-numeric", "rows=two&cols=2&run=2", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"too large", "rows=9&cols=2&run=2", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad moves", "rows=2&cols=2&run=2&moves=a", http.StatusBadRequest, errors.ErrCodeInvalidMove},
		{"full column", "rows=2&cols=2&run=3&moves=0,0,0", http.StatusBadRequest, errors.ErrCodeInvalidMove},
		{"bad first", "rows=2&cols=2&run=2&first=blue", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"empty first", "rows=2&cols=2&run=2&first=empty", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unsolved shape", "rows=3&cols=3&run=3", http.StatusNotFound, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, "/positions?"+tt.query)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			if resp := decode[errorResponse](t, rec); resp.Code != tt.code {
				t.Errorf("code = %s, want %s", resp.Code, tt.code)
			}
		})
	}
}

func TestGetGraph(t *testing.T) {
	h, root := solvedServer(t, Options{})
	base := "/states/" + string(root.Digest()) + "/graph"

	rec := get(t, h, base+"?depth=1&detailed=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "digraph G {") || strings.Count(body, "->") != 2 {
		t.Errorf("DOT = %s", body)
	}
	if !strings.Contains(body, "{green: 6}") {
		t.Error("detailed DOT should include the root histogram")
	}

	for _, q := range []string{"?format=png", "?nodes=0", "?depth=x"} {
		if rec := get(t, h, base+q); rec.Code < 400 {
			t.Errorf("%s: status = %d", q, rec.Code)
		}
	}
}

func TestMetricsRoute(t *testing.T) {
	h, _ := solvedServer(t, Options{})
	if rec := get(t, h, "/metrics"); rec.Code != http.StatusNotFound {
		t.Errorf("metrics without handler: status = %d", rec.Code)
	}

	stub := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "inarow_up 1\n")
	})
	h, _ = solvedServer(t, Options{Metrics: stub})
	rec := get(t, h, "/metrics")
	if rec.Code != http.StatusOK || rec.Body.String() != "inarow_up 1\n" {
		t.Errorf("metrics = %d %q", rec.Code, rec.Body)
	}
}

type recordingHooks struct {
	mu     sync.Mutex
	routes []string
	codes  []int
}

func (h *recordingHooks) OnRequest(_ context.Context, _, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
	h.codes = append(h.codes, status)
}

func TestInstrumentReportsRoutePattern(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	h, root := solvedServer(t, Options{})
	get(t, h, "/states/"+string(root.Digest()))
	get(t, h, "/healthz")

	want := []string{"/states/{digest}", "/healthz"}
	if len(hooks.routes) != len(want) {
		t.Fatalf("routes = %v, want %v", hooks.routes, want)
	}
	for i := range want {
		if hooks.routes[i] != want[i] || hooks.codes[i] != http.StatusOK {
			t.Errorf("request %d = %s %d", i, hooks.routes[i], hooks.codes[i])
		}
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	d, _ := state.NewDigester(state.SHA256)
	v := vault.New(store.NewMemoryStore(), d, grid.DefaultBounds)
	srv := New(v, Options{Logger: log.New(io.Discard)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
