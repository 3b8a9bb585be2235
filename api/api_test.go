package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"maze-server/config"
	"maze-server/maze"
	"maze-server/solve"
)

type fakeClients int

func (f fakeClients) ClientCount() int { return int(f) }

func newTestServer(t *testing.T, cfg config.Config) (*httptest.Server, *solve.Service) {
	t.Helper()
	if cfg.RenderCellSize == 0 {
		cfg.RenderCellSize = 4
	}
	if cfg.CORSOrigins == nil {
		cfg.CORSOrigins = []string{"*"}
	}
	store := maze.NewStore()
	if _, err := store.Add(config.DefaultMazeName, config.DefaultMaze); err != nil {
		t.Fatal(err)
	}
	svc := solve.NewService(cfg, store)
	ts := httptest.NewServer(NewAPIRouter(svc, fakeClients(2)))
	t.Cleanup(ts.Close)
	return ts, svc
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: got %d, want %d: %s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, b)
	}
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{})
	resp := do(t, http.MethodGet, ts.URL+"/v1/health", "")
	expectStatus(t, resp, http.StatusOK)
	if got := decode[map[string]string](t, resp); got["status"] != "ok" {
		t.Errorf("got %v", got)
	}
}

func TestMazeLifecycle(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{})

	resp := do(t, http.MethodPost, ts.URL+"/v1/mazes", `{"name":"tiny","rows":["A  ","# #","  B"]}`)
	expectStatus(t, resp, http.StatusCreated)
	created := decode[maze.Summary](t, resp)
	if created.ID == "" || created.Height != 3 || created.Walls != 2 || len(created.Rows) != 3 {
		t.Fatalf("created: %+v", created)
	}

	resp = do(t, http.MethodPost, ts.URL+"/v1/mazes", `{"name":"tiny","rows":["AB"]}`)
	expectStatus(t, resp, http.StatusConflict)

	resp = do(t, http.MethodGet, ts.URL+"/v1/mazes", "")
	expectStatus(t, resp, http.StatusOK)
	list := decode[apiListResponse[maze.Summary]](t, resp)
	if list.TotalItems != 2 || list.Items[0].Rows != nil {
		t.Errorf("list: %+v", list)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/mazes/tiny", "")
	expectStatus(t, resp, http.StatusOK)
	if got := decode[maze.Summary](t, resp); got.ID != created.ID {
		t.Errorf("lookup by name: got %s", got.ID)
	}

	resp = do(t, http.MethodDelete, ts.URL+"/v1/mazes/"+created.ID, "")
	expectStatus(t, resp, http.StatusNoContent)
	resp = do(t, http.MethodGet, ts.URL+"/v1/mazes/"+created.ID, "")
	expectStatus(t, resp, http.StatusNotFound)
	resp = do(t, http.MethodDelete, ts.URL+"/v1/mazes/"+created.ID, "")
	expectStatus(t, resp, http.StatusNotFound)
}

func TestCreateRejectsBadInput(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{})
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"unknown field", `{"name":"x","rows":["AB"],"extra":1}`},
		{"two starts", `{"name":"x","rows":["AAB"]}`},
		{"ragged", `{"name":"x","rows":["A ","B  "]}`},
		{"empty name", `{"name":"","rows":["AB"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/v1/mazes", tt.body)
			expectStatus(t, resp, http.StatusBadRequest)
			if e := decode[apiError](t, resp); e.Error == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestSolveEndpoints(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{})

	resp := do(t, http.MethodPost, ts.URL+"/v1/mazes/default/solve", "")
	expectStatus(t, resp, http.StatusOK)
	res := decode[solve.Response](t, resp)
	if res.Status.String() != "found" || res.Cost != 9 || res.Moves != "EESSEEEEE" {
		t.Errorf("default solve: %+v", res)
	}

	resp = do(t, http.MethodPost, ts.URL+"/v1/mazes/default/solve", `{"policy":"greedy","heuristic":"zero"}`)
	expectStatus(t, resp, http.StatusOK)
	if res := decode[solve.Response](t, resp); res.Policy.String() != "greedy" {
		t.Errorf("policy: got %s", res.Policy)
	}

	resp = do(t, http.MethodPost, ts.URL+"/v1/mazes/default/solve", `{"policy":"dijkstra"}`)
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, http.MethodPost, ts.URL+"/v1/mazes/nope/solve", "")
	expectStatus(t, resp, http.StatusNotFound)

	resp = do(t, http.MethodPost, ts.URL+"/v1/mazes/default/compare", "")
	expectStatus(t, resp, http.StatusOK)
	cmp := decode[solve.Comparison](t, resp)
	if cmp.Greedy == nil || cmp.AStar == nil || cmp.AStar.Cost > cmp.Greedy.Cost {
		t.Errorf("compare: %+v", cmp)
	}
}

func TestSolveInline(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{})

	resp := do(t, http.MethodPost, ts.URL+"/v1/solve", `{"rows":["A#B"]}`)
	expectStatus(t, resp, http.StatusOK)
	res := decode[solve.Response](t, resp)
	if res.Status.String() != "not_found" || res.Path == nil || len(res.Path) != 0 {
		t.Errorf("unreachable: %+v", res)
	}

	resp = do(t, http.MethodPost, ts.URL+"/v1/solve", `{"policy":"astar"}`)
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestSolveBudgetExceeded(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{MaxExpansions: 1, SolveTimeout: time.Second})
	resp := do(t, http.MethodPost, ts.URL+"/v1/mazes/default/solve", "")
	expectStatus(t, resp, http.StatusOK)
	if res := decode[solve.Response](t, resp); res.Status.String() != "budget_exceeded" {
		t.Errorf("status: got %s", res.Status)
	}
}

func TestRender(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{})

	resp := do(t, http.MethodGet, ts.URL+"/v1/mazes/default/render.txt", "")
	expectStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "#.#*****B#") {
		t.Errorf("ascii render:\n%s", body)
	}
	if got := resp.Header.Get("X-Search-Status"); got != "found" {
		t.Errorf("X-Search-Status: got %q", got)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/mazes/default/render.png?policy=greedy", "")
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type: %s", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("bounds: %v", b)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/mazes/default/render.png?policy=bogus", "")
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestMetrics(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{MaxExpansions: 1})

	resp := do(t, http.MethodGet, ts.URL+"/v1/metrics/health", "")
	expectStatus(t, resp, http.StatusOK)
	if h := decode[map[string]any](t, resp); h["health"] != string(HealthHealthy) {
		t.Errorf("idle health: %v", h)
	}

	do(t, http.MethodPost, ts.URL+"/v1/mazes/default/solve", "")

	resp = do(t, http.MethodGet, ts.URL+"/v1/metrics", "")
	expectStatus(t, resp, http.StatusOK)
	m := decode[MetricsResponse](t, resp)
	if m.Registry.Mazes != 1 || m.Registry.TotalCells != 50 {
		t.Errorf("registry: %+v", m.Registry)
	}
	if m.Solves.Total != 1 || m.Health != HealthDegraded {
		t.Errorf("solves %d health %s", m.Solves.Total, m.Health)
	}
	if m.WebSocket.Status != WebSocketRunning || m.WebSocket.ActiveConnections != 2 {
		t.Errorf("websocket: %+v", m.WebSocket)
	}
}

func TestCORS(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{CORSOrigins: []string{"http://maze.test"}})
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/v1/mazes", bytes.NewReader(nil))
	req.Header.Set("Origin", "http://maze.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://maze.test" {
		t.Errorf("allow origin: got %q", got)
	}
}
