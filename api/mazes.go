package api

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"

	"maze-server/maze"
	"maze-server/render"
	"maze-server/solve"

	"github.com/go-chi/chi/v5"
)

// MazeHandler serves the maze registry and the search endpoints.
type MazeHandler struct {
	svc *solve.Service
}

func NewMazeHandler(svc *solve.Service) *MazeHandler {
	return &MazeHandler{svc: svc}
}

// Routes registers routes for mazes and searches.
func (h *MazeHandler) Routes(r chi.Router) {
	r.Get("/mazes", h.List)
	r.Post("/mazes", h.Create)
	r.Get("/mazes/{id}", h.Get)
	r.Delete("/mazes/{id}", h.Delete)
	r.Post("/mazes/{id}/solve", h.Solve)
	r.Post("/mazes/{id}/compare", h.Compare)
	r.Get("/mazes/{id}/render.png", h.RenderPNG)
	r.Get("/mazes/{id}/render.txt", h.RenderText)
	r.Post("/solve", h.SolveInline)
}

type createMazeRequest struct {
	Name string   `json:"name"`
	Rows []string `json:"rows"`
}

// List GET /mazes
func (h *MazeHandler) List(w http.ResponseWriter, r *http.Request) {
	entries := h.svc.Store().List()
	items := make([]maze.Summary, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.Summary(false))
	}
	writeJSON(w, http.StatusOK, apiListResponse[maze.Summary]{Items: items, TotalItems: len(items)})
}

// Create POST /mazes
func (h *MazeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in createMazeRequest
	if err := decodeJSONStrict(w, r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	e, err := h.svc.Store().Add(in.Name, in.Rows)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e.Summary(true))
}

// Get GET /mazes/{id}
func (h *MazeHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Store().Lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e.Summary(true))
}

// Delete DELETE /mazes/{id}
func (h *MazeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Store().Lookup(chi.URLParam(r, "id"))
	if err == nil {
		err = h.svc.Store().Delete(e.ID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Solve POST /mazes/{id}/solve
func (h *MazeHandler) Solve(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSearch(w, r)
	if !ok {
		return
	}
	req.MazeID = chi.URLParam(r, "id")
	req.Rows = nil
	resp, err := h.svc.Solve(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Compare POST /mazes/{id}/compare
func (h *MazeHandler) Compare(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSearch(w, r)
	if !ok {
		return
	}
	req.MazeID = chi.URLParam(r, "id")
	req.Rows = nil
	cmp, err := h.svc.Compare(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// SolveInline POST /solve with the layout in the body.
func (h *MazeHandler) SolveInline(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSearch(w, r)
	if !ok {
		return
	}
	if len(req.Rows) == 0 {
		errorJSON(w, http.StatusBadRequest, "rows is required")
		return
	}
	req.MazeID = ""
	resp, err := h.svc.Solve(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// RenderPNG GET /mazes/{id}/render.png?policy=astar
func (h *MazeHandler) RenderPNG(w http.ResponseWriter, r *http.Request) {
	grid, res, err := h.svc.Run(r.Context(), queryRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := render.PNG(&buf, grid, res.Path, res.Explored, h.svc.Config().RenderCellSize); err != nil {
		log.Printf("[ERROR] rendering png: %v", err)
		errorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Search-Status", res.Status.String())
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// RenderText GET /mazes/{id}/render.txt?policy=astar
func (h *MazeHandler) RenderText(w http.ResponseWriter, r *http.Request) {
	grid, res, err := h.svc.Run(r.Context(), queryRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Search-Status", res.Status.String())
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, render.ASCII(grid, res.Path, res.Explored))
}

// decodeSearch reads the optional search body. An empty body keeps the
// defaults.
func (h *MazeHandler) decodeSearch(w http.ResponseWriter, r *http.Request) (solve.Request, bool) {
	var req solve.Request
	if err := decodeJSONStrict(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		errorJSON(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return req, false
	}
	return req, true
}

func queryRequest(r *http.Request) solve.Request {
	q := r.URL.Query()
	return solve.Request{
		MazeID:    chi.URLParam(r, "id"),
		Policy:    q.Get("policy"),
		Heuristic: q.Get("heuristic"),
	}
}
