package api

import (
	"net/http"
	"time"

	"maze-server/solve"

	"github.com/go-chi/chi/v5"
)

// HealthStatus represents the overall health of the service
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthDegraded HealthStatus = "degraded"
)

// WebSocketStatus represents the state of the websocket hub
type WebSocketStatus string

const (
	WebSocketRunning  WebSocketStatus = "running"
	WebSocketDisabled WebSocketStatus = "disabled"
)

// ClientCounter reports live websocket connections.
type ClientCounter interface {
	ClientCount() int
}

// RegistryMetrics describes the maze registry
type RegistryMetrics struct {
	Mazes       int `json:"mazes"`
	TotalCells  int `json:"total_cells"`
	LargestMaze int `json:"largest_maze_cells"`
}

// WebSocketServerMetrics holds websocket hub status
type WebSocketServerMetrics struct {
	Status            WebSocketStatus `json:"status"`
	ActiveConnections int             `json:"active_connections"`
}

// MetricsResponse is the complete metrics response structure
type MetricsResponse struct {
	Timestamp         time.Time              `json:"timestamp"`
	Health            HealthStatus           `json:"health"`
	HealthDescription string                 `json:"health_description"`
	Registry          RegistryMetrics        `json:"registry"`
	Solves            solve.Snapshot         `json:"solves"`
	WebSocket         WebSocketServerMetrics `json:"websocket"`
	ServerUptime      int64                  `json:"server_uptime_sec"`
}

// MetricsHandler manages metrics collection and reporting
type MetricsHandler struct {
	svc             *solve.Service
	clients         ClientCounter
	serverStartTime time.Time

	// Share of searches that ran out of budget before health drops
	warningBudgetRatio  float64
	degradedBudgetRatio float64
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(svc *solve.Service, clients ClientCounter) *MetricsHandler {
	return &MetricsHandler{
		svc:                 svc,
		clients:             clients,
		serverStartTime:     time.Now(),
		warningBudgetRatio:  0.2,
		degradedBudgetRatio: 0.5,
	}
}

// Routes registers metrics routes
func (h *MetricsHandler) Routes(r chi.Router) {
	r.Get("/metrics", h.GetMetrics)
	r.Get("/metrics/health", h.GetHealth)
	r.Get("/metrics/solves", h.GetSolves)
	r.Get("/metrics/websocket", h.GetWebSocket)
}

// GetMetrics returns complete metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.collectMetrics())
}

// GetHealth returns only health status
func (h *MetricsHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	metrics := h.collectMetrics()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"timestamp":   metrics.Timestamp,
		"health":      metrics.Health,
		"description": metrics.HealthDescription,
		"uptime_sec":  metrics.ServerUptime,
	})
}

// GetSolves returns only search counters
func (h *MetricsHandler) GetSolves(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats().Snapshot())
}

// GetWebSocket returns only websocket metrics
func (h *MetricsHandler) GetWebSocket(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"timestamp": time.Now(),
		"websocket": h.websocketMetrics(),
	})
}

func (h *MetricsHandler) collectMetrics() *MetricsResponse {
	solves := h.svc.Stats().Snapshot()
	health, desc := h.determineHealth(solves)
	return &MetricsResponse{
		Timestamp:         time.Now(),
		Health:            health,
		HealthDescription: desc,
		Registry:          h.registryMetrics(),
		Solves:            solves,
		WebSocket:         h.websocketMetrics(),
		ServerUptime:      int64(time.Since(h.serverStartTime).Seconds()),
	}
}

func (h *MetricsHandler) registryMetrics() RegistryMetrics {
	var m RegistryMetrics
	for _, e := range h.svc.Store().List() {
		cells := e.Grid.Height() * e.Grid.Width()
		m.Mazes++
		m.TotalCells += cells
		if cells > m.LargestMaze {
			m.LargestMaze = cells
		}
	}
	return m
}

func (h *MetricsHandler) websocketMetrics() WebSocketServerMetrics {
	if h.clients == nil {
		return WebSocketServerMetrics{Status: WebSocketDisabled}
	}
	return WebSocketServerMetrics{Status: WebSocketRunning, ActiveConnections: h.clients.ClientCount()}
}

// determineHealth grades the service by how often searches exhaust their budget
func (h *MetricsHandler) determineHealth(solves solve.Snapshot) (HealthStatus, string) {
	if solves.Total == 0 {
		return HealthHealthy, "No searches run yet"
	}
	exceeded := 0
	for _, p := range solves.Policies {
		exceeded += p.BudgetExceeded
	}
	ratio := float64(exceeded) / float64(solves.Total)
	switch {
	case ratio >= h.degradedBudgetRatio:
		return HealthDegraded, "Most searches exhaust their budget - raise SOLVE_TIMEOUT or MAX_EXPANSIONS"
	case ratio >= h.warningBudgetRatio:
		return HealthWarning, "Many searches exhaust their budget - monitor maze sizes"
	}
	return HealthHealthy, "All systems operational"
}
