package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds service configuration loaded from the environment.
type Config struct {
	HTTPAddr        string
	GRPCAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	SolveTimeout    time.Duration // Per-search deadline, 0 disables it
	MaxExpansions   int           // Per-search expansion cap, 0 disables it
	SkipExplored    bool
	CORSOrigins     []string
	MazeDir         string // Directory of *.txt mazes loaded at startup
	SeedDefaultMaze bool
	RenderCellSize  int
	StaticDir       string // Optional viewer assets served at /, empty disables it
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] could not read .env: %v", err)
	}

	cfg := Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		GRPCAddr:        getEnv("GRPC_ADDR", ":9090"),
		ReadTimeout:     parseDuration(getEnv("API_READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout:    parseDuration(getEnv("API_WRITE_TIMEOUT", "15s"), 15*time.Second),
		ShutdownTimeout: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
		SolveTimeout:    parseDuration(getEnv("SOLVE_TIMEOUT", "5s"), 5*time.Second),
		MaxExpansions:   parseInt(getEnv("MAX_EXPANSIONS", "0"), 0),
		SkipExplored:    parseBool(getEnv("SKIP_EXPLORED", "false"), false),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		MazeDir:         getEnv("MAZE_DIR", ""),
		SeedDefaultMaze: parseBool(getEnv("SEED_DEFAULT_MAZE", "true"), true),
		RenderCellSize:  parseInt(getEnv("RENDER_CELL_SIZE", "24"), 24),
		StaticDir:       getEnv("STATIC_DIR", ""),
	}
	if cfg.RenderCellSize <= 0 {
		log.Printf("[WARN] RENDER_CELL_SIZE must be positive, using 24")
		cfg.RenderCellSize = 24
	}
	if cfg.MaxExpansions < 0 {
		cfg.MaxExpansions = 0
	}
	if cfg.SolveTimeout == 0 && cfg.MaxExpansions == 0 {
		log.Println("[WARN] searches run without a time or expansion budget")
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func parseInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func parseBool(s string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
