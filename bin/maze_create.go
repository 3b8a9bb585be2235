package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"maze-server/config"
	"maze-server/maze"
)

// Usage: maze_create [out.txt] [height] [width] [density]
func main() {
	out := "maze.txt"
	height, width, density := 12, 24, 0.3
	args := os.Args[1:]
	if len(args) > 0 {
		out = args[0]
	}
	if len(args) > 1 {
		height = atoi(args[1], height)
	}
	if len(args) > 2 {
		width = atoi(args[2], width)
	}
	if len(args) > 3 {
		if d, err := strconv.ParseFloat(args[3], 64); err == nil {
			density = d
		}
	}

	seed := time.Now().UnixNano()
	rows, err := maze.Generate(height, width, density, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := maze.WriteFile(out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %dx%d maze (seed %d) to %s\n", height, width, seed, out)

	// Also register it with a running server
	cfg := config.LoadConfig()
	name := strings.TrimSuffix(filepath.Base(out), filepath.Ext(out))
	body, err := json.Marshal(map[string]any{"name": name, "rows": rows})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warn: could not marshal maze: %v\n", err)
		return
	}
	url := apiBase(cfg.HTTPAddr) + "/api/v1/mazes"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warn: building request failed: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warn: API request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		fmt.Fprintf(os.Stderr, "warn: API create returned status %s\n", resp.Status)
		return
	}
	var created maze.Summary
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		fmt.Fprintf(os.Stderr, "warn: decoding API response: %v\n", err)
		return
	}
	fmt.Printf("Registered maze %q as %s\n", created.Name, created.ID)
}

func atoi(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// apiBase turns a listen address such as ":8080" into a local base URL.
func apiBase(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
