package maze

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"maze-server/config"
)

// LoadFile reads a maze layout, one row per line. Trailing carriage returns
// and trailing blank lines are dropped.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		rows = append(rows, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	return rows, nil
}

// WriteFile stores rows as a newline terminated layout.
func WriteFile(path string, rows []string) error {
	return os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o644)
}

// LoadDir registers every *.txt file in dir, named after the file without its
// extension. Invalid files are logged and skipped.
func LoadDir(store *Store, dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return 0, err
	}
	sort.Strings(matches)

	loaded := 0
	for _, path := range matches {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		rows, err := LoadFile(path)
		if err != nil {
			log.Printf("[WARN] skipping maze file %s: %v", path, err)
			continue
		}
		if _, err := store.Add(name, rows); err != nil {
			log.Printf("[WARN] skipping maze file %s: %v", path, err)
			continue
		}
		loaded++
	}
	return loaded, nil
}

// Seed registers the built-in maze and any mazes found in cfg.MazeDir.
func Seed(store *Store, cfg config.Config) error {
	if cfg.SeedDefaultMaze {
		if _, err := store.Add(config.DefaultMazeName, config.DefaultMaze); err != nil {
			return fmt.Errorf("seeding default maze: %w", err)
		}
	}
	if cfg.MazeDir != "" {
		n, err := LoadDir(store, cfg.MazeDir)
		if err != nil {
			return fmt.Errorf("loading %s: %w", cfg.MazeDir, err)
		}
		log.Printf("Loaded %d mazes from %s", n, cfg.MazeDir)
	}
	return nil
}
