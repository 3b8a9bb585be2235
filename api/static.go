package api

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// StaticFileServer serves files from dir. Unknown paths get fallbackPath so a
// single-page maze viewer can route on the client.
func StaticFileServer(dir, fallbackPath string) (http.Handler, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("static directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static directory: %s is not a directory", dir)
	}

	fs := http.FileServer(http.Dir(dir))
	fallback := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+fallbackPath)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, fallback)
	}), nil
}
