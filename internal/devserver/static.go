package devserver

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// serveStatic serves files from the dev output directory. Paths without
// an extension that name no file get index.html.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	buildErr := s.lastErr
	s.mu.RUnlock()
	if buildErr != nil {
		http.Error(w, fmt.Sprintf("build failed:\n\n%v\n", buildErr), http.StatusInternalServerError)
		return
	}

	dir := s.cfg.OutDirPath()
	name := path.Clean("/" + r.URL.Path)
	if s.serveFile(w, r, filepath.Join(dir, filepath.FromSlash(name))) {
		return
	}
	if ext := path.Ext(name); ext != "" && ext != ".html" {
		http.NotFound(w, r)
		return
	}
	if !s.serveFile(w, r, filepath.Join(dir, "index.html")) {
		http.Error(w, "no build output yet", http.StatusServiceUnavailable)
	}
}

// serveFile writes the regular file at p and reports whether it existed.
// Directories are served through their index.html.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, p string) bool {
	info, err := os.Stat(p)
	if err != nil {
		return false
	}
	if info.IsDir() {
		p = filepath.Join(p, "index.html")
		if info, err = os.Stat(p); err != nil || info.IsDir() {
			return false
		}
	}
	f, err := os.Open(p)
	if err != nil {
		return false
	}
	defer f.Close()

	w.Header().Set("Cache-Control", "no-cache")
	if strings.HasSuffix(p, ".html") {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}
