package server

import (
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// handleConsole serves the static moderator and display build from dir.
// Paths that are not files fall back to index.html so the console's
// client-side routes resolve.
func handleConsole(dir string) http.HandlerFunc {
	root := os.DirFS(dir)
	files := http.FileServerFS(root)

	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if info, err := fs.Stat(root, name); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		http.ServeFileFS(w, r, root, "index.html")
	}
}
