package handlers

import (
	"io/fs"
	"net/http"
)

// StaticHandler serves the files under static/ in fsys at /static/.
func StaticHandler(fsys fs.FS) (http.Handler, error) {
	sub, err := fs.Sub(fsys, "static")
	if err != nil {
		return nil, err
	}
	files := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !RequireMethod(w, r, "GET") {
			return
		}
		// No directory listings.
		if r.URL.Path == "/static/" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	}), nil
}
