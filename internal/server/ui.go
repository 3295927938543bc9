package server

import (
	_ "embed"
	"net/http"
)

//go:embed ui/index.html
var editorPage []byte

// indexHandler serves the embedded single-page editor.
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(editorPage); err != nil {
		s.Logger.Debug("Editor page write failed", "error", err.Error())
	}
}
