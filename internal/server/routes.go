package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	rateLimitHandler := s.rateLimitMiddleware()
	requestLimitHandler := s.requestSizeLimitMiddleware()

	// chain applies the standard middleware stack to an API handler.
	chain := func(h http.HandlerFunc) http.HandlerFunc {
		return s.requestIDMiddleware(
			rateLimitHandler(
				s.authMiddleware(requestLimitHandler(h)),
			),
		)
	}

	mux.HandleFunc("GET /healthz", s.healthHandler)
	mux.HandleFunc("GET /{$}", s.indexHandler)
	mux.HandleFunc("GET /events", s.requestIDMiddleware(s.authMiddleware(s.eventsHandler)))

	mux.HandleFunc("GET /api/cv", chain(s.getCVHandler))
	mux.HandleFunc("POST /api/cv", chain(s.putCVHandler))
	mux.HandleFunc("POST /api/validate", chain(s.validateHandler))
	mux.HandleFunc("GET /api/preview", chain(s.previewHandler))
	mux.HandleFunc("GET /api/themes", chain(s.themesHandler))
	mux.HandleFunc("POST /api/build", chain(s.buildHandler))
	mux.HandleFunc("POST /api/export", chain(s.exportHandler))
	mux.HandleFunc("GET /api/download/{name}", chain(s.downloadHandler))
	mux.HandleFunc("POST /api/upload-photo", chain(s.uploadPhotoHandler))
	mux.HandleFunc("GET /api/assets/{name}", chain(s.assetHandler))
	mux.HandleFunc("GET /api/status", chain(s.statusHandler))

	mux.HandleFunc("POST /api/tailor", chain(s.tailorHandler))
	mux.HandleFunc("POST /api/cover-letter", chain(s.coverLetterHandler))
	mux.HandleFunc("POST /api/ats", chain(s.atsHandler))
	mux.HandleFunc("POST /api/suggest", chain(s.suggestHandler))

	return mux
}
