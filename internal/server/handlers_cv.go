package server

import (
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"resumake/internal/cv"
	"resumake/internal/errors"
	"resumake/internal/export"
	"resumake/internal/render"
	"resumake/internal/theme"
)

// cvRequest carries the CV document as YAML text.
type cvRequest struct {
	YAML string `json:"yaml"`
}

// healthHandler reports liveness.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.Version,
	})
}

// getCVHandler returns the current CV source as YAML text.
func (s *Server) getCVHandler(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.sourcePath())
	if err != nil {
		if os.IsNotExist(err) {
			writeErrorResponse(w, "CV not found",
				fmt.Sprintf("No CV file at %s, run 'resumake init' first", s.sourcePath()), http.StatusNotFound)
			return
		}
		writeErrorResponse(w, "Failed to read CV", err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, cvRequest{YAML: string(data)})
}

// putCVHandler validates and saves a new CV document, then notifies
// preview clients.
func (s *Server) putCVHandler(w http.ResponseWriter, r *http.Request) {
	var req cvRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return
	}

	if problems := cv.Check([]byte(req.YAML)); len(problems) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":    "Validation failed",
			"problems": problems,
		})
		return
	}

	if err := os.WriteFile(s.sourcePath(), []byte(req.YAML), 0o600); err != nil {
		writeErrorResponse(w, "Failed to save CV", err.Error(), http.StatusInternalServerError)
		return
	}

	s.Logger.Info("CV saved via editor",
		"path", s.sourcePath(),
		"bytes", len(req.YAML),
		"request_id", requestIDFrom(r.Context()))
	s.hub.Broadcast("change")

	writeJSON(w, http.StatusOK, map[string]any{"saved": true})
}

// validateHandler checks a CV document without saving it.
func (s *Server) validateHandler(w http.ResponseWriter, r *http.Request) {
	var req cvRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return
	}

	problems := cv.Check([]byte(req.YAML))
	if problems == nil {
		problems = []errors.FieldError{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":    len(problems) == 0,
		"problems": problems,
	})
}

// previewHandler renders the current CV as themed HTML with the live
// reload script injected.
func (s *Server) previewHandler(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDocument(w)
	if !ok {
		return
	}

	th, err := theme.Resolve(s.themeParam(r))
	if err != nil {
		writeErrorResponse(w, "Unknown theme", err.Error(), http.StatusBadRequest)
		return
	}

	html, warnings, err := render.BuildHTML(doc, th, render.Options{
		Lang:   s.langParam(r),
		Assets: s.assets,
	})
	if err != nil {
		writeErrorResponse(w, "Render failed", err.Error(), http.StatusInternalServerError)
		return
	}
	for _, warning := range warnings {
		s.Logger.LogWarning(warning)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(injectReload(html)); err != nil {
		s.Logger.Debug("Preview write failed", "error", err.Error())
	}
}

// themesHandler lists the available themes.
func (s *Server) themesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"themes": theme.List()})
}

type buildRequest struct {
	Theme string `json:"theme,omitempty"`
	Lang  string `json:"lang,omitempty"`
}

// buildHandler produces the DOCX artifact in the output directory and
// reports its name and size.
func (s *Server) buildHandler(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Theme == "" {
		req.Theme = s.AppConfig.App.Theme
	}
	if req.Lang == "" {
		req.Lang = s.AppConfig.App.Lang
	}

	doc, ok := s.loadDocument(w)
	if !ok {
		return
	}

	th, err := theme.Resolve(req.Theme)
	if err != nil {
		writeErrorResponse(w, "Unknown theme", err.Error(), http.StatusBadRequest)
		if s.metrics != nil {
			s.metrics.RecordDocumentBuilt(r.Context(), "docx", false)
		}
		return
	}

	data, warnings, err := render.BuildDocx(doc, th, render.Options{
		Lang:   req.Lang,
		Assets: s.assets,
	})
	if err != nil {
		writeErrorResponse(w, "Build failed", err.Error(), http.StatusInternalServerError)
		if s.metrics != nil {
			s.metrics.RecordDocumentBuilt(r.Context(), "docx", false)
		}
		return
	}
	for _, warning := range warnings {
		s.Logger.LogWarning(warning)
	}

	filename := buildFilename(doc, req.Lang)
	if err := os.MkdirAll(s.outputDir(), 0o750); err != nil {
		writeErrorResponse(w, "Failed to create output directory", err.Error(), http.StatusInternalServerError)
		return
	}
	outPath := filepath.Join(s.outputDir(), filename)
	if err := os.WriteFile(outPath, data, 0o600); err != nil {
		writeErrorResponse(w, "Failed to write document", err.Error(), http.StatusInternalServerError)
		return
	}

	s.Logger.Info("Document built via editor",
		"path", outPath,
		"theme", th.Name,
		"lang", req.Lang)
	if s.metrics != nil {
		s.metrics.RecordDocumentBuilt(r.Context(), "docx", true)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"filename": filename,
		"size":     len(data),
	})
}

type exportRequest struct {
	Format string `json:"format"`
	Theme  string `json:"theme,omitempty"`
	Lang   string `json:"lang,omitempty"`
}

// exportHandler streams the CV in the requested plain format.
func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Lang == "" {
		req.Lang = s.AppConfig.App.Lang
	}

	exporter, err := export.DefaultRegistry.Lookup(req.Format)
	if err != nil {
		writeErrorResponse(w, "Unsupported format",
			fmt.Sprintf("Supported formats: %s", strings.Join(export.DefaultRegistry.Formats(), ", ")),
			http.StatusBadRequest)
		if s.metrics != nil {
			s.metrics.RecordExport(r.Context(), req.Format, false)
		}
		return
	}

	doc, ok := s.loadDocument(w)
	if !ok {
		return
	}

	var th *theme.Theme
	themeName := req.Theme
	if themeName == "" {
		themeName = s.AppConfig.App.Theme
	}
	th, err = theme.Resolve(themeName)
	if err != nil {
		writeErrorResponse(w, "Unknown theme", err.Error(), http.StatusBadRequest)
		return
	}

	data, warnings, err := exporter.Export(doc, export.Options{
		Theme:  th,
		Lang:   req.Lang,
		Assets: s.assets,
	})
	if err != nil {
		writeErrorResponse(w, "Export failed", err.Error(), http.StatusInternalServerError)
		if s.metrics != nil {
			s.metrics.RecordExport(r.Context(), req.Format, false)
		}
		return
	}
	for _, warning := range warnings {
		s.Logger.LogWarning(warning)
	}
	if s.metrics != nil {
		s.metrics.RecordExport(r.Context(), req.Format, true)
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", doc.Slug()+"_CV."+exporter.Extension()))
	if _, err := w.Write(data); err != nil {
		s.Logger.Debug("Export write failed", "error", err.Error())
	}
}

// downloadHandler serves a previously built artifact from the output
// directory. Only bare filenames are accepted.
func (s *Server) downloadHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeErrorResponse(w, "Invalid filename", "Path components are not allowed", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.outputDir(), name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeErrorResponse(w, "File not found", name, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

// photoExtensions whitelists upload file types.
var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

const maxPhotoBytes = 5 << 20

// uploadPhotoHandler stores a profile photo in the assets directory and
// points the CV photo field at it.
func (s *Server) uploadPhotoHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		writeErrorResponse(w, "Invalid upload", err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeErrorResponse(w, "Missing file", "Form field 'photo' is required", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.Logger.Debug("Failed to close upload", "error", err.Error())
		}
	}()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !photoExtensions[ext] {
		writeErrorResponse(w, "Unsupported file type",
			"Allowed extensions: jpg, jpeg, png, gif", http.StatusBadRequest)
		return
	}
	if header.Size > maxPhotoBytes {
		writeErrorResponse(w, "File too large", "Photos are limited to 5 MB", http.StatusBadRequest)
		return
	}

	name := "profile" + ext
	if err := s.savePhoto(file, name); err != nil {
		writeErrorResponse(w, "Failed to save photo", err.Error(), http.StatusInternalServerError)
		return
	}

	if err := s.updatePhotoRef(name); err != nil {
		writeErrorResponse(w, "Failed to update CV", err.Error(), http.StatusInternalServerError)
		return
	}

	s.Logger.Info("Photo uploaded", "name", name, "bytes", header.Size)
	s.hub.Broadcast("change")
	writeJSON(w, http.StatusOK, map[string]any{"photo": name})
}

func (s *Server) savePhoto(file multipart.File, name string) error {
	dir := s.AppConfig.App.AssetsDir
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	out, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			s.Logger.Debug("Failed to close photo file", "error", err.Error())
		}
	}()

	_, err = out.ReadFrom(file)
	return err
}

// updatePhotoRef rewrites the CV source with the new photo reference.
func (s *Server) updatePhotoRef(name string) error {
	doc, err := cv.Load(s.sourcePath())
	if err != nil {
		return err
	}
	doc.Photo = name

	data, err := cv.ToYAML(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(s.sourcePath(), data, 0o600)
}

// assetHandler serves a file from the asset resolver (user directory
// first, embedded defaults as fallback).
func (s *Server) assetHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeErrorResponse(w, "Invalid asset name", "Path components are not allowed", http.StatusBadRequest)
		return
	}

	rc, err := s.assets.Open(name)
	if err != nil {
		writeErrorResponse(w, "Asset not found", name, http.StatusNotFound)
		return
	}
	defer func() {
		if err := rc.Close(); err != nil {
			s.Logger.Debug("Failed to close asset", "error", err.Error())
		}
	}()

	w.Header().Set("Content-Type", assetContentType(name))
	if _, err := io.Copy(w, rc); err != nil {
		s.Logger.Debug("Asset write failed", "error", err.Error())
	}
}

func assetContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

// statusHandler reports editor state for the UI header.
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	_, err := os.Stat(s.sourcePath())
	writeJSON(w, http.StatusOK, map[string]any{
		"cv_exists": err == nil,
		"provider":  s.providerName(),
		"themes":    theme.Names(),
		"version":   s.Version,
	})
}

// loadDocument reads and parses the CV source, writing the error
// response itself on failure.
func (s *Server) loadDocument(w http.ResponseWriter) (*cv.Document, bool) {
	doc, err := cv.Load(s.sourcePath())
	if err != nil {
		var schemaErr *errors.SchemaError
		if stderrors.As(err, &schemaErr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":    "CV is invalid",
				"problems": schemaErr.Problems,
			})
			return nil, false
		}
		writeErrorResponse(w, "Failed to load CV", err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return doc, true
}

// themeParam reads the theme query parameter, defaulting to the
// configured theme.
func (s *Server) themeParam(r *http.Request) string {
	if t := r.URL.Query().Get("theme"); t != "" {
		return t
	}
	return s.AppConfig.App.Theme
}

// langParam reads the lang query parameter, defaulting to the
// configured language.
func (s *Server) langParam(r *http.Request) string {
	if l := r.URL.Query().Get("lang"); l != "" {
		return l
	}
	return s.AppConfig.App.Lang
}

// buildFilename names the DOCX artifact after the CV owner and language.
func buildFilename(doc *cv.Document, lang string) string {
	if lang == "" {
		lang = "en"
	}
	return fmt.Sprintf("%s_CV_%s.docx", doc.Slug(), strings.ToUpper(lang))
}
