package server

import (
	"context"
	"net/http"
	"os"

	"resumake/internal/observability"
	"resumake/internal/types"
)

type jobRequest struct {
	Job     string `json:"job"`
	Company string `json:"company,omitempty"`
}

// tailorHandler rewrites the CV for a pasted job description.
func (s *Server) tailorHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireProvider(w) {
		return
	}

	var req jobRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Job == "" {
		writeErrorResponse(w, "Missing job description", "Field 'job' is required", http.StatusBadRequest)
		return
	}

	cvYAML, ok := s.readSource(w)
	if !ok {
		return
	}

	var tailored string
	err := s.trackAI(r.Context(), "tailor", func(ctx context.Context) *observability.AIOperationResult {
		var usage *types.TokenUsage
		var err error
		tailored, usage, err = s.Provider.Tailor(ctx, types.TailorInput{
			CVYAML:         cvYAML,
			JobDescription: req.Job,
		})
		return &observability.AIOperationResult{Error: err, TokenUsage: usage}
	})
	if err != nil {
		s.writeAIError(w, "Tailoring failed", err)
		return
	}

	writeJSON(w, http.StatusOK, cvRequest{YAML: tailored})
}

// coverLetterHandler drafts a cover letter for a job description.
func (s *Server) coverLetterHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireProvider(w) {
		return
	}

	var req jobRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Job == "" {
		writeErrorResponse(w, "Missing job description", "Field 'job' is required", http.StatusBadRequest)
		return
	}

	cvYAML, ok := s.readSource(w)
	if !ok {
		return
	}

	var letter types.CoverLetter
	err := s.trackAI(r.Context(), "cover_letter", func(ctx context.Context) *observability.AIOperationResult {
		var usage *types.TokenUsage
		var err error
		letter, usage, err = s.Provider.CoverLetter(ctx, types.CoverLetterInput{
			CVYAML:         cvYAML,
			JobDescription: req.Job,
			Company:        req.Company,
		})
		return &observability.AIOperationResult{Error: err, TokenUsage: usage}
	})
	if err != nil {
		s.writeAIError(w, "Cover letter generation failed", err)
		return
	}

	if req.Company != "" {
		letter.Recipient = req.Company
	}
	writeJSON(w, http.StatusOK, letter)
}

// atsHandler scores the CV against a job description.
func (s *Server) atsHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireProvider(w) {
		return
	}

	var req jobRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Job == "" {
		writeErrorResponse(w, "Missing job description", "Field 'job' is required", http.StatusBadRequest)
		return
	}

	cvYAML, ok := s.readSource(w)
	if !ok {
		return
	}

	var report types.ATSReport
	err := s.trackAI(r.Context(), "ats", func(ctx context.Context) *observability.AIOperationResult {
		var usage *types.TokenUsage
		var err error
		report, usage, err = s.Provider.ScoreATS(ctx, types.ATSInput{
			CVYAML:         cvYAML,
			JobDescription: req.Job,
		})
		return &observability.AIOperationResult{Error: err, TokenUsage: usage}
	})
	if err != nil {
		s.writeAIError(w, "ATS scoring failed", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// suggestHandler reviews the CV and proposes improvements.
func (s *Server) suggestHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireProvider(w) {
		return
	}

	cvYAML, ok := s.readSource(w)
	if !ok {
		return
	}

	var report types.SuggestReport
	err := s.trackAI(r.Context(), "suggest", func(ctx context.Context) *observability.AIOperationResult {
		var usage *types.TokenUsage
		var err error
		report, usage, err = s.Provider.Suggest(ctx, cvYAML)
		return &observability.AIOperationResult{Error: err, TokenUsage: usage}
	})
	if err != nil {
		s.writeAIError(w, "Suggestion generation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// readSource returns the raw CV YAML, writing the error response on
// failure.
func (s *Server) readSource(w http.ResponseWriter) (string, bool) {
	data, err := os.ReadFile(s.sourcePath())
	if err != nil {
		writeErrorResponse(w, "Failed to read CV", err.Error(), http.StatusInternalServerError)
		return "", false
	}
	return string(data), true
}

// trackAI runs fn under AI metrics when observability is enabled,
// directly otherwise.
func (s *Server) trackAI(ctx context.Context, operation string, fn func(context.Context) *observability.AIOperationResult) error {
	if s.metrics != nil {
		return s.metrics.TrackAIOperationWithTokens(ctx, operation, fn)
	}
	result := fn(ctx)
	if result != nil {
		return result.Error
	}
	return nil
}

// writeAIError maps provider failures to responses, logging the cause.
func (s *Server) writeAIError(w http.ResponseWriter, label string, err error) {
	s.Logger.LogError(err, label)
	writeErrorResponse(w, label, err.Error(), http.StatusBadGateway)
}
