package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/matzehuels/roomforge/pkg/errors"
	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/pipeline"
	"github.com/matzehuels/roomforge/pkg/program"
	"github.com/matzehuels/roomforge/pkg/store"
)

// =============================================================================
// Request / Response Types
// =============================================================================

// GenerateRequest is the POST /generate-layout body.
// Mode selects which input is used: "freeform" reads Freeform.Text,
// "structured" reads Structured.Program.
type GenerateRequest struct {
	Mode       string           `json:"mode"`
	Freeform   *FreeformInput   `json:"freeform,omitempty"`
	Structured *StructuredInput `json:"structured,omitempty"`

	// Generation overrides, all optional.
	Seed    uint64   `json:"seed,omitempty"`
	Anneal  bool     `json:"anneal,omitempty"`
	Formats []string `json:"formats,omitempty"`
}

// FreeformInput carries a natural-language description.
type FreeformInput struct {
	Text string `json:"text"`
}

// StructuredInput carries an explicit room program.
type StructuredInput struct {
	Program program.RawProgram `json:"program"`
}

// GenerateResponse is the success body for POST /generate-layout.
type GenerateResponse struct {
	ID     string        `json:"id"`
	Layout layout.Layout `json:"layout"`
	SVG    string        `json:"svg,omitempty"`
}

// ConflictResponse reports an infeasible or invalid program. Code carries
// a machine-readable error code for programmatic handling.
type ConflictResponse struct {
	Error       string         `json:"error"`
	Code        apperrors.Code `json:"code,omitempty"`
	Conflicts   []string       `json:"conflicts,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ConflictResponse{Error: "invalid JSON body", Code: apperrors.ErrCodeInvalidInput})
		return
	}

	raw, ok := s.resolveProgram(w, r, req)
	if !ok {
		return
	}

	opts := pipeline.Options{
		Program: raw,
		Seed:    req.Seed,
		Anneal:  req.Anneal,
		Formats: req.Formats,
		Logger:  s.logger,
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatSVG}
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeGenerateError(w, err)
		return
	}

	id, err := s.store.Save(r.Context(), result.Layout)
	if err != nil {
		s.logger.Error("save layout", "err", err)
		writeJSON(w, http.StatusInternalServerError, ConflictResponse{Error: "could not persist layout", Code: apperrors.ErrCodeInternal})
		return
	}
	result.Layout.ID = id

	writeJSON(w, http.StatusOK, GenerateResponse{
		ID:     id,
		Layout: result.Layout,
		SVG:    string(result.Artifacts[pipeline.FormatSVG]),
	})
}

// resolveProgram extracts the raw program from the request according to its
// mode, writing the error response itself on failure.
func (s *Server) resolveProgram(w http.ResponseWriter, r *http.Request, req GenerateRequest) (program.RawProgram, bool) {
	switch req.Mode {
	case "freeform":
		if req.Freeform == nil || req.Freeform.Text == "" {
			writeJSON(w, http.StatusBadRequest, ConflictResponse{Error: "freeform mode requires freeform.text", Code: apperrors.ErrCodeInvalidInput})
			return program.RawProgram{}, false
		}
		raw, err := s.extractor.Extract(r.Context(), req.Freeform.Text)
		if err != nil {
			s.logger.Error("extract constraints", "err", err)
			writeJSON(w, http.StatusBadGateway, ConflictResponse{Error: "constraint extraction failed", Code: apperrors.ErrCodeNetwork})
			return program.RawProgram{}, false
		}
		return raw, true
	case "structured":
		if req.Structured == nil {
			writeJSON(w, http.StatusBadRequest, ConflictResponse{Error: "structured mode requires structured.program", Code: apperrors.ErrCodeInvalidInput})
			return program.RawProgram{}, false
		}
		return req.Structured.Program, true
	}
	writeJSON(w, http.StatusBadRequest, ConflictResponse{Error: "mode must be \"freeform\" or \"structured\"", Code: apperrors.ErrCodeInvalidInput})
	return program.RawProgram{}, false
}

// writeGenerateError maps pipeline errors to HTTP conflict responses.
// Infeasible programs get actionable suggestions including the shortfall.
func (s *Server) writeGenerateError(w http.ResponseWriter, err error) {
	var infeasible *program.InfeasibleProgramError
	if errors.As(err, &infeasible) {
		writeJSON(w, http.StatusConflict, ConflictResponse{
			Error:     "program does not fit the lot",
			Code:      apperrors.ErrCodeInfeasible,
			Conflicts: []string{infeasible.Error()},
			Suggestions: []string{
				infeasible.Suggestion(),
				"reduce room counts or areas",
				"increase the lot size",
			},
		})
		return
	}
	var invalid *program.InvalidInputError
	if errors.As(err, &invalid) {
		writeJSON(w, http.StatusBadRequest, ConflictResponse{
			Error:     "invalid room program",
			Code:      apperrors.ErrCodeInvalidProgram,
			Conflicts: []string{invalid.Error()},
		})
		return
	}
	s.logger.Error("generate layout", "err", err)
	writeJSON(w, http.StatusInternalServerError, ConflictResponse{Error: "layout generation failed", Code: apperrors.ErrCodeInternal})
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := apperrors.ValidateLayoutID(id); err != nil {
		writeJSON(w, http.StatusBadRequest, ConflictResponse{Error: apperrors.UserMessage(err), Code: apperrors.GetCode(err)})
		return
	}
	l, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ConflictResponse{Error: "layout not found", Code: apperrors.ErrCodeLayoutNotFound})
		return
	}
	if err != nil {
		s.logger.Error("get layout", "id", id, "err", err)
		writeJSON(w, http.StatusInternalServerError, ConflictResponse{Error: "could not load layout", Code: apperrors.ErrCodeInternal})
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("list layouts", "err", err)
		writeJSON(w, http.StatusInternalServerError, ConflictResponse{Error: "could not list layouts", Code: apperrors.ErrCodeInternal})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"ids": ids})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
