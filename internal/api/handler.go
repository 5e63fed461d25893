// Package api exposes the wisebrief HTTP surface: brief generation and
// chat proxied to the upstream Wise service, session persistence, and
// PDF export.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MitreaRazvan/wisebrief/internal/annotation"
	"github.com/MitreaRazvan/wisebrief/internal/brief"
	"github.com/MitreaRazvan/wisebrief/internal/export"
	"github.com/MitreaRazvan/wisebrief/internal/storage"
	"github.com/MitreaRazvan/wisebrief/internal/wise"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Generator abstracts the upstream Wise client for the API layer.
type Generator interface {
	GenerateBrief(ctx context.Context, brandDescription string) (*wise.BriefResponse, error)
	Chat(ctx context.Context, req wise.ChatRequest) (*wise.ChatResponse, error)
	PromptTemplates(ctx context.Context) (*wise.PromptTemplates, error)
}

type AppDeps struct {
	Store *storage.Store
	Wise  Generator
	Token string
}

func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Post("/brief", handleGenerateBrief(deps))
		r.Post("/chat", handleChat(deps))
		r.Get("/prompt-templates", handlePromptTemplates(deps))

		r.Post("/sessions/save", handleSaveSession(deps))
		r.Get("/sessions", handleListSessions(deps))
		r.Get("/sessions/{id}", handleGetSession(deps))
		r.Delete("/sessions/{id}", handleDeleteSession(deps))

		r.Get("/sessions/{id}/export", handleExportSession(deps))
		r.Post("/export", handleExport(deps))
	})

	return r
}

func handleGenerateBrief(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req wise.BriefRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.BrandDescription == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "brand_description is required")
			return
		}

		resp, err := deps.Wise.GenerateBrief(r.Context(), req.BrandDescription)
		if err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "upstream brief generation failed: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func handleChat(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req wise.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.UserMessage == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "user_message is required")
			return
		}

		resp, err := deps.Wise.Chat(r.Context(), req)
		if err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "upstream chat failed: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func handlePromptTemplates(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tpl, err := deps.Wise.PromptTemplates(r.Context())
		if err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "fetching prompt templates failed: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tpl)
	}
}

// SaveSessionRequest is a full snapshot of a working session. An empty id
// creates a new session; a known id overwrites the stored snapshot.
type SaveSessionRequest struct {
	ID               string                  `json:"id"`
	BrandDescription string                  `json:"brand_description"`
	CreativeBrief    string                  `json:"creative_brief"`
	Messages         []wise.Message          `json:"messages"`
	Annotations      []annotation.Annotation `json:"annotations"`
}

func handleSaveSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req SaveSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.BrandDescription == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "brand_description is required")
			return
		}

		if req.ID == "" {
			req.ID = uuid.New().String()
		}

		s := storage.Session{
			ID:               req.ID,
			BrandDescription: req.BrandDescription,
			CreativeBrief:    req.CreativeBrief,
			Messages:         req.Messages,
			Annotations:      req.Annotations,
			UpdatedAt:        time.Now().UTC(),
		}
		if err := deps.Store.SaveSession(s); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save session: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"id":     req.ID,
			"status": "saved",
		})
	}
}

func handleListSessions(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := deps.Store.ListSessions()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list sessions: %v", err)
			return
		}

		if sessions == nil {
			sessions = []storage.SessionSummary{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessions)
	}
}

func handleGetSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		s, err := deps.Store.GetSession(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get session: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s)
	}
}

func handleDeleteSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := deps.Store.DeleteSession(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete session: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
	}
}

func handleExportSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		s, err := deps.Store.GetSession(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get session: %v", err)
			return
		}

		writePDF(w, s.BrandDescription, s.CreativeBrief, s.Annotations)
	}
}

// ExportRequest renders a PDF from an unsaved working state.
type ExportRequest struct {
	BrandDescription string                  `json:"brand_description"`
	CreativeBrief    string                  `json:"creative_brief"`
	Annotations      []annotation.Annotation `json:"annotations"`
}

func handleExport(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req ExportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.CreativeBrief == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "creative_brief is required")
			return
		}

		writePDF(w, req.BrandDescription, req.CreativeBrief, req.Annotations)
	}
}

func writePDF(w http.ResponseWriter, brandDescription, creativeBrief string, annotations []annotation.Annotation) {
	body, _ := brief.ExtractSources(creativeBrief)
	sections := brief.ParseSections(body)

	pdf, err := export.Render(export.Options{
		BrandDescription: brandDescription,
		Sections:         sections,
		Annotations:      annotations,
	})
	if err != nil {
		httpError(w, http.StatusInternalServerError, "api_error", "failed to render pdf: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(brandDescription)))
	w.Write(pdf)
}
