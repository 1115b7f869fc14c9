package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"pddgen/internal/catalog"
	"pddgen/internal/docpipe"
	"pddgen/internal/export"
	llmclient "pddgen/internal/llmClient"
	"pddgen/internal/pdd"
)

// uploads larger than this are rejected before any provider call
const maxUploadBytes = 64 << 20

type transcriber interface {
	Transcribe(ctx context.Context, mimeType string, data []byte) (string, error)
}

type server struct {
	svc         *pdd.Service
	transcriber transcriber
}

func newServer(svc *pdd.Service, tr transcriber) *server {
	return &server{svc: svc, transcriber: tr}
}

func (s *server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/generate-pdd", s.handleGenerate)
	mux.HandleFunc("/api/upload-and-process", s.handleUpload)
	mux.HandleFunc("/api/refine-section", s.handleRefine)
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/export-pdd", s.handleExport)
	mux.HandleFunc("/api/generate-ws", s.handleGenerateWS)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		ProcessText string `json:"process_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	res, err := s.svc.Generate(r.Context(), in.ProcessText)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	sourceText, err := s.sourceTextFromUpload(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.svc.Generate(r.Context(), sourceText)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// sourceTextFromUpload turns an upload into extraction input. Documents
// are parsed locally; media files are transcribed and then normalized
// into an operational guide.
func (s *server) sourceTextFromUpload(ctx context.Context, filename string, data []byte) (string, error) {
	format, err := docpipe.Detect(filename)
	if err != nil {
		return "", &pdd.InvalidInputError{Msg: err.Error()}
	}

	if format != docpipe.FormatMedia {
		text, err := docpipe.ExtractText(filename, data)
		if err != nil {
			return "", &pdd.InvalidInputError{Msg: err.Error()}
		}
		return text, nil
	}

	if s.transcriber == nil {
		return "", &pdd.InvalidInputError{Msg: "media uploads are not supported by this deployment"}
	}
	transcript, err := s.transcriber.Transcribe(ctx, docpipe.MediaMIMEType(filename), data)
	if err != nil {
		return "", &pdd.GenerationError{Op: "transcribe", Err: err}
	}
	return s.svc.Guide.Synthesize(ctx, transcript, "")
}

func (s *server) handleRefine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		SectionName    string `json:"section_name"`
		CurrentContent string `json:"current_content"`
		UserFeedback   string `json:"user_feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	out, err := s.svc.Refiner.Refine(r.Context(), in.SectionName, in.CurrentContent, in.UserFeedback)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"refined_content": out})
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		Message string `json:"message"`
		Context string `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	out, err := pdd.Chat(r.Context(), s.svc.LLM, in.Message, in.Context)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": out})
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		Format        string        `json:"format"`
		ProcessName   string        `json:"process_name"`
		Sections      []pdd.Section `json:"sections"`
		DiagramCode   string        `json:"diagram_code"`
		AnchorSection string        `json:"anchor_section"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if len(in.Sections) == 0 {
		writeError(w, &pdd.InvalidInputError{Msg: "document has no sections"})
		return
	}
	if in.ProcessName == "" {
		in.ProcessName = pdd.DefaultProcessName
	}
	doc := &pdd.GenerationResult{
		ProcessName:   in.ProcessName,
		Sections:      in.Sections,
		DiagramCode:   in.DiagramCode,
		AnchorSection: in.AnchorSection,
	}

	switch strings.ToLower(strings.TrimSpace(in.Format)) {
	case "", "html":
		out, err := export.HTML(doc)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="pdd.html"`)
		_, _ = io.WriteString(w, out)
	case "markdown", "md":
		out, err := export.Markdown(doc)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="pdd.md"`)
		_, _ = io.WriteString(w, out)
	default:
		writeError(w, &pdd.InvalidInputError{Msg: fmt.Sprintf("unsupported export format %q", in.Format)})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses. Provider failures
// surface as 502 so callers can tell an upstream outage from a bad request.
func writeError(w http.ResponseWriter, err error) {
	var invalid *pdd.InvalidInputError
	var cfgErr *catalog.ConfigError
	var provErr *llmclient.ProviderError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
	case errors.As(err, &cfgErr):
		status = http.StatusInternalServerError
	case errors.As(err, &provErr):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= 500 {
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
