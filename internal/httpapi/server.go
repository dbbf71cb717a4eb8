package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joelkehle/patent-docgen/internal/claims"
	"github.com/joelkehle/patent-docgen/internal/docgen"
	"github.com/joelkehle/patent-docgen/internal/history"
	"github.com/joelkehle/patent-docgen/internal/preview"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// PDFRenderer prints preview HTML to PDF bytes.
type PDFRenderer interface {
	Available() bool
	Render(ctx context.Context, htmlDoc string) ([]byte, error)
}

type Server struct {
	pipeline      *docgen.Pipeline
	history       history.API
	pdf           PDFRenderer
	publicBaseURL string
}

func NewServer(pipeline *docgen.Pipeline, hist history.API, pdf PDFRenderer, publicBaseURL string) http.Handler {
	s := &Server{
		pipeline:      pipeline,
		history:       hist,
		pdf:           pdf,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/generate-patent", s.handleGenerate)
	mux.HandleFunc("/download/", s.handleDownload)
	mux.HandleFunc("/generations", s.handleGenerations)
	mux.HandleFunc("/generations/", s.handleGeneration)
	mux.HandleFunc("/preview", s.handlePreview)
	mux.HandleFunc("/preview-pdf", s.handlePreviewPDF)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func decodePayload(r *http.Request) (docgen.Payload, error) {
	var p docgen.Payload
	blob, err := readBody(r)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(blob, &p); err != nil {
		return p, err
	}
	return p, nil
}

func parseInt(value string, def int) int {
	if strings.TrimSpace(value) == "" {
		return def
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return v
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// downloadURL builds the absolute retrieval link for an output file: the
// configured public base URL when set, else the origin the request came in on.
func (s *Server) downloadURL(r *http.Request, filename string) string {
	rel := "/download/" + url.PathEscape(filename)
	if s.publicBaseURL != "" {
		return s.publicBaseURL + rel
	}
	scheme := "http"
	if proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		scheme = proto
	} else if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + rel
}

func draftFromPayload(p docgen.Payload) preview.Draft {
	return preview.Draft{
		Title:            p.Title.String(),
		TechField:        p.TechField.String(),
		Background:       p.Background.String(),
		InventionContent: p.InventionContent.String(),
		DrawingsDesc:     p.DrawingsDesc.String(),
		Embodiment:       p.Embodiment.String(),
		Claims:           claims.Normalize(p.Claims),
		Abstract:         p.Abstract.String(),
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	payload, err := decodePayload(r)
	if err != nil {
		writeError(w, 400, "invalid request body: "+err.Error())
		return
	}
	if err := docgen.CheckTemplates(s.pipeline.TemplateDir); err != nil {
		writeError(w, 500, err.Error())
		return
	}

	result, err := s.pipeline.Generate(r.Context(), payload)
	if err != nil {
		log.Printf("generate failed: %v", err)
		writeError(w, 500, "generation failed: "+err.Error())
		return
	}

	if err := s.history.Record(history.Entry{
		ID:         result.ID,
		Title:      result.Title,
		ClaimCount: len(result.Claims),
		Files:      result.Files,
	}); err != nil {
		log.Printf("record generation %s: %v", result.ID, err)
	}

	files := make(map[string]string, len(result.Files))
	for key, name := range result.Files {
		files[key] = s.downloadURL(r, name)
	}
	writeJSON(w, 200, map[string]any{
		"status": "success",
		"id":     result.ID,
		"files":  files,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	filename := strings.TrimPrefix(r.URL.Path, "/download/")
	if filename == "" {
		writeError(w, 400, "filename is required")
		return
	}
	if strings.ContainsAny(filename, `/\`) {
		writeError(w, 400, "invalid filename")
		return
	}
	path := filepath.Join(s.pipeline.OutputDir, filename)
	if _, err := os.Stat(path); err != nil {
		writeError(w, 404, "file not found")
		return
	}
	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	http.ServeFile(w, r, path)
}

func (s *Server) handleGenerations(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 20)
	writeJSON(w, 200, map[string]any{"generations": s.history.Recent(limit)})
}

func (s *Server) handleGeneration(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/generations/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, 404, "generation not found")
		return
	}
	e, ok := s.history.Get(id)
	if !ok {
		writeError(w, 404, "generation not found")
		return
	}
	writeJSON(w, 200, e)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	payload, err := decodePayload(r)
	if err != nil {
		writeError(w, 400, "invalid request body: "+err.Error())
		return
	}
	htmlDoc, err := preview.RenderHTML(preview.BuildMarkdown(draftFromPayload(payload)))
	if err != nil {
		log.Printf("render preview failed: %v", err)
		writeError(w, 500, "failed to render preview")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(200)
	_, _ = w.Write([]byte(htmlDoc))
}

func (s *Server) handlePreviewPDF(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	if s.pdf == nil || !s.pdf.Available() {
		writeError(w, 503, "pdf renderer unavailable")
		return
	}
	payload, err := decodePayload(r)
	if err != nil {
		writeError(w, 400, "invalid request body: "+err.Error())
		return
	}
	htmlDoc, err := preview.RenderHTML(preview.BuildMarkdown(draftFromPayload(payload)))
	if err != nil {
		log.Printf("render preview failed: %v", err)
		writeError(w, 500, "failed to render preview")
		return
	}
	pdf, err := s.pdf.Render(r.Context(), htmlDoc)
	if err != nil {
		log.Printf("render preview pdf failed: %v", err)
		writeError(w, 500, "failed to render pdf")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="patent-draft.pdf"`)
	w.WriteHeader(200)
	_, _ = w.Write(pdf)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
