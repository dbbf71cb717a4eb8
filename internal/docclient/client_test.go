package docclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateDecodesResponse(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		blob, _ := io.ReadAll(r.Body)
		gotBody = string(blob)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"id":     "abc123defa",
			"files": map[string]string{
				"spec": "http://example.com/download/abc123defa_x.docx",
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	result, err := c.Generate(context.Background(), GenerateRequest{
		Title:  "一种装置",
		Claims: []string{"一种装置"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/generate-patent" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
	if !strings.Contains(gotBody, "一种装置") {
		t.Fatalf("request body missing title: %s", gotBody)
	}
	if result.ID != "abc123defa" {
		t.Fatalf("unexpected id: %q", result.ID)
	}
	if result.Files["spec"] == "" {
		t.Fatalf("missing spec file in result: %v", result.Files)
	}
}

func TestGenerateSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(500)
		json.NewEncoder(w).Encode(map[string]string{"error": "generation failed: boom"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Generate(context.Background(), GenerateRequest{Title: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status=500") || !strings.Contains(err.Error(), "generation failed: boom") {
		t.Fatalf("error should carry status and body: %v", err)
	}
}

func TestGetGeneration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generations/abc123defa" {
			w.WriteHeader(404)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "abc123defa",
			"title":       "一种装置",
			"claim_count": 3,
			"files":       map[string]string{"claims": "abc123defa_权利要求书.docx"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	entry, err := c.GetGeneration(context.Background(), "abc123defa")
	if err != nil {
		t.Fatalf("get generation: %v", err)
	}
	if entry.ClaimCount != 3 || entry.Title != "一种装置" {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	if _, err := c.GetGeneration(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}
