package docgen

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/joelkehle/patent-docgen/internal/claims"
)

// AbstractDrafter fills in a missing 说明书摘要 from the rest of the
// application. Implementations may call out to an LLM; failures degrade to
// an empty abstract rather than failing the batch.
type AbstractDrafter interface {
	DraftAbstract(ctx context.Context, title, inventionContent, claimsBlock string) (string, error)
}

// Pipeline renders one generation request into the four filing documents.
type Pipeline struct {
	TemplateDir string
	OutputDir   string
	Renderer    Renderer
	Drafter     AbstractDrafter // optional
}

// Result describes one completed generation.
type Result struct {
	ID     string
	Files  map[string]string // response key -> output filename
	Claims []string          // normalized claims as rendered
	Title  string
}

// Generate normalizes the claims, merges all sections into one field mapping
// and renders every filing template with it. All four documents share the
// request id in their filenames. The first render failure aborts the batch.
func (p *Pipeline) Generate(ctx context.Context, payload Payload) (*Result, error) {
	id := newRequestID()
	normalized := claims.Normalize(payload.Claims)
	block := claims.Join(normalized)

	abstract := payload.Abstract.String()
	if abstract == "" && p.Drafter != nil {
		drafted, err := p.Drafter.DraftAbstract(ctx, payload.Title.String(), payload.InventionContent.String(), block)
		if err != nil {
			log.Printf("abstract draft skipped: %v", err)
		} else {
			abstract = drafted
		}
	}

	fields := map[string]string{
		"TITLE":             payload.Title.String(),
		"TECH_FIELD":        payload.TechField.String(),
		"BACKGROUND":        payload.Background.String(),
		"INVENTION_CONTENT": payload.InventionContent.String(),
		"DRAWINGS_DESC":     payload.DrawingsDesc.String(),
		"EMBODIMENT":        payload.Embodiment.String(),
		"CLAIMS":            block,
		"ABSTRACT":          abstract,
	}

	files := make(map[string]string, len(documents))
	for _, d := range documents {
		name := fmt.Sprintf("%s_%s.docx", id, d.Role)
		tpl := filepath.Join(p.TemplateDir, d.Template)
		if err := p.Renderer.Render(tpl, fields, filepath.Join(p.OutputDir, name)); err != nil {
			return nil, fmt.Errorf("render %s: %w", d.Role, err)
		}
		files[d.Key] = name
	}

	return &Result{ID: id, Files: files, Claims: normalized, Title: payload.Title.String()}, nil
}

// newRequestID returns the 10-hex-char identifier shared by one request's
// output files.
func newRequestID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:10]
}
