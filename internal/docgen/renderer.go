package docgen

import (
	"fmt"
	"path/filepath"

	docx "github.com/lukasjarosch/go-docx"
)

// Renderer produces one output document from a template and a flat field
// mapping.
type Renderer interface {
	Render(templatePath string, fields map[string]string, outPath string) error
}

// DocxRenderer fills {FIELD} placeholders in .docx templates. Placeholder
// names in the template must match the field keys exactly.
type DocxRenderer struct{}

func (DocxRenderer) Render(templatePath string, fields map[string]string, outPath string) error {
	doc, err := docx.Open(templatePath)
	if err != nil {
		return fmt.Errorf("open template %s: %w", filepath.Base(templatePath), err)
	}
	placeholders := make(docx.PlaceholderMap, len(fields))
	for k, v := range fields {
		placeholders[k] = v
	}
	if err := doc.ReplaceAll(placeholders); err != nil {
		return fmt.Errorf("fill template %s: %w", filepath.Base(templatePath), err)
	}
	if err := doc.WriteToFile(outPath); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(outPath), err)
	}
	return nil
}
