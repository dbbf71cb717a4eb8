package docgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Role is the document-type suffix carried by every generated filename.
type Role string

const (
	RoleSpecification Role = "说明书"
	RoleClaims        Role = "权利要求书"
	RoleDrawings      Role = "说明书附图"
	RoleAbstract      Role = "说明书摘要"
)

// Document binds one filing document to its template file and to the key
// under which its download link is reported.
type Document struct {
	Key      string
	Role     Role
	Template string
}

// documents lists the four filing documents. Template filenames follow the
// numbered naming of the official form set and must match exactly.
var documents = []Document{
	{Key: "claims", Role: RoleClaims, Template: "100001权利要求书.docx"},
	{Key: "spec", Role: RoleSpecification, Template: "100002说明书.docx"},
	{Key: "drawings", Role: RoleDrawings, Template: "100003说明书附图.docx"},
	{Key: "abstract", Role: RoleAbstract, Template: "100004说明书摘要.docx"},
}

// Documents returns the filing document set in render order.
func Documents() []Document {
	out := make([]Document, len(documents))
	copy(out, documents)
	return out
}

// CheckTemplates verifies that every filing template exists under dir. The
// returned error lists all missing paths, not just the first, so a fresh
// deployment can be fixed in one pass.
func CheckTemplates(dir string) error {
	var missing []string
	for _, d := range documents {
		p := filepath.Join(dir, d.Template)
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing template files:\n%s", strings.Join(missing, "\n"))
	}
	return nil
}
