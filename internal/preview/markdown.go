package preview

import (
	"fmt"
	"strconv"
	"strings"
)

// Draft is the input to the preview renderers: the application sections in
// filing order plus the normalized claims.
type Draft struct {
	Title            string
	TechField        string
	Background       string
	InventionContent string
	DrawingsDesc     string
	Embodiment       string
	Claims           []string
	Abstract         string
}

const emptySection = "（无）"

// BuildMarkdown assembles the draft into a single markdown document laid out
// like a CN invention application. Empty sections render as placeholders so
// the reviewer sees what is still missing.
func BuildMarkdown(d Draft) string {
	var b strings.Builder

	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = "（未命名发明）"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	writeSection(&b, "技术领域", d.TechField)
	writeSection(&b, "背景技术", d.Background)
	writeSection(&b, "发明内容", d.InventionContent)
	writeSection(&b, "附图说明", d.DrawingsDesc)
	writeSection(&b, "具体实施方式", d.Embodiment)

	fmt.Fprintf(&b, "## 权利要求书\n\n")
	if len(d.Claims) == 0 {
		fmt.Fprintf(&b, "%s\n\n", emptySection)
	} else {
		for _, c := range d.Claims {
			fmt.Fprintf(&b, "%s\n\n", escapeClaimNumber(c))
		}
	}

	writeSection(&b, "说明书摘要", d.Abstract)
	return b.String()
}

// escapeClaimNumber keeps a leading "1. " from being parsed as an
// ordered-list marker, so claims keep their literal numbering in the preview.
func escapeClaimNumber(c string) string {
	i := strings.Index(c, ". ")
	if i <= 0 {
		return c
	}
	if _, err := strconv.Atoi(c[:i]); err != nil {
		return c
	}
	return c[:i] + "\\." + c[i+1:]
}

func writeSection(b *strings.Builder, heading, body string) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	body = strings.TrimSpace(body)
	if body == "" {
		body = emptySection
	}
	fmt.Fprintf(b, "%s\n\n", body)
}
