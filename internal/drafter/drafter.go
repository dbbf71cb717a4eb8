package drafter

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// maxSectionRunes bounds how much of a long section goes into the prompt.
const maxSectionRunes = 4000

// Drafter produces a 说明书摘要 from the rest of an application when the
// client did not supply one.
type Drafter struct {
	caller LLMCaller
}

func New(caller LLMCaller) *Drafter {
	return &Drafter{caller: caller}
}

func (d *Drafter) DraftAbstract(ctx context.Context, title, inventionContent, claimsBlock string) (string, error) {
	var b strings.Builder
	b.WriteString("请根据以下申请内容撰写说明书摘要。\n\n")
	if title = strings.TrimSpace(title); title != "" {
		fmt.Fprintf(&b, "发明名称：%s\n\n", title)
	}
	if s := truncateRunes(strings.TrimSpace(inventionContent), maxSectionRunes); s != "" {
		fmt.Fprintf(&b, "发明内容：\n%s\n\n", s)
	}
	if s := truncateRunes(strings.TrimSpace(claimsBlock), maxSectionRunes); s != "" {
		fmt.Fprintf(&b, "权利要求：\n%s\n", s)
	}

	raw, err := d.caller.GenerateText(ctx, b.String())
	if err != nil {
		return "", fmt.Errorf("draft abstract: %w", err)
	}
	text := strings.TrimSpace(stripCodeFences(raw))
	if text == "" {
		return "", errors.New("draft abstract: empty response")
	}
	return text, nil
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// stripCodeFences unwraps a response the model wrapped in ``` fences.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if _, rest, ok := strings.Cut(s, "\n"); ok {
		s = rest
	}
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
