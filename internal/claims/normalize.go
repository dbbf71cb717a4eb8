package claims

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	// claimLabel matches a leading 权利要求N label with half- or full-width colon.
	claimLabel = regexp.MustCompile(`^\s*权利要求\s*\d+\s*[:：]\s*`)
	// enumerator matches a leading 1) / 1、 / 1. style list marker.
	enumerator = regexp.MustCompile(`^\s*\d+\s*[)、.]\s*`)
)

// terminalCutset holds the trailing punctuation replaced by the closing 。.
const terminalCutset = " .;；:："

type rawKind int

const (
	rawAbsent rawKind = iota
	rawList
	rawBlob
)

// RawClaims holds the claims field of a generation request before
// normalization. The field arrives in one of several JSON shapes: a list of
// items, a single newline-separated block, a bare scalar, or nothing at all.
type RawClaims struct {
	kind rawKind
	list []string
	blob string
}

// FromList builds RawClaims from already-separated claim items.
func FromList(items []string) RawClaims {
	return RawClaims{kind: rawList, list: items}
}

// FromBlob builds RawClaims from a single newline-separated block of text.
func FromBlob(text string) RawClaims {
	return RawClaims{kind: rawBlob, blob: text}
}

// Resolve coerces a decoded JSON value into RawClaims. Lists keep their
// element boundaries, strings become a text block split on line breaks later,
// and anything else is stringified rather than rejected.
func Resolve(v any) RawClaims {
	switch val := v.(type) {
	case nil:
		return RawClaims{}
	case []any:
		items := make([]string, 0, len(val))
		for _, it := range val {
			items = append(items, stringify(it))
		}
		return RawClaims{kind: rawList, list: items}
	case string:
		return FromBlob(val)
	default:
		return FromBlob(stringify(v))
	}
}

// UnmarshalJSON accepts the claims field in any JSON shape.
func (rc *RawClaims) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	*rc = Resolve(v)
	return nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// items splits the raw input into trimmed, non-blank claim candidates.
func (rc RawClaims) items() []string {
	switch rc.kind {
	case rawList:
		out := make([]string, 0, len(rc.list))
		for _, it := range rc.list {
			if it = strings.TrimSpace(it); it != "" {
				out = append(out, it)
			}
		}
		return out
	case rawBlob:
		lines := strings.Split(rc.blob, "\n")
		out := make([]string, 0, len(lines))
		for _, line := range lines {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
		return out
	default:
		return nil
	}
}

// Normalize renumbers the claims 1..n and terminates each with 。 as filing
// practice requires. Leading 权利要求N： labels and list markers are stripped
// first so re-submitted or hand-numbered text does not end up double-numbered.
// Blank entries are dropped before numbering, so the sequence has no gaps.
func Normalize(rc RawClaims) []string {
	items := rc.items()
	if len(items) == 0 {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = normalizeItem(i+1, item)
	}
	return out
}

func normalizeItem(n int, item string) string {
	c := strings.TrimSpace(claimLabel.ReplaceAllString(item, ""))
	prefix := strconv.Itoa(n) + ". "
	if !strings.HasPrefix(c, prefix) {
		c = strings.TrimSpace(enumerator.ReplaceAllString(c, ""))
		c = prefix + c
	}
	c = strings.TrimRightFunc(c, unicode.IsSpace)
	if !strings.HasSuffix(c, "。") {
		c = strings.TrimRight(c, terminalCutset) + "。"
	}
	return c
}

// Join renders normalized claims as the single block substituted into the
// claims document template.
func Join(normalized []string) string {
	return strings.Join(normalized, "\n")
}
