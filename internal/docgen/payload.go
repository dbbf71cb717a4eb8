package docgen

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/joelkehle/patent-docgen/internal/claims"
)

// Text is a request field that tolerates sloppy client JSON: numbers and
// booleans are stringified, null becomes empty, and composite values keep
// their raw JSON form. Strings are trimmed.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(strings.TrimSpace(s))
		return nil
	}
	if string(data) == "null" {
		*t = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*t = Text(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*t = Text(strconv.FormatBool(b))
		return nil
	}
	*t = Text(strings.TrimSpace(string(data)))
	return nil
}

func (t Text) String() string { return string(t) }

// Payload carries the eight application sections accepted by the generate
// endpoint. Every field is optional; missing sections render as empty
// placeholders in the templates.
type Payload struct {
	Title            Text             `json:"title"`
	TechField        Text             `json:"tech_field"`
	Background       Text             `json:"background"`
	InventionContent Text             `json:"invention_content"`
	DrawingsDesc     Text             `json:"drawings_desc"`
	Embodiment       Text             `json:"embodiment"`
	Claims           claims.RawClaims `json:"claims"`
	Abstract         Text             `json:"abstract"`
}
