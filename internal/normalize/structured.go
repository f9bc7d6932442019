package normalize

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// Matcher extracts text from one known JSON output shape.
// ok is false when the document does not have that shape.
type Matcher struct {
	Name  string
	Match func(doc gjson.Result) (text string, ok bool)
}

// Matchers is the fixed order in which output shapes are tried. The last
// entry accepts any document, so extraction never comes back empty-handed.
var Matchers = []Matcher{
	{Name: "string", Match: matchString},
	{Name: "candidates", Match: matchCandidates},
	{Name: "text", Match: matchField("text")},
	{Name: "response", Match: matchField("response")},
	{Name: "raw", Match: matchRaw},
}

// Structured parses ANSI-stripped output as JSON and extracts its text using
// Matchers. Output that is not valid JSON goes through Plain instead.
func Structured(raw string) string {
	s := strings.TrimSpace(StripANSI(raw))
	if !gjson.Valid(s) {
		return Plain(s)
	}
	return Extract(gjson.Parse(s))
}

// Extract runs Matchers in order against doc.
func Extract(doc gjson.Result) string {
	for _, m := range Matchers {
		if text, ok := m.Match(doc); ok {
			return text
		}
	}
	return doc.Raw
}

func matchString(doc gjson.Result) (string, bool) {
	if doc.Type != gjson.String {
		return "", false
	}
	return doc.String(), true
}

// matchCandidates concatenates candidates[0].content.parts[].text in order.
// Parts without a text field are skipped.
func matchCandidates(doc gjson.Result) (string, bool) {
	if !doc.IsObject() {
		return "", false
	}
	parts := doc.Get("candidates.0.content.parts")
	if !parts.IsArray() {
		return "", false
	}

	var b strings.Builder
	parts.ForEach(func(_, part gjson.Result) bool {
		if text := part.Get("text"); text.Exists() {
			b.WriteString(text.String())
		}
		return true
	})
	return b.String(), true
}

func matchField(name string) func(gjson.Result) (string, bool) {
	return func(doc gjson.Result) (string, bool) {
		if !doc.IsObject() {
			return "", false
		}
		field := doc.Get(name)
		if !field.Exists() || field.Type == gjson.Null {
			return "", false
		}
		return field.String(), true
	}
}

// matchRaw re-serializes the document in compact form.
func matchRaw(doc gjson.Result) (string, bool) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(doc.Raw)); err != nil {
		return doc.Raw, true
	}
	return buf.String(), true
}
