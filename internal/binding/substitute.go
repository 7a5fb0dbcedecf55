// internal/binding/substitute.go
package binding

import (
	"bytes"
	"encoding/json"
	"strings"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/models"

	"github.com/tidwall/gjson"
)

const marker = "?"

// Template is a text with every {{ … }} binding occurrence replaced by a
// positional marker. slots holds the byte offset of each marker in masked and
// keys the binding text at that slot, both in left-to-right order.
type Template struct {
	masked string
	slots  []int
	keys   []string
}

// Parse scans text left to right. Nested braces inside a binding are matched
// so `{{ {a: 1} }}` is one occurrence. An unterminated `{{` stays literal.
func Parse(text string) Template {
	var t Template
	var out strings.Builder
	i := 0
	for i < len(text) {
		if !strings.HasPrefix(text[i:], "{{") {
			out.WriteByte(text[i])
			i++
			continue
		}
		end := closing(text, i+2)
		if end < 0 {
			out.WriteString(text[i:])
			break
		}
		t.slots = append(t.slots, out.Len())
		t.keys = append(t.keys, strings.TrimSpace(text[i+2:end]))
		out.WriteString(marker)
		i = end + 2
	}
	t.masked = out.String()
	return t
}

func closing(text string, from int) int {
	depth := 0
	for j := from; j < len(text); j++ {
		switch text[j] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				if j+1 < len(text) && text[j+1] == '}' {
					return j
				}
				continue
			}
			depth--
		}
	}
	return -1
}

func (t Template) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Masked renders the text with a positional marker per binding.
func (t Template) Masked() string {
	return t.masked
}

// Substitute replaces every binding occurrence with its value. Values are placed
// JSON-aware: inside a string literal they are escaped, elsewhere a valid JSON
// value is inlined and anything else is quoted.
func Substitute(text string, params []models.Param) (string, []models.BoundParam, error) {
	t := Parse(text)
	bound, err := bind(t.Keys(), params)
	if err != nil {
		return "", nil, err
	}
	if len(bound) == 0 {
		return text, nil, nil
	}

	masked := t.Masked()
	var out strings.Builder
	inString := false
	prev := 0
	for i, at := range t.slots {
		segment := masked[prev:at]
		out.WriteString(segment)
		inString = scanStringState(segment, inString)
		out.WriteString(place(bound[i].Value, inString))
		prev = at + len(marker)
	}
	out.WriteString(masked[prev:])
	return out.String(), bound, nil
}

// bind resolves one value per key, keeping key order and duplicates.
func bind(keys []string, params []models.Param) ([]models.BoundParam, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	values := make(map[string]string, len(params))
	for _, p := range params {
		values[normalizeKey(p.Key)] = p.Value
	}

	bound := make([]models.BoundParam, 0, len(keys))
	for _, key := range keys {
		val, ok := values[key]
		if !ok {
			return nil, apperrors.NewSubstitutionError("{{"+key+"}}", "no value was supplied")
		}
		bound = append(bound, models.BoundParam{Placeholder: "{{" + key + "}}", Value: val})
	}
	return bound, nil
}

func normalizeKey(k string) string {
	k = strings.TrimSpace(k)
	if strings.HasPrefix(k, "{{") && strings.HasSuffix(k, "}}") {
		k = strings.TrimSpace(k[2 : len(k)-2])
	}
	return k
}

// scanStringState tracks whether the end of segment lies inside a JSON string.
func scanStringState(segment string, inString bool) bool {
	escaped := false
	for i := 0; i < len(segment); i++ {
		c := segment[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		}
	}
	return inString
}

func place(val string, inString bool) string {
	if inString {
		q := quote(val)
		return q[1 : len(q)-1]
	}
	if strings.TrimSpace(val) != "" && gjson.Valid(val) {
		return val
	}
	return quote(val)
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimRight(buf.String(), "\n")
}
