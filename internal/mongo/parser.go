// internal/mongo/parser.go
package mongo

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	apperrors "actionbridge/internal/common/errors"

	"go.mongodb.org/mongo-driver/bson"
)

const fragmentLimit = 64

// shell constructors and the extended JSON wrapper each one becomes
var shellLiterals = map[string]string{
	"ObjectId":      "$oid",
	"ISODate":       "$date",
	"NumberLong":    "$numberLong",
	"NumberInt":     "$numberInt",
	"NumberDecimal": "$numberDecimal",
}

// ParseDocument parses builder text into a document. It accepts strict JSON
// plus the shell conveniences users paste from mongosh: unquoted keys,
// single-quoted strings and ObjectId/ISODate/Number* constructors.
func ParseDocument(field, text string) (bson.D, error) {
	v, err := ParseValue(field, text)
	if err != nil {
		return nil, err
	}
	doc, ok := v.(bson.D)
	if !ok {
		return nil, apperrors.NewQuerySyntaxError(field, fragment(text), fmt.Errorf("expected a document, got %T", v))
	}
	return doc, nil
}

// ParseArray parses an array, wrapping a lone document as a one-element array.
func ParseArray(field, text string) (bson.A, error) {
	v, err := ParseValue(field, text)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case bson.A:
		return t, nil
	case bson.D:
		return bson.A{t}, nil
	}
	return nil, apperrors.NewQuerySyntaxError(field, fragment(text), fmt.Errorf("expected an array, got %T", v))
}

// ParseValue parses any JSON value using the lenient rules of ParseDocument.
func ParseValue(field, text string) (interface{}, error) {
	normalized, err := normalizeShell(text)
	if err != nil {
		return nil, apperrors.NewQuerySyntaxError(field, fragment(text), err)
	}

	var holder bson.D
	if err := bson.UnmarshalExtJSON([]byte(`{"v":`+normalized+`}`), false, &holder); err != nil {
		return nil, apperrors.NewQuerySyntaxError(field, fragment(text), err)
	}
	if len(holder) != 1 {
		return nil, apperrors.NewQuerySyntaxError(field, fragment(text), fmt.Errorf("trailing content"))
	}
	return holder[0].Value, nil
}

func fragment(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > fragmentLimit {
		return text[:fragmentLimit] + "…"
	}
	return text
}

func normalizeShell(text string) (string, error) {
	var out strings.Builder
	s := strings.TrimSpace(text)
	if s == "" {
		return "", fmt.Errorf("empty input")
	}

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '"':
			lit, n, err := readString(s[i:], '"')
			if err != nil {
				return "", err
			}
			out.WriteString(lit)
			i += n
		case c == '\'':
			lit, n, err := readString(s[i:], '\'')
			if err != nil {
				return "", err
			}
			out.WriteString(lit)
			i += n
		case isIdentStart(c):
			j := i + 1
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			ident := s[i:j]
			k := skipSpace(s, j)
			switch {
			case k < len(s) && s[k] == ':':
				out.WriteString(`"` + ident + `"`)
				i = j
			case k < len(s) && s[k] == '(' && shellLiterals[ident] != "":
				lit, n, err := readConstructor(ident, s[k:])
				if err != nil {
					return "", err
				}
				out.WriteString(lit)
				i = k + n
			default:
				out.WriteString(ident)
				i = j
			}
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String(), nil
}

// readString reads a quoted literal starting at s[0] and returns it re-quoted
// with double quotes plus the number of bytes consumed.
func readString(s string, quote byte) (string, int, error) {
	var b strings.Builder
	b.WriteByte('"')
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			next := s[i+1]
			if quote == '\'' && next == '\'' {
				b.WriteByte('\'')
			} else {
				b.WriteByte(c)
				b.WriteByte(next)
			}
			i++
		case c == quote:
			b.WriteByte('"')
			return b.String(), i + 1, nil
		case c == '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, fmt.Errorf("unterminated string literal")
}

// readConstructor turns `("…")` after a shell constructor into its extended JSON form.
func readConstructor(ident, s string) (string, int, error) {
	i := skipSpace(s, 1)
	if i >= len(s) {
		return "", 0, fmt.Errorf("unterminated %s(", ident)
	}

	var arg string
	if s[i] == '"' || s[i] == '\'' {
		lit, n, err := readString(s[i:], s[i])
		if err != nil {
			return "", 0, err
		}
		arg = lit[1 : len(lit)-1]
		i += n
	} else {
		end := strings.IndexByte(s[i:], ')')
		if end < 0 {
			return "", 0, fmt.Errorf("unterminated %s(", ident)
		}
		arg = strings.TrimSpace(s[i : i+end])
		i += end
	}

	i = skipSpace(s, i)
	if i >= len(s) {
		return "", 0, fmt.Errorf("unterminated %s(", ident)
	}
	if s[i] != ')' {
		return "", 0, fmt.Errorf("unexpected content in %s(%s", ident, s[1:i+1])
	}
	if arg == "" {
		return "", 0, fmt.Errorf("%s() requires an argument", ident)
	}
	if ident == "ISODate" {
		arg = normalizeDate(arg)
	}
	return fmt.Sprintf(`{%q:"%s"}`, shellLiterals[ident], arg), i + 1, nil
}

func normalizeDate(v string) string {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t.UTC().Format(time.RFC3339)
	}
	return v
}

func skipSpace(s string, i int) int {
	for i < len(s) && unicode.IsSpace(rune(s[i])) {
		i++
	}
	return i
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '.'
}
