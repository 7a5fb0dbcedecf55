// internal/mongo/template.go
package mongo

import (
	"strings"

	"github.com/tidwall/pretty"
	"go.mongodb.org/mongo-driver/bson"
)

// oidPlaceholder renders as {"$oid": "…"} without requiring a valid hex id.
func oidPlaceholder(id string) bson.D {
	return bson.D{{Key: "$oid", Value: id}}
}

func renderBody(doc bson.D) string {
	out, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return ""
	}
	return string(pretty.Pretty(out))
}

// queryText renders doc as compact extended JSON for a builder text field.
func queryText(doc bson.D) string {
	out, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return matchAll
	}
	return string(out)
}

// membersText is queryText without the enclosing braces.
func membersText(doc bson.D) string {
	text := queryText(doc)
	return strings.TrimSuffix(strings.TrimPrefix(text, "{"), "}")
}
