package mongo

import (
	stderrors "errors"
	"testing"

	apperrors "actionbridge/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func extJSON(t *testing.T, v interface{}) string {
	t.Helper()
	out, err := bson.MarshalExtJSON(v, false, false)
	require.NoError(t, err)
	return string(out)
}

func TestParseDocument_StrictJSON(t *testing.T) {
	doc, err := ParseDocument("Query", `{"age": {"$gt": 21}, "tags": ["a", "b"]}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"age":{"$gt":21},"tags":["a","b"]}`, extJSON(t, doc))
}

func TestParseDocument_ShellConveniences(t *testing.T) {
	doc, err := ParseDocument("Query", `{ name: 'O\'Brien', "quote": 'say "hi"', $or: [{ a: 1 }] }`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"O'Brien","quote":"say \"hi\"","$or":[{"a":1}]}`, extJSON(t, doc))
}

func TestParseDocument_ShellLiterals(t *testing.T) {
	doc, err := ParseDocument("Query", `{
		"_id": ObjectId("5f1b2c3d4e5f6a7b8c9d0e1f"),
		"at": ISODate("2020-01-02"),
		"big": NumberLong(9007199254740993),
		"small": NumberInt("7"),
		"price": NumberDecimal("1.50")
	}`)
	require.NoError(t, err)
	require.Len(t, doc, 5)

	oid, ok := doc[0].Value.(primitive.ObjectID)
	require.True(t, ok, "%T", doc[0].Value)
	assert.Equal(t, "5f1b2c3d4e5f6a7b8c9d0e1f", oid.Hex())

	at, ok := doc[1].Value.(primitive.DateTime)
	require.True(t, ok, "%T", doc[1].Value)
	assert.Equal(t, "2020-01-02T00:00:00Z", at.Time().UTC().Format("2006-01-02T15:04:05Z07:00"))

	assert.Equal(t, int64(9007199254740993), doc[2].Value)
	assert.Equal(t, int32(7), doc[3].Value)
	_, ok = doc[4].Value.(primitive.Decimal128)
	assert.True(t, ok, "%T", doc[4].Value)
}

func TestNormalizeShell_ConstructorArguments(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"paren inside quotes", `{"_id": ObjectId("a)b")}`, `{"_id": {"$oid":"a)b"}}`},
		{"single quotes", `{n: NumberInt('7')}`, `{"n": {"$numberInt":"7"}}`},
		{"padded", `{n: NumberLong( "12" )}`, `{"n": {"$numberLong":"12"}}`},
		{"bare argument", `{n: NumberLong(12)}`, `{"n": {"$numberLong":"12"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeShell(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeShell_ConstructorErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		msg  string
	}{
		{"content after argument", `{"_id": ObjectId("abc" x)}`, "unexpected content"},
		{"missing close", `{"_id": ObjectId("abc"`, "unterminated ObjectId("},
		{"empty argument", `{"_id": ObjectId()}`, "requires an argument"},
		{"unterminated argument", `{"_id": ObjectId("a)b}`, "unterminated string literal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalizeShell(tt.text)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseDocument_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"truncated", `{"a": `},
		{"unterminated string", `{"a": "b}`},
		{"bad object id", `{"_id": ObjectId("nothex")}`},
		{"not a document", `[1, 2]`},
		{"empty", `   `},
		{"trailing garbage", `{"a": 1} {"b": 2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument("Query", tt.text)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, apperrors.ErrQuerySyntax))
			assert.Equal(t, "Query", apperrors.Normalize(err).Metadata["field"])
		})
	}
}

func TestParseArray_WrapsSingleDocument(t *testing.T) {
	arr, err := ParseArray("Pipeline", `{"$match": {}}`)
	require.NoError(t, err)
	assert.Len(t, arr, 1)

	arr, err = ParseArray("Pipeline", `[{"$match": {}}, {"$limit": 5}]`)
	require.NoError(t, err)
	assert.Len(t, arr, 2)

	_, err = ParseArray("Pipeline", `"text"`)
	assert.Error(t, err)
}

func TestFragment_Truncates(t *testing.T) {
	long := `{"a": "` + string(make([]byte, 100)) + `"}`
	assert.LessOrEqual(t, len([]rune(fragment(long))), fragmentLimit+1)
	assert.Equal(t, `{"a": 1}`, fragment("  {\"a\": 1}\n"))
}
