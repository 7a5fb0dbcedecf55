package formdata

import (
	stderrors "errors"
	"testing"

	apperrors "actionbridge/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInt_TrimsSurroundingWhitespace(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"  200", 200},
		{"2 \n", 2},
		{"\n\n 72 \n\n", 72},
		{" 22 ", 22},
		{"\t\r\n5\t", 5},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := GetInt(Map{"limit": tt.raw}, "limit", 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt_Defaults(t *testing.T) {
	tests := []struct {
		name string
		form Map
	}{
		{"absent", Map{}},
		{"nil value", Map{"limit": nil}},
		{"blank", Map{"limit": "   "}},
		{"newlines only", Map{"limit": "\n\t\n"}},
		{"nil map", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetInt(tt.form, "limit", 10)
			require.NoError(t, err)
			assert.Equal(t, 10, got)
		})
	}
}

func TestGetInt_TypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		val  interface{}
	}{
		{"object", map[string]interface{}{"a": 1}},
		{"list", []interface{}{1}},
		{"fraction", 1.5},
		{"garbage", "12abc"},
		{"bool", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GetInt(Map{"limit": tt.val}, "limit", 10)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, apperrors.ErrConfigurationType))
			assert.Equal(t, "limit", apperrors.Normalize(err).Metadata["field"])
		})
	}
}

func TestGetInt_AcceptsJSONNumbers(t *testing.T) {
	got, err := GetInt(Map{"n": float64(42)}, "n", 0)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	got64, err := GetInt64(Map{"n": "9007199254740993"}, "n", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), got64)
}

func TestGetString(t *testing.T) {
	s, err := GetString(Map{"collection": "  users \n"}, "collection", "")
	require.NoError(t, err)
	assert.Equal(t, "users", s)

	s, err = GetString(Map{"collection": " "}, "collection", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", s)

	s, err = GetString(Map{"n": float64(3)}, "n", "")
	require.NoError(t, err)
	assert.Equal(t, "3", s)

	_, err = GetString(Map{"q": map[string]interface{}{"a": 1}}, "q", "")
	assert.True(t, stderrors.Is(err, apperrors.ErrConfigurationType))
}

func TestGetBool(t *testing.T) {
	b, err := GetBool(Map{"flag": " TRUE "}, "flag", false)
	require.NoError(t, err)
	assert.True(t, b)

	b, err = GetBool(Map{}, "flag", true)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = GetBool(Map{"flag": "yes please"}, "flag", false)
	assert.Error(t, err)
}

func TestLookup_DottedPathsAndWrappers(t *testing.T) {
	form := Map{
		"find": map[string]interface{}{
			"query": map[string]interface{}{"data": `{"a": 1}`, "viewType": "json"},
			"limit": "5",
		},
		"find.limit": "7",
	}

	q, err := GetString(form, "find.query", "")
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, q)

	limit, err := GetInt(form, "find.limit", 10)
	require.NoError(t, err)
	assert.Equal(t, 7, limit, "flat key wins over path traversal")

	assert.False(t, Present(form, "find.sort"))
	assert.True(t, Present(form, "find.query"))
}

func TestLookup_ObjectWithDataAndOtherKeysIsNotUnwrapped(t *testing.T) {
	form := Map{"rowObject": map[string]interface{}{"data": "x", "name": "y"}}
	obj, err := GetObject(form, "rowObject", nil)
	require.NoError(t, err)
	assert.Equal(t, "y", obj["name"])
}

func TestSet(t *testing.T) {
	form := Map{"find": map[string]interface{}{"query": map[string]interface{}{"data": "old"}}}

	Set(form, "find.query", "new")
	Set(form, "find.sort", `{"_id": 1}`)
	Set(form, "collection", "users")
	Set(form, "delete.limit", "ALL")

	q, _ := GetString(form, "find.query", "")
	assert.Equal(t, "new", q)
	inner := form["find"].(map[string]interface{})["query"].(map[string]interface{})
	assert.Equal(t, "new", inner["data"], "wrapper is preserved")

	sort, _ := GetString(form, "find.sort", "")
	assert.Equal(t, `{"_id": 1}`, sort)
	assert.Equal(t, "users", form["collection"])
	limit, _ := GetString(form, "delete.limit", "")
	assert.Equal(t, "ALL", limit)
}

func TestClone_IsDeep(t *testing.T) {
	orig := Map{
		"find": map[string]interface{}{"query": "{}"},
		"list": []interface{}{map[string]interface{}{"a": 1}},
	}
	cp := Clone(orig)
	Set(cp, "find.query", `{"x": 1}`)
	cp["list"].([]interface{})[0].(map[string]interface{})["a"] = 2

	q, _ := GetString(orig, "find.query", "")
	assert.Equal(t, "{}", q)
	assert.Equal(t, 1, orig["list"].([]interface{})[0].(map[string]interface{})["a"])
}
