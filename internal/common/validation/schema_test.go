package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRowObject(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{"scalars", `{"name":"Ada","age":36,"active":true,"note":null}`, true},
		{"empty object", `{}`, true},
		{"nested object", `{"name":{"first":"Ada"}}`, false},
		{"array value", `{"tags":["a"]}`, false},
		{"not an object", `["a"]`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ValidateRowObject([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid, res.GetErrorMessages())
		})
	}
}

func TestValidateRowObjects(t *testing.T) {
	res, err := ValidateRowObjects([]byte(`[{"a":"1"},{"a":2}]`))
	require.NoError(t, err)
	assert.True(t, res.Valid)

	res, err = ValidateRowObjects([]byte(`{"a":"1"}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.GetErrorMessages())
}

func TestValidateRowObject_MalformedJSON(t *testing.T) {
	_, err := ValidateRowObject([]byte(`{"a":`))
	assert.Error(t, err)
}
