package sheets

import (
	stderrors "errors"
	"testing"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/formdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMethodConfig_TrimsNumericFields(t *testing.T) {
	cfg, err := NewMethodConfig(formdata.Map{
		"entity":           "ROW",
		"command":          "FETCH_MANY",
		"spreadsheetId":    " abc ",
		"sheetTitle":       "Sheet1",
		"tableHeaderIndex": "  2",
		"rowIndex":         "2 \n",
		"rowOffset":        "\n\n 72 \n\n",
		"rowLimit":         " 22 ",
		"firstRowIsHeader": "false",
	})
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.SpreadsheetID)
	assert.Equal(t, 2, cfg.TableHeaderIndex)
	require.NotNil(t, cfg.RowIndex)
	assert.Equal(t, 2, *cfg.RowIndex)
	assert.Equal(t, 72, cfg.RowOffset)
	assert.Equal(t, 22, cfg.RowLimit)
	assert.False(t, cfg.firstRowIsHeader())
	assert.Equal(t, "ROW_FETCH_MANY", cfg.Key().String())
}

func TestNewMethodConfig_Defaults(t *testing.T) {
	cfg, err := NewMethodConfig(formdata.Map{"spreadsheetId": "abc", "rowIndex": "  "})
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.TableHeaderIndex)
	assert.Nil(t, cfg.RowIndex)
	assert.True(t, cfg.firstRowIsHeader())
}

func TestNewMethodConfig_SpreadsheetURL(t *testing.T) {
	cfg, err := NewMethodConfig(formdata.Map{
		"spreadsheetUrl":           "https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=0",
		"destinationSpreadsheetId": "https://docs.google.com/spreadsheets/d/XyZ/edit",
	})
	require.NoError(t, err)
	assert.Equal(t, "1AbC-d_9", cfg.SpreadsheetID)
	assert.Equal(t, "XyZ", cfg.DestinationSpreadsheetID)
}

func TestNewMethodConfig_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		form  formdata.Map
		field string
	}{
		{"negative header", formdata.Map{"tableHeaderIndex": "-1"}, FieldTableHeaderIndex},
		{"negative row index", formdata.Map{"rowIndex": -4}, FieldRowIndex},
		{"negative offset", formdata.Map{"rowOffset": "-1"}, FieldRowOffset},
		{"negative limit", formdata.Map{"rowLimit": -1}, FieldRowLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMethodConfig(tt.form)
			require.Error(t, err)
			var se *apperrors.StandardError
			require.True(t, stderrors.As(err, &se))
			assert.Equal(t, apperrors.ErrCodeInvalidMethodRequest, se.Code)
			assert.Equal(t, tt.field, se.Metadata["field"])
		})
	}
}

func TestNewMethodConfig_RowIndexIsDecimal(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want int
	}{
		{"zero padded", " 010 ", 10},
		{"leading zero", "07", 7},
		{"whole float", float64(4), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewMethodConfig(formdata.Map{"spreadsheetId": "X", "sheetTitle": "S", "rowIndex": tt.in})
			require.NoError(t, err)
			require.NotNil(t, cfg.RowIndex)
			assert.Equal(t, tt.want, *cfg.RowIndex)
		})
	}
}

func TestNewMethodConfig_RejectsLooseTypes(t *testing.T) {
	tests := []struct {
		name string
		form formdata.Map
	}{
		{"hex row index", formdata.Map{"rowIndex": "0x1F"}},
		{"fractional row index", formdata.Map{"rowIndex": 2.5}},
		{"boolean row index", formdata.Map{"rowIndex": true}},
		{"boolean sheet title", formdata.Map{"sheetTitle": true}},
		{"numeric header flag", formdata.Map{"firstRowIsHeader": float64(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := formdata.Map{"spreadsheetId": "X", "sheetTitle": "S"}
			for k, v := range tt.form {
				form[k] = v
			}
			_, err := NewMethodConfig(form)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeConfigurationType, apperrors.CodeOf(err))
		})
	}
}

func TestQuotedSheet(t *testing.T) {
	cfg := &MethodConfig{SheetTitle: "Bob's sheet"}
	assert.Equal(t, "'Bob''s sheet'", cfg.quotedSheet())
}
