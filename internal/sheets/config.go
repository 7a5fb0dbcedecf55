// internal/sheets/config.go
package sheets

import (
	"encoding/json"
	"regexp"
	"strings"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"
)

var spreadsheetIDInURL = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)

// MethodConfig is the typed view of a sheets form, decoded once per request.
type MethodConfig struct {
	Entity                   string      `form:"entity"`
	Command                  string      `form:"command"`
	SpreadsheetID            string      `form:"spreadsheetId"`
	SpreadsheetURL           string      `form:"spreadsheetUrl"`
	SpreadsheetName          string      `form:"spreadsheetName"`
	SheetTitle               string      `form:"sheetTitle"`
	Range                    string      `form:"range"`
	TableHeaderIndex         int         `form:"tableHeaderIndex"`
	RowIndex                 *int        `form:"rowIndex"`
	RowOffset                int         `form:"rowOffset"`
	RowLimit                 int         `form:"rowLimit"`
	RowObject                interface{} `form:"rowObject"`
	RowObjects               interface{} `form:"rowObjects"`
	FirstRowIsHeader         *bool       `form:"firstRowIsHeader"`
	DestinationSpreadsheetID string      `form:"destinationSpreadsheetId"`
}

func NewMethodConfig(form formdata.Map) (*MethodConfig, error) {
	var cfg MethodConfig
	if err := formdata.Decode(form, &cfg); err != nil {
		return nil, err
	}

	if cfg.SpreadsheetID == "" {
		cfg.SpreadsheetID = cfg.SpreadsheetURL
	}
	cfg.SpreadsheetID = spreadsheetIDFrom(cfg.SpreadsheetID)
	cfg.DestinationSpreadsheetID = spreadsheetIDFrom(cfg.DestinationSpreadsheetID)

	if cfg.TableHeaderIndex == 0 {
		cfg.TableHeaderIndex = 1
	}
	switch {
	case cfg.TableHeaderIndex < 1:
		return nil, apperrors.NewInvalidMethodRequestError(FieldTableHeaderIndex, "must be 1 or greater")
	case cfg.RowIndex != nil && *cfg.RowIndex < 0:
		return nil, apperrors.NewInvalidMethodRequestError(FieldRowIndex, "must not be negative")
	case cfg.RowOffset < 0:
		return nil, apperrors.NewInvalidMethodRequestError(FieldRowOffset, "must not be negative")
	case cfg.RowLimit < 0:
		return nil, apperrors.NewInvalidMethodRequestError(FieldRowLimit, "must not be negative")
	}
	return &cfg, nil
}

// spreadsheetIDFrom accepts a bare id or a spreadsheet URL.
func spreadsheetIDFrom(v string) string {
	if m := spreadsheetIDInURL.FindStringSubmatch(v); m != nil {
		return m[1]
	}
	return v
}

func (c *MethodConfig) Key() models.OperationKey {
	return models.OperationKey{Entity: models.EntityKind(c.Entity), Command: models.CommandKind(c.Command)}
}

func (c *MethodConfig) firstRowIsHeader() bool {
	return c.FirstRowIsHeader == nil || *c.FirstRowIsHeader
}

// quotedSheet renders the sheet title for A1 notation.
func (c *MethodConfig) quotedSheet() string {
	return "'" + strings.ReplaceAll(c.SheetTitle, "'", "''") + "'"
}

func (c *MethodConfig) requireSpreadsheet() error {
	if c.SpreadsheetID == "" {
		return apperrors.NewInvalidMethodRequestError(FieldSpreadsheetID, "missing required field")
	}
	return nil
}

func (c *MethodConfig) requireSheet() error {
	if err := c.requireSpreadsheet(); err != nil {
		return err
	}
	if c.SheetTitle == "" {
		return apperrors.NewInvalidMethodRequestError(FieldSheetTitle, "missing required field")
	}
	return nil
}

func jsonBytes(field string, v interface{}) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, nil
		}
		return []byte(t), nil
	case []byte:
		return t, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, apperrors.NewInvalidMethodRequestError(field, err.Error())
	}
	return b, nil
}
