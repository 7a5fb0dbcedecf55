// internal/sheets/sheet_methods.go
package sheets

import (
	"context"
	"fmt"
	"net/http"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/common/transport"
	"actionbridge/internal/models"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// clearSheet serves SHEET_CLEAR. The range is addressed by title, so no sheet id is needed.
type clearSheet struct {
	noPrerequisites
	ep Endpoints
}

func (m *clearSheet) ValidateRequest(cfg *MethodConfig) error {
	return cfg.requireSheet()
}

func (m *clearSheet) BuildRequest(cfg *MethodConfig) (*transport.Request, error) {
	a1 := cfg.quotedSheet()
	if cfg.Range != "" {
		a1 += "!" + cfg.Range
	}
	return jsonRequest(http.MethodPost, m.ep.values(cfg.SpreadsheetID, a1, ":clear", nil), []byte(`{}`)), nil
}

func (m *clearSheet) TransformResponse(body gjson.Result, _ *MethodConfig) (interface{}, error) {
	return map[string]interface{}{
		"message":      "Cleared sheet successfully!",
		"clearedRange": body.Get("clearedRange").String(),
	}, nil
}

// copySheet serves SHEET_COPY. Without a destination the copy lands in the same spreadsheet.
type copySheet struct {
	ep      Endpoints
	sheetID int64
}

func (m *copySheet) ValidateRequest(cfg *MethodConfig) error {
	return cfg.requireSheet()
}

func (m *copySheet) ResolvePrerequisites(ctx context.Context, cfg *MethodConfig, call Caller) error {
	id, err := fetchSheetID(ctx, call, m.ep, cfg)
	if err != nil {
		return err
	}
	m.sheetID = id
	return nil
}

func (m *copySheet) BuildRequest(cfg *MethodConfig) (*transport.Request, error) {
	dest := cfg.DestinationSpreadsheetID
	if dest == "" {
		dest = cfg.SpreadsheetID
	}
	body, err := sjson.SetBytes([]byte(`{}`), "destinationSpreadsheetId", dest)
	if err != nil {
		return nil, apperrors.NewInvalidMethodRequestError(FieldDestinationSpreadsheetID, err.Error())
	}
	suffix := fmt.Sprintf("/sheets/%d:copyTo", m.sheetID)
	return jsonRequest(http.MethodPost, m.ep.spreadsheet(cfg.SpreadsheetID, suffix, nil), body), nil
}

func (m *copySheet) TransformResponse(body gjson.Result, _ *MethodConfig) (interface{}, error) {
	return map[string]interface{}{
		"sheetId": body.Get("sheetId").Int(),
		"title":   body.Get("title").String(),
		"index":   body.Get("index").Int(),
	}, nil
}

// deleteSheet serves SHEET_DELETE_ONE.
type deleteSheet struct {
	ep      Endpoints
	sheetID int64
}

func (m *deleteSheet) ValidateRequest(cfg *MethodConfig) error {
	return cfg.requireSheet()
}

func (m *deleteSheet) ResolvePrerequisites(ctx context.Context, cfg *MethodConfig, call Caller) error {
	id, err := fetchSheetID(ctx, call, m.ep, cfg)
	if err != nil {
		return err
	}
	m.sheetID = id
	return nil
}

func (m *deleteSheet) BuildRequest(cfg *MethodConfig) (*transport.Request, error) {
	req, err := sjson.SetBytes([]byte(`{}`), "sheetId", m.sheetID)
	if err != nil {
		return nil, apperrors.NewInvalidMethodRequestError(FieldSheetTitle, err.Error())
	}
	body, err := batchUpdateBody("deleteSheet", req)
	if err != nil {
		return nil, apperrors.NewInvalidMethodRequestError(FieldSheetTitle, err.Error())
	}
	return jsonRequest(http.MethodPost, m.ep.spreadsheet(cfg.SpreadsheetID, ":batchUpdate", nil), body), nil
}

func (m *deleteSheet) TransformResponse(_ gjson.Result, cfg *MethodConfig) (interface{}, error) {
	return message(fmt.Sprintf("Deleted sheet %s successfully!", cfg.SheetTitle)), nil
}

// fetchStructure serves SHEET_FETCH_STRUCTURE and the COLUMNS_SELECTOR trigger.
type fetchStructure struct {
	noPrerequisites
	ep Endpoints
}

func (m *fetchStructure) ValidateRequest(cfg *MethodConfig) error {
	return cfg.requireSheet()
}

func (m *fetchStructure) BuildRequest(cfg *MethodConfig) (*transport.Request, error) {
	return getRequest(m.ep.values(cfg.SpreadsheetID, headerA1(cfg), "", nil)), nil
}

func (m *fetchStructure) TransformResponse(body gjson.Result, _ *MethodConfig) (interface{}, error) {
	headers := headerRow(body)
	if headers == nil {
		headers = []string{}
	}
	return headers, nil
}

func (m *fetchStructure) ValidateTrigger(cfg *MethodConfig) error {
	return m.ValidateRequest(cfg)
}

func (m *fetchStructure) BuildTriggerRequest(cfg *MethodConfig) (*transport.Request, error) {
	return m.BuildRequest(cfg)
}

func (m *fetchStructure) TransformTrigger(body gjson.Result, _ *MethodConfig) ([]models.Option, error) {
	options := []models.Option{}
	for _, h := range headerRow(body) {
		options = append(options, models.Option{Label: h, Value: h})
	}
	return options, nil
}
