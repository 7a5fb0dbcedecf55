// internal/sheets/spreadsheet_methods.go
package sheets

import (
	"fmt"
	"net/http"
	"net/url"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/common/transport"
	"actionbridge/internal/models"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// createSpreadsheet serves SPREADSHEET_INSERT_ONE.
type createSpreadsheet struct {
	noPrerequisites
	ep Endpoints
}

func (m *createSpreadsheet) ValidateRequest(cfg *MethodConfig) error {
	if cfg.SpreadsheetName == "" {
		return apperrors.NewInvalidMethodRequestError(FieldSpreadsheetName, "missing required field")
	}
	return nil
}

func (m *createSpreadsheet) BuildRequest(cfg *MethodConfig) (*transport.Request, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "properties.title", cfg.SpreadsheetName)
	if err != nil {
		return nil, apperrors.NewInvalidMethodRequestError(FieldSpreadsheetName, err.Error())
	}
	return jsonRequest(http.MethodPost, m.ep.SheetsBaseURL, body), nil
}

func (m *createSpreadsheet) TransformResponse(body gjson.Result, _ *MethodConfig) (interface{}, error) {
	return fileSummary(body.Get("spreadsheetId").String(), body.Get("properties.title").String(),
		body.Get("spreadsheetUrl").String()), nil
}

// deleteSpreadsheet serves SPREADSHEET_DELETE_ONE through the Drive API.
type deleteSpreadsheet struct {
	noPrerequisites
	ep Endpoints
}

func (m *deleteSpreadsheet) ValidateRequest(cfg *MethodConfig) error {
	return cfg.requireSpreadsheet()
}

func (m *deleteSpreadsheet) BuildRequest(cfg *MethodConfig) (*transport.Request, error) {
	req := getRequest(m.ep.drive("/"+url.PathEscape(cfg.SpreadsheetID), nil))
	req.Method = http.MethodDelete
	return req, nil
}

func (m *deleteSpreadsheet) TransformResponse(_ gjson.Result, cfg *MethodConfig) (interface{}, error) {
	return message(fmt.Sprintf("Deleted spreadsheet %s successfully!", cfg.SpreadsheetID)), nil
}

// fetchDetails serves SPREADSHEET_FETCH_DETAILS and the SHEET_SELECTOR trigger.
type fetchDetails struct {
	noPrerequisites
	ep Endpoints
}

func (m *fetchDetails) ValidateRequest(cfg *MethodConfig) error {
	return cfg.requireSpreadsheet()
}

func (m *fetchDetails) BuildRequest(cfg *MethodConfig) (*transport.Request, error) {
	q := url.Values{}
	q.Set("fields", "spreadsheetId,properties.title,spreadsheetUrl,sheets.properties")
	return getRequest(m.ep.spreadsheet(cfg.SpreadsheetID, "", q)), nil
}

func (m *fetchDetails) TransformResponse(body gjson.Result, _ *MethodConfig) (interface{}, error) {
	sheets := []map[string]interface{}{}
	body.Get("sheets").ForEach(func(_, s gjson.Result) bool {
		sheets = append(sheets, map[string]interface{}{
			"sheetId": s.Get("properties.sheetId").Int(),
			"title":   s.Get("properties.title").String(),
		})
		return true
	})
	out := fileSummary(body.Get("spreadsheetId").String(), body.Get("properties.title").String(),
		body.Get("spreadsheetUrl").String())
	out["sheets"] = sheets
	return out, nil
}

func (m *fetchDetails) ValidateTrigger(cfg *MethodConfig) error {
	return m.ValidateRequest(cfg)
}

func (m *fetchDetails) BuildTriggerRequest(cfg *MethodConfig) (*transport.Request, error) {
	return m.BuildRequest(cfg)
}

func (m *fetchDetails) TransformTrigger(body gjson.Result, _ *MethodConfig) ([]models.Option, error) {
	options := []models.Option{}
	body.Get("sheets").ForEach(func(_, s gjson.Result) bool {
		title := s.Get("properties.title").String()
		options = append(options, models.Option{Label: title, Value: title})
		return true
	})
	return options, nil
}

// listFiles serves SPREADSHEET_FETCH_MANY and the SPREADSHEET_SELECTOR trigger.
type listFiles struct {
	noPrerequisites
	ep Endpoints
}

func (m *listFiles) ValidateRequest(*MethodConfig) error {
	return nil
}

func (m *listFiles) BuildRequest(*MethodConfig) (*transport.Request, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("mimeType='%s' and trashed=false", spreadsheetMIME))
	q.Set("fields", "files(id,name)")
	q.Set("orderBy", "name")
	return getRequest(m.ep.drive("", q)), nil
}

func (m *listFiles) TransformResponse(body gjson.Result, _ *MethodConfig) (interface{}, error) {
	files := []map[string]interface{}{}
	body.Get("files").ForEach(func(_, f gjson.Result) bool {
		id := f.Get("id").String()
		files = append(files, fileSummary(id, f.Get("name").String(), ""))
		return true
	})
	return files, nil
}

func (m *listFiles) ValidateTrigger(cfg *MethodConfig) error {
	return m.ValidateRequest(cfg)
}

func (m *listFiles) BuildTriggerRequest(cfg *MethodConfig) (*transport.Request, error) {
	return m.BuildRequest(cfg)
}

func (m *listFiles) TransformTrigger(body gjson.Result, _ *MethodConfig) ([]models.Option, error) {
	options := []models.Option{}
	body.Get("files").ForEach(func(_, f gjson.Result) bool {
		options = append(options, models.Option{
			Label: f.Get("name").String(),
			Value: fmt.Sprintf(spreadsheetURLFmt, f.Get("id").String()),
		})
		return true
	})
	return options, nil
}

func fileSummary(id, name, link string) map[string]interface{} {
	if link == "" && id != "" {
		link = fmt.Sprintf(spreadsheetURLFmt, id)
	}
	return map[string]interface{}{"id": id, "name": name, "url": link}
}
