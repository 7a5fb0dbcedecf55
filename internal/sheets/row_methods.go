// internal/sheets/row_methods.go
package sheets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/common/transport"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

func valueRangeBody(a1 string, rows [][]interface{}) ([]byte, error) {
	return setAll([]byte(`{}`), "range", a1, "majorDimension", "ROWS", "values", rows)
}

// setAll applies path/value pairs in order.
func setAll(doc []byte, pairs ...interface{}) ([]byte, error) {
	var err error
	for i := 0; i+1 < len(pairs); i += 2 {
		if doc, err = sjson.SetBytes(doc, pairs[i].(string), pairs[i+1]); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// batchUpdateBody wraps a single request for spreadsheets:batchUpdate.
func batchUpdateBody(kind string, request []byte) ([]byte, error) {
	entry, err := sjson.SetRawBytes([]byte(`{}`), kind, request)
	if err != nil {
		return nil, err
	}
	return sjson.SetRawBytes([]byte(`{"requests":[]}`), "requests.-1", entry)
}

func requireRowIndex(idx *int) (int, error) {
	if idx == nil {
		return 0, apperrors.NewInvalidMethodRequestError(FieldRowIndex, "missing required field")
	}
	return *idx, nil
}

// rowA1 addresses data row idx, counted from zero below the header row.
func rowA1(cfg *MethodConfig, idx, width int) string {
	r := cfg.TableHeaderIndex + 1 + idx
	return fmt.Sprintf("%s!A%d:%s%d", cfg.quotedSheet(), r, columnLetter(width-1), r)
}

// appendRows serves ROW_INSERT_ONE and ROW_INSERT_MANY.
type appendRows struct {
	ep      Endpoints
	many    bool
	rows    []rowObject
	headers []string
}

func (m *appendRows) ValidateRequest(cfg *MethodConfig) error {
	if err := cfg.requireSheet(); err != nil {
		return err
	}
	if m.many {
		raw, err := jsonBytes(FieldRowObjects, cfg.RowObjects)
		if err != nil {
			return err
		}
		if raw == nil {
			return apperrors.NewInvalidMethodRequestError(FieldRowObjects, "missing required field")
		}
		m.rows, err = parseRowObjects(raw)
		return err
	}

	raw, err := jsonBytes(FieldRowObject, cfg.RowObject)
	if err != nil {
		return err
	}
	if raw == nil {
		return apperrors.NewInvalidMethodRequestError(FieldRowObject, "missing required field")
	}
	row, err := parseRowObject(raw)
	if err != nil {
		return err
	}
	m.rows = []rowObject{row}
	return nil
}

func (m *appendRows) ResolvePrerequisites(ctx context.Context, cfg *MethodConfig, call Caller) error {
	headers, err := fetchHeaders(ctx, call, m.ep, cfg)
	if err != nil {
		return err
	}
	m.headers = headers
	return nil
}

func (m *appendRows) BuildRequest(cfg *MethodConfig) (*transport.Request, error) {
	headers := m.headers
	var values [][]interface{}

	// An empty sheet gets a header row built from the row keys.
	if len(headers) == 0 {
		seen := map[string]bool{}
		for _, row := range m.rows {
			for _, col := range row.columns() {
				if !seen[col] {
					seen[col] = true
					headers = append(headers, col)
				}
			}
		}
		header := make([]interface{}, len(headers))
		for i, h := range headers {
			header[i] = h
		}
		values = append(values, header)
	}

	for _, row := range m.rows {
		aligned, err := row.alignTo(headers, "")
		if err != nil {
			return nil, err
		}
		values = append(values, aligned)
	}

	a1 := fmt.Sprintf("%s!A%d", cfg.quotedSheet(), cfg.TableHeaderIndex)
	body, err := valueRangeBody(a1, values)
	if err != nil {
		return nil, apperrors.NewInvalidMethodRequestError(FieldRowObject, err.Error())
	}

	q := url.Values{}
	q.Set("valueInputOption", valueInputOption)
	q.Set("insertDataOption", "INSERT_ROWS")
	return jsonRequest(http.MethodPost, m.ep.values(cfg.SpreadsheetID, a1, ":append", q), body), nil
}

func (m *appendRows) TransformResponse(_ gjson.Result, _ *MethodConfig) (interface{}, error) {
	if m.many {
		return message("Inserted rows successfully!"), nil
	}
	return message("Inserted row successfully!"), nil
}

// updateRow serves ROW_UPDATE_ONE.
type updateRow struct {
	ep      Endpoints
	row     rowObject
	index   int
	headers []string
}

func (m *updateRow) ValidateRequest(cfg *MethodConfig) error {
	if err := cfg.requireSheet(); err != nil {
		return err
	}
	raw, err := jsonBytes(FieldRowObject, cfg.RowObject)
	if err != nil {
		return err
	}
	if raw == nil {
		return apperrors.NewInvalidMethodRequestError(FieldRowObject, "missing required field")
	}
	if m.row, err = parseRowObject(raw); err != nil {
		return err
	}

	idx := cfg.RowIndex
	if idx == nil {
		idx = m.row.rowIndex
	}
	m.index, err = requireRowIndex(idx)
	return err
}

func (m *updateRow) ResolvePrerequisites(ctx context.Context, cfg *MethodConfig, call Caller) error {
	headers, err := fetchHeaders(ctx, call, m.ep, cfg)
	if err != nil {
		return err
	}
	if len(headers) == 0 {
		return apperrors.NewInvalidMethodRequestError(FieldSheetTitle, "the sheet has no header row")
	}
	m.headers = headers
	return nil
}

func (m *updateRow) BuildRequest(cfg *MethodConfig) (*transport.Request, error) {
	aligned, err := m.row.alignTo(m.headers, nil)
	if err != nil {
		return nil, err
	}
	a1 := rowA1(cfg, m.index, len(m.headers))
	body, err := valueRangeBody(a1, [][]interface{}{aligned})
	if err != nil {
		return nil, apperrors.NewInvalidMethodRequestError(FieldRowObject, err.Error())
	}

	q := url.Values{}
	q.Set("valueInputOption", valueInputOption)
	return jsonRequest(http.MethodPut, m.ep.values(cfg.SpreadsheetID, a1, "", q), body), nil
}

func (m *updateRow) TransformResponse(_ gjson.Result, _ *MethodConfig) (interface{}, error) {
	return message("Updated sheet successfully!"), nil
}

// updateRows serves ROW_UPDATE_MANY. Every row object carries its own rowIndex.
type updateRows struct {
	ep      Endpoints
	rows    []rowObject
	headers []string
}

func (m *updateRows) ValidateRequest(cfg *MethodConfig) error {
	if err := cfg.requireSheet(); err != nil {
		return err
	}
	raw, err := jsonBytes(FieldRowObjects, cfg.RowObjects)
	if err != nil {
		return err
	}
	if raw == nil {
		return apperrors.NewInvalidMethodRequestError(FieldRowObjects, "missing required field")
	}
	if m.rows, err = parseRowObjects(raw); err != nil {
		return err
	}
	for i, row := range m.rows {
		if row.rowIndex == nil {
			return apperrors.NewInvalidMethodRequestError(FieldRowObjects,
				fmt.Sprintf("row %d is missing %s", i, FieldRowIndex))
		}
	}
	return nil
}

func (m *updateRows) ResolvePrerequisites(ctx context.Context, cfg *MethodConfig, call Caller) error {
	headers, err := fetchHeaders(ctx, call, m.ep, cfg)
	if err != nil {
		return err
	}
	if len(headers) == 0 {
		return apperrors.NewInvalidMethodRequestError(FieldSheetTitle, "the sheet has no header row")
	}
	m.headers = headers
	return nil
}

func (m *updateRows) BuildRequest(cfg *MethodConfig) (*transport.Request, error) {
	body := []byte(`{"valueInputOption":"` + valueInputOption + `","data":[]}`)
	for _, row := range m.rows {
		aligned, err := row.alignTo(m.headers, nil)
		if err != nil {
			return nil, err
		}
		entry, err := valueRangeBody(rowA1(cfg, *row.rowIndex, len(m.headers)), [][]interface{}{aligned})
		if err != nil {
			return nil, apperrors.NewInvalidMethodRequestError(FieldRowObjects, err.Error())
		}
		if body, err = sjson.SetRawBytes(body, "data.-1", entry); err != nil {
			return nil, apperrors.NewInvalidMethodRequestError(FieldRowObjects, err.Error())
		}
	}
	return jsonRequest(http.MethodPost, m.ep.spreadsheet(cfg.SpreadsheetID, "/values:batchUpdate", nil), body), nil
}

func (m *updateRows) TransformResponse(_ gjson.Result, _ *MethodConfig) (interface{}, error) {
	return message("Updated sheet successfully!"), nil
}

// deleteRow serves ROW_DELETE_ONE.
type deleteRow struct {
	ep      Endpoints
	index   int
	sheetID int64
}

func (m *deleteRow) ValidateRequest(cfg *MethodConfig) error {
	if err := cfg.requireSheet(); err != nil {
		return err
	}
	var err error
	m.index, err = requireRowIndex(cfg.RowIndex)
	return err
}

func (m *deleteRow) ResolvePrerequisites(ctx context.Context, cfg *MethodConfig, call Caller) error {
	id, err := fetchSheetID(ctx, call, m.ep, cfg)
	if err != nil {
		return err
	}
	m.sheetID = id
	return nil
}

func (m *deleteRow) BuildRequest(cfg *MethodConfig) (*transport.Request, error) {
	// Dimension indexes are zero-based and the header sits at TableHeaderIndex-1.
	start := cfg.TableHeaderIndex + m.index
	dimension, err := setAll([]byte(`{}`),
		"sheetId", m.sheetID,
		"dimension", "ROWS",
		"startIndex", start,
		"endIndex", start+1,
	)
	if err != nil {
		return nil, apperrors.NewInvalidMethodRequestError(FieldRowIndex, err.Error())
	}
	body, err := batchUpdateBody("deleteDimension", []byte(`{"range":`+string(dimension)+`}`))
	if err != nil {
		return nil, apperrors.NewInvalidMethodRequestError(FieldRowIndex, err.Error())
	}
	return jsonRequest(http.MethodPost, m.ep.spreadsheet(cfg.SpreadsheetID, ":batchUpdate", nil), body), nil
}

func (m *deleteRow) TransformResponse(_ gjson.Result, _ *MethodConfig) (interface{}, error) {
	return message("Deleted row successfully!"), nil
}

// fetchRows serves ROW_FETCH_MANY.
type fetchRows struct {
	noPrerequisites
	ep Endpoints
}

func (m *fetchRows) ValidateRequest(cfg *MethodConfig) error {
	return cfg.requireSheet()
}

func (m *fetchRows) a1(cfg *MethodConfig) string {
	switch {
	case cfg.Range != "":
		return cfg.quotedSheet() + "!" + cfg.Range
	case cfg.RowLimit > 0:
		return fmt.Sprintf("%s!%d:%d", cfg.quotedSheet(), cfg.TableHeaderIndex,
			cfg.TableHeaderIndex+cfg.RowOffset+cfg.RowLimit)
	default:
		return fmt.Sprintf("%s!A%d:%s", cfg.quotedSheet(), cfg.TableHeaderIndex, lastColumn)
	}
}

func (m *fetchRows) BuildRequest(cfg *MethodConfig) (*transport.Request, error) {
	q := url.Values{}
	q.Set("majorDimension", "ROWS")
	return getRequest(m.ep.values(cfg.SpreadsheetID, m.a1(cfg), "", q)), nil
}

func (m *fetchRows) TransformResponse(body gjson.Result, cfg *MethodConfig) (interface{}, error) {
	var raw [][]string
	width := 0
	body.Get("values").ForEach(func(_, row gjson.Result) bool {
		var cells []string
		row.ForEach(func(_, c gjson.Result) bool {
			cells = append(cells, c.String())
			return true
		})
		if len(cells) > width {
			width = len(cells)
		}
		raw = append(raw, cells)
		return true
	})

	var headers []string
	if cfg.firstRowIsHeader() {
		headers = headerRow(body)
		if len(raw) > 0 {
			raw = raw[1:]
		}
	}
	headers = rowKeys(headers, width)

	start := cfg.RowOffset
	if start > len(raw) {
		start = len(raw)
	}
	end := len(raw)
	if cfg.RowLimit > 0 && start+cfg.RowLimit < end {
		end = start + cfg.RowLimit
	}

	out := make([]map[string]interface{}, 0, end-start)
	for i, cells := range raw[start:end] {
		obj := make(map[string]interface{}, len(headers)+1)
		for c, h := range headers {
			v := ""
			if c < len(cells) {
				v = cells[c]
			}
			obj[h] = v
		}
		obj[FieldRowIndex] = start + i
		out = append(out, obj)
	}
	return out, nil
}
