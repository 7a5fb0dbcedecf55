// internal/sheets/rows.go
package sheets

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/common/validation"

	"github.com/tidwall/gjson"
)

// cell is one column of a row object, in the order the user wrote it.
type cell struct {
	column string
	value  interface{}
}

type rowObject struct {
	cells    []cell
	rowIndex *int
}

// columnLetter converts a zero-based column index to A1 letters.
func columnLetter(i int) string {
	var b []byte
	for i >= 0 {
		b = append([]byte{byte('A' + i%26)}, b...)
		i = i/26 - 1
	}
	return string(b)
}

func parseRowObject(raw []byte) (rowObject, error) {
	res, err := validation.ValidateRowObject(raw)
	if err != nil {
		return rowObject{}, apperrors.NewInvalidMethodRequestError(FieldRowObject, "must be a JSON object")
	}
	if !res.Valid {
		return rowObject{}, apperrors.NewInvalidMethodRequestError(FieldRowObject, strings.Join(res.GetErrorMessages(), "; "))
	}
	return readRow(gjson.ParseBytes(raw))
}

func parseRowObjects(raw []byte) ([]rowObject, error) {
	res, err := validation.ValidateRowObjects(raw)
	if err != nil {
		return nil, apperrors.NewInvalidMethodRequestError(FieldRowObjects, "must be a JSON array of objects")
	}
	if !res.Valid {
		return nil, apperrors.NewInvalidMethodRequestError(FieldRowObjects, strings.Join(res.GetErrorMessages(), "; "))
	}

	var rows []rowObject
	var readErr error
	gjson.ParseBytes(raw).ForEach(func(_, v gjson.Result) bool {
		row, err := readRow(v)
		if err != nil {
			readErr = err
			return false
		}
		rows = append(rows, row)
		return true
	})
	if readErr != nil {
		return nil, readErr
	}
	if len(rows) == 0 {
		return nil, apperrors.NewInvalidMethodRequestError(FieldRowObjects, "must contain at least one row")
	}
	return rows, nil
}

// readRow keeps key order and lifts a "rowIndex" key out of the cells.
func readRow(obj gjson.Result) (rowObject, error) {
	var row rowObject
	var err error
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == FieldRowIndex {
			idx, convErr := strconv.Atoi(strings.TrimSpace(v.String()))
			if convErr != nil || idx < 0 {
				err = apperrors.NewInvalidMethodRequestError(FieldRowIndex, fmt.Sprintf("invalid row index %q", v.String()))
				return false
			}
			row.rowIndex = &idx
			return true
		}
		row.cells = append(row.cells, cell{column: k.String(), value: v.Value()})
		return true
	})
	return row, err
}

func (r rowObject) columns() []string {
	out := make([]string, len(r.cells))
	for i, c := range r.cells {
		out[i] = c.column
	}
	return out
}

func (r rowObject) values() []interface{} {
	out := make([]interface{}, len(r.cells))
	for i, c := range r.cells {
		out[i] = c.value
	}
	return out
}

// alignTo lays the row out under headers. Columns the row does not mention
// become fill; a column missing from headers is an error.
func (r rowObject) alignTo(headers []string, fill interface{}) ([]interface{}, error) {
	pos := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	out := make([]interface{}, len(headers))
	for i := range out {
		out[i] = fill
	}
	for _, c := range r.cells {
		i, ok := pos[c.column]
		if !ok {
			return nil, apperrors.NewInvalidMethodRequestError(FieldRowObject,
				fmt.Sprintf("column %q does not exist in the sheet header row", c.column))
		}
		out[i] = c.value
	}
	return out, nil
}

// headerRow reads the first row of a ValueRange, naming blank cells by column letter.
func headerRow(valueRange gjson.Result) []string {
	first := valueRange.Get("values.0")
	if !first.Exists() {
		return nil
	}
	var headers []string
	first.ForEach(func(_, v gjson.Result) bool {
		headers = append(headers, v.String())
		return true
	})
	for i, h := range headers {
		if strings.TrimSpace(h) == "" {
			headers[i] = columnLetter(i)
		}
	}
	return headers
}

// rowKeys names every column of a fetched row. Cells right of the last header
// take their column letter and repeated headers get a numeric suffix, so no
// cell is dropped or overwritten.
func rowKeys(headers []string, width int) []string {
	keys := make([]string, 0, width)
	seen := make(map[string]bool, width)
	for i := 0; i < width || i < len(headers); i++ {
		name := columnLetter(i)
		if i < len(headers) {
			name = headers[i]
		}
		key := name
		for n := 2; seen[key]; n++ {
			key = fmt.Sprintf("%s_%d", name, n)
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}
