// internal/formdata/decode.go
package formdata

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	apperrors "actionbridge/internal/common/errors"

	"github.com/mitchellh/mapstructure"
)

// Decode maps a form onto a struct tagged with `form:"…"`, trimming strings and
// treating blank values as absent. Every field problem is reported in one error.
func Decode(m Map, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "form",
		Result:     out,
		DecodeHook: mapstructure.DecodeHookFuncType(normalizeHook),
	})
	if err != nil {
		return err
	}

	if err := dec.Decode(map[string]interface{}(m)); err != nil {
		var mErr *mapstructure.Error
		if stderrors.As(err, &mErr) {
			return apperrors.NewDecodeError(mErr.Errors)
		}
		return apperrors.NewDecodeError([]string{err.Error()})
	}
	return nil
}

// normalizeHook converts builder values into the field's kind. Numbers are
// base 10 only and booleans never stand in for numbers or text.
func normalizeHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	data = unwrap(data)

	switch to.Kind() {
	case reflect.Interface:
		return data, nil
	case reflect.Ptr:
		if s, ok := data.(string); ok && strings.TrimSpace(s) == "" {
			return nil, nil
		}
		return data, nil
	case reflect.String:
		return toText(data)
	case reflect.Bool:
		return toBool(data)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return toWhole(data)
	case reflect.Float32, reflect.Float64:
		return toFloat(data)
	}
	return data, nil
}

func toText(data interface{}) (interface{}, error) {
	switch v := data.(type) {
	case string:
		return strings.TrimSpace(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case json.Number:
		return v.String(), nil
	case bool:
		return nil, fmt.Errorf("expected text, got boolean %t", v)
	}
	return data, nil
}

func toBool(data interface{}) (interface{}, error) {
	switch v := data.(type) {
	case bool:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(strings.ToLower(s))
		if err != nil {
			return nil, fmt.Errorf("expected a boolean, got %q", v)
		}
		return b, nil
	}
	return nil, fmt.Errorf("expected a boolean, got %T", data)
}

func toWhole(data interface{}) (interface{}, error) {
	switch v := data.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return v, nil
	case float32:
		return wholeFloat(float64(v))
	case float64:
		return wholeFloat(v)
	case json.Number:
		n, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %s", v)
		}
		return n, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return int64(0), nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", v)
		}
		return n, nil
	}
	return nil, fmt.Errorf("expected an integer, got %T", data)
}

func wholeFloat(f float64) (interface{}, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("expected an integer, got %v", f)
	}
	return int64(f), nil
}

func toFloat(data interface{}) (interface{}, error) {
	switch v := data.(type) {
	case float32, float64, int, int64:
		return v, nil
	case json.Number:
		return v.Float64()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return float64(0), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %q", v)
		}
		return f, nil
	}
	return nil, fmt.Errorf("expected a number, got %T", data)
}
