// internal/sheets/method.go
package sheets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/common/transport"
	"actionbridge/internal/models"

	"github.com/tidwall/gjson"
)

// Endpoints are the API roots every method builds its URLs from.
type Endpoints struct {
	SheetsBaseURL string
	DriveBaseURL  string
}

// Caller sends an authorized request. Methods never set credentials themselves.
type Caller func(ctx context.Context, req *transport.Request) (*transport.Response, error)

// ExecutionMethod is one Sheets or Drive operation. A fresh value is built
// for every request, so prerequisite results may be kept on the receiver.
type ExecutionMethod interface {
	ValidateRequest(cfg *MethodConfig) error
	ResolvePrerequisites(ctx context.Context, cfg *MethodConfig, call Caller) error
	BuildRequest(cfg *MethodConfig) (*transport.Request, error)
	TransformResponse(body gjson.Result, cfg *MethodConfig) (interface{}, error)
}

// TriggerMethod feeds a builder dropdown.
type TriggerMethod interface {
	ValidateTrigger(cfg *MethodConfig) error
	BuildTriggerRequest(cfg *MethodConfig) (*transport.Request, error)
	TransformTrigger(body gjson.Result, cfg *MethodConfig) ([]models.Option, error)
}

type noPrerequisites struct{}

func (noPrerequisites) ResolvePrerequisites(context.Context, *MethodConfig, Caller) error {
	return nil
}

func (ep Endpoints) spreadsheet(id string, suffix string, query url.Values) string {
	u := strings.TrimRight(ep.SheetsBaseURL, "/") + "/" + url.PathEscape(id) + suffix
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// values addresses the values collection of a spreadsheet by A1 range.
func (ep Endpoints) values(id, a1, action string, query url.Values) string {
	return ep.spreadsheet(id, "/values/"+url.PathEscape(a1)+action, query)
}

func (ep Endpoints) drive(suffix string, query url.Values) string {
	u := strings.TrimRight(ep.DriveBaseURL, "/") + suffix
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func getRequest(u string) *transport.Request {
	return &transport.Request{Method: http.MethodGet, URL: u, Header: http.Header{}}
}

func jsonRequest(method, u string, body []byte) *transport.Request {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return &transport.Request{Method: method, URL: u, Header: h, Body: body}
}

func message(text string) map[string]interface{} {
	return map[string]interface{}{"message": text}
}

// vendorFailure turns a non-2xx prerequisite response into an error.
func vendorFailure(resp *transport.Response) error {
	msg := gjson.GetBytes(resp.Body, "error.message").String()
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return apperrors.NewVendorError(resp.StatusCode, msg)
}

func callJSON(ctx context.Context, call Caller, req *transport.Request) (gjson.Result, error) {
	resp, err := call(ctx, req)
	if err != nil {
		return gjson.Result{}, err
	}
	if !resp.IsSuccess() {
		return gjson.Result{}, vendorFailure(resp)
	}
	if !gjson.ValidBytes(resp.Body) {
		return gjson.Result{}, apperrors.NewResponseParseError(string(resp.Body), nil)
	}
	return gjson.ParseBytes(resp.Body), nil
}

// headerA1 addresses the header row of the configured sheet.
func headerA1(cfg *MethodConfig) string {
	return fmt.Sprintf("%s!%d:%d", cfg.quotedSheet(), cfg.TableHeaderIndex, cfg.TableHeaderIndex)
}

func fetchHeaders(ctx context.Context, call Caller, ep Endpoints, cfg *MethodConfig) ([]string, error) {
	res, err := callJSON(ctx, call, getRequest(ep.values(cfg.SpreadsheetID, headerA1(cfg), "", nil)))
	if err != nil {
		return nil, err
	}
	return headerRow(res), nil
}

// fetchSheetID maps the configured sheet title to its numeric id.
func fetchSheetID(ctx context.Context, call Caller, ep Endpoints, cfg *MethodConfig) (int64, error) {
	q := url.Values{}
	q.Set("fields", "sheets.properties")
	res, err := callJSON(ctx, call, getRequest(ep.spreadsheet(cfg.SpreadsheetID, "", q)))
	if err != nil {
		return 0, err
	}

	var id int64
	found := false
	res.Get("sheets").ForEach(func(_, s gjson.Result) bool {
		if s.Get("properties.title").String() == cfg.SheetTitle {
			id = s.Get("properties.sheetId").Int()
			found = true
			return false
		}
		return true
	})
	if !found {
		return 0, apperrors.NewInvalidMethodRequestError(FieldSheetTitle,
			fmt.Sprintf("sheet %q does not exist in spreadsheet %s", cfg.SheetTitle, cfg.SpreadsheetID))
	}
	return id, nil
}
