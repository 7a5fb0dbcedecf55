package engine

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/common/logger"
	"actionbridge/internal/common/transport"
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeHandler struct {
	validateErr error
	authErr     error
	prereqErr   error
	dispatchErr error
	resp        *transport.Response
	calls       []string
}

func (h *fakeHandler) Name() string { return "ROW_FETCH_MANY" }

func (h *fakeHandler) Validate() error {
	h.calls = append(h.calls, "validate")
	return h.validateErr
}

func (h *fakeHandler) Authorize(context.Context) error {
	h.calls = append(h.calls, "authorize")
	return h.authErr
}

func (h *fakeHandler) ResolvePrerequisites(context.Context) error {
	h.calls = append(h.calls, "prerequisites")
	return h.prereqErr
}

func (h *fakeHandler) Dispatch(context.Context) (*transport.Response, error) {
	h.calls = append(h.calls, "dispatch")
	return h.resp, h.dispatchErr
}

func (h *fakeHandler) TransformResponse(body []byte) (interface{}, error) {
	h.calls = append(h.calls, "transform")
	return gjson.ParseBytes(body).Value(), nil
}

func (h *fakeHandler) Describe() *models.RequestInfo {
	return &models.RequestInfo{Method: http.MethodGet, URL: "https://api.example.test/rows"}
}

type fakeBackend struct {
	handler    *fakeHandler
	resolveErr error
	forms      []formdata.Map
}

func (b *fakeBackend) Name() string         { return "fake" }
func (b *fakeBackend) JSONFields() []string { return []string{"rowObject", "query.body"} }

func (b *fakeBackend) ResolveExecution(form formdata.Map) (Handler, error) {
	b.forms = append(b.forms, form)
	if b.resolveErr != nil {
		return nil, b.resolveErr
	}
	return b.handler, nil
}

func (b *fakeBackend) ResolveTrigger(_ models.TriggerKind, form formdata.Map) (Handler, error) {
	return b.ResolveExecution(form)
}

func ok(body string) *transport.Response {
	return &transport.Response{StatusCode: http.StatusOK, Status: "200 OK", Header: http.Header{}, Body: []byte(body)}
}

func newTestEngine(t *testing.T, b *fakeBackend) *Engine {
	return New(b, logger.NewTestLogger(t), nil)
}

var basicForm = formdata.Map{"entity": "ROW", "command": "FETCH_MANY"}

func TestExecute_EmptyForm(t *testing.T) {
	b := &fakeBackend{}
	env, err := newTestEngine(t, b).Execute(context.Background(), formdata.Map{}, nil)
	require.NoError(t, err)

	assert.True(t, env.Success)
	assert.Equal(t, map[string]interface{}{"message": "No operation was performed"}, env.Body)
	assert.Empty(t, b.forms)
}

func TestExecute_Success(t *testing.T) {
	h := &fakeHandler{resp: ok(`{"rows":[1,2]}`)}
	env, err := newTestEngine(t, &fakeBackend{handler: h}).Execute(context.Background(), basicForm, nil)
	require.NoError(t, err)

	assert.True(t, env.Success)
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.Empty(t, env.ErrorCode)
	assert.Equal(t, map[string]interface{}{"rows": []interface{}{float64(1), float64(2)}}, env.Body)
	assert.Equal(t, []string{"validate", "authorize", "prerequisites", "dispatch", "transform"}, h.calls)
	require.NotNil(t, env.Request)
	assert.Equal(t, "https://api.example.test/rows", env.Request.URL)
	assert.NotEmpty(t, env.ExecutionID)
}

func TestExecute_VendorFailure(t *testing.T) {
	tests := []struct {
		name string
		resp *transport.Response
		want string
	}{
		{
			name: "vendor message",
			resp: &transport.Response{StatusCode: 403, Status: "403 Forbidden",
				Body: []byte(`{"error":{"code":403,"message":"The caller does not have permission"}}`)},
			want: "The caller does not have permission",
		},
		{
			name: "status text",
			resp: &transport.Response{StatusCode: 404, Status: "404 Not Found", Body: []byte(`<html>nope</html>`)},
			want: "Not Found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &fakeHandler{resp: tt.resp}
			env, err := newTestEngine(t, &fakeBackend{handler: h}).Execute(context.Background(), basicForm, nil)
			require.NoError(t, err)

			assert.False(t, env.Success)
			assert.Equal(t, tt.resp.StatusCode, env.StatusCode)
			assert.Equal(t, tt.want, env.Body)
			assert.Equal(t, string(apperrors.ErrCodeVendor), env.ErrorCode)
			assert.NotContains(t, h.calls, "transform")
		})
	}
}

func TestExecute_UnparseableSuccessBody(t *testing.T) {
	h := &fakeHandler{resp: ok(`{"rows":`)}
	env, err := newTestEngine(t, &fakeBackend{handler: h}).Execute(context.Background(), basicForm, nil)
	require.NoError(t, err)

	assert.False(t, env.Success)
	assert.Equal(t, string(apperrors.ErrCodeResponseParse), env.ErrorCode)
	assert.Contains(t, env.Body, `{"rows":`)
}

func TestExecute_FatalErrorsAreReturned(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
		target  error
	}{
		{
			name:    "unknown operation",
			backend: &fakeBackend{resolveErr: apperrors.NewUnknownOperationError("execution", "ROW_FLY")},
			target:  apperrors.ErrUnknownOperation,
		},
		{
			name:    "credential missing",
			backend: &fakeBackend{handler: &fakeHandler{authErr: apperrors.NewCredentialMissingError(nil)}},
			target:  apperrors.ErrCredentialMissing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := newTestEngine(t, tt.backend).Execute(context.Background(), basicForm, nil)
			require.Error(t, err)
			assert.Nil(t, env)
			assert.True(t, stderrors.Is(err, tt.target))
		})
	}
}

func TestExecute_NonFatalErrorsBecomeEnvelopes(t *testing.T) {
	tests := []struct {
		name    string
		handler *fakeHandler
		code    apperrors.ErrorCode
	}{
		{"validation", &fakeHandler{validateErr: apperrors.NewInvalidMethodRequestError("sheetTitle", "missing required field")},
			apperrors.ErrCodeInvalidMethodRequest},
		{"prerequisite", &fakeHandler{prereqErr: apperrors.NewVendorError(404, "Requested entity was not found.")},
			apperrors.ErrCodeVendor},
		{"transport", &fakeHandler{dispatchErr: apperrors.NewTransportError(stderrors.New("connection refused"))},
			apperrors.ErrCodeTransport},
		{"plain error", &fakeHandler{dispatchErr: stderrors.New("boom")}, apperrors.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := newTestEngine(t, &fakeBackend{handler: tt.handler}).Execute(context.Background(), basicForm, nil)
			require.NoError(t, err)
			assert.False(t, env.Success)
			assert.Equal(t, string(tt.code), env.ErrorCode)
			assert.NotEmpty(t, env.Body)
		})
	}
}

func TestExecute_ValidationFailureSkipsNetwork(t *testing.T) {
	h := &fakeHandler{validateErr: apperrors.NewMissingRequiredFieldError("Collection")}
	env, err := newTestEngine(t, &fakeBackend{handler: h}).Execute(context.Background(), basicForm, nil)
	require.NoError(t, err)

	assert.Equal(t, "missing required configuration: Collection", env.Body)
	assert.Equal(t, []string{"validate"}, h.calls)
}

func TestExecute_SmartSubstitution(t *testing.T) {
	b := &fakeBackend{handler: &fakeHandler{resp: ok(`{}`)}}
	form := formdata.Map{
		"entity":    "ROW",
		"command":   "INSERT_ONE",
		"rowObject": `{"name": {{Input1.text}}, "note": "hi {{Input1.text}}"}`,
		"query":     map[string]interface{}{"body": `{"n": {{ count }}}`},
	}
	params := []models.Param{{Key: "Input1.text", Value: `Ada "L"`}, {Key: "{{count}}", Value: "3"}}

	env, err := newTestEngine(t, b).Execute(context.Background(), form, params)
	require.NoError(t, err)
	require.True(t, env.Success)

	require.Len(t, b.forms, 1)
	seen := b.forms[0]
	assert.Equal(t, `{"name": "Ada \"L\"", "note": "hi Ada \"L\""}`, seen["rowObject"])
	body, _ := formdata.Lookup(seen, "query.body")
	assert.Equal(t, `{"n": 3}`, body)

	assert.Equal(t, `{"name": {{Input1.text}}, "note": "hi {{Input1.text}}"}`, form["rowObject"])

	require.NotNil(t, env.Request)
	assert.Equal(t, []models.BoundParam{
		{Placeholder: "{{Input1.text}}", Value: `Ada "L"`},
		{Placeholder: "{{Input1.text}}", Value: `Ada "L"`},
		{Placeholder: "{{count}}", Value: "3"},
	}, env.Request.BoundParams)
}

func TestExecute_SmartSubstitutionDisabled(t *testing.T) {
	for _, flag := range []interface{}{false, "false", " FALSE "} {
		b := &fakeBackend{handler: &fakeHandler{resp: ok(`{}`)}}
		form := formdata.Map{"smartSubstitution": flag, "rowObject": `{"name": {{x}}}`}

		env, err := newTestEngine(t, b).Execute(context.Background(), form, nil)
		require.NoError(t, err)
		assert.True(t, env.Success)
		assert.Equal(t, `{"name": {{x}}}`, b.forms[0]["rowObject"])
	}
}

func TestExecute_MissingBindingValue(t *testing.T) {
	b := &fakeBackend{handler: &fakeHandler{resp: ok(`{}`)}}
	form := formdata.Map{"rowObject": `{"name": {{Input9.text}}}`}

	env, err := newTestEngine(t, b).Execute(context.Background(), form, nil)
	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Equal(t, string(apperrors.ErrCodeSubstitution), env.ErrorCode)
	assert.Empty(t, b.forms)
}

func TestExecute_Idempotent(t *testing.T) {
	form := formdata.Map{"rowObject": `{"name": {{n}}}`, "entity": "ROW"}
	params := []models.Param{{Key: "n", Value: "Ada"}}

	run := func() *models.ResultEnvelope {
		b := &fakeBackend{handler: &fakeHandler{resp: ok(`{"done":true}`)}}
		env, err := newTestEngine(t, b).Execute(context.Background(), form, params)
		require.NoError(t, err)
		return env
	}

	first, second := run(), run()
	if diff := cmp.Diff(first, second, cmpopts.IgnoreFields(models.ResultEnvelope{}, "ExecutionID")); diff != "" {
		t.Errorf("executions differ (-first +second):\n%s", diff)
	}
	assert.NotEqual(t, first.ExecutionID, second.ExecutionID)
}

func TestLookup(t *testing.T) {
	h := &fakeHandler{resp: ok(`[{"label":"Sheet1","value":"Sheet1"}]`)}
	result, err := newTestEngine(t, &fakeBackend{handler: h}).
		Lookup(context.Background(), models.TriggerSheetSelector, formdata.Map{"spreadsheetId": "abc"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{map[string]interface{}{"label": "Sheet1", "value": "Sheet1"}}, result.Trigger)

	h = &fakeHandler{resp: &transport.Response{StatusCode: 401, Status: "401 Unauthorized",
		Body: []byte(`{"error":{"message":"Request had invalid authentication credentials."}}`)}}
	_, err = newTestEngine(t, &fakeBackend{handler: h}).
		Lookup(context.Background(), models.TriggerSheetSelector, formdata.Map{})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrVendor))
	assert.Contains(t, err.Error(), "invalid authentication credentials")
}
