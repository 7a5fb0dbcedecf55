// internal/sheets/backend.go
package sheets

import (
	"context"
	"net/http"
	"strings"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/common/logger"
	"actionbridge/internal/common/transport"
	"actionbridge/internal/engine"
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

const BackendName = "sheets"

type Backend struct {
	sender transport.Sender
	tokens oauth2.TokenSource
	ep     Endpoints
	log    logger.Logger
}

func NewBackend(sender transport.Sender, tokens oauth2.TokenSource, ep Endpoints, log logger.Logger) *Backend {
	return &Backend{sender: sender, tokens: tokens, ep: ep, log: log}
}

func (b *Backend) Name() string {
	return BackendName
}

func (b *Backend) JSONFields() []string {
	return JSONFields
}

// KeyFromForm reads the entity and command exactly as given.
func KeyFromForm(form formdata.Map) (models.OperationKey, error) {
	entity, err := formdata.GetString(form, FieldEntity, "")
	if err != nil {
		return models.OperationKey{}, err
	}
	command, err := formdata.GetString(form, FieldCommand, "")
	if err != nil {
		return models.OperationKey{}, err
	}
	return models.OperationKey{Entity: models.EntityKind(entity), Command: models.CommandKind(command)}, nil
}

func (b *Backend) ResolveExecution(form formdata.Map) (engine.Handler, error) {
	k, err := KeyFromForm(form)
	if err != nil {
		return nil, err
	}
	method, err := ExecutionMethodFor(k, b.ep)
	if err != nil {
		return nil, err
	}
	return &execution{call: call{backend: b}, key: k, method: method, form: form}, nil
}

func (b *Backend) ResolveTrigger(kind models.TriggerKind, form formdata.Map) (engine.Handler, error) {
	method, err := TriggerMethodFor(kind, b.ep)
	if err != nil {
		return nil, err
	}
	return &trigger{call: call{backend: b}, kind: kind, method: method, form: form}, nil
}

// call holds the per-request credential and the last outbound request.
type call struct {
	backend *Backend
	token   string
	last    *transport.Request
}

func (c *call) Authorize(context.Context) error {
	if c.backend.tokens == nil {
		return apperrors.NewCredentialMissingError(nil)
	}
	tok, err := c.backend.tokens.Token()
	if err != nil {
		return apperrors.NewCredentialMissingError(err)
	}
	if tok == nil || strings.TrimSpace(tok.AccessToken) == "" {
		return apperrors.NewCredentialMissingError(nil)
	}
	c.token = tok.AccessToken
	return nil
}

// send adds the bearer header to a copy of req; req itself stays credential free.
func (c *call) send(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	out := *req
	out.Header = http.Header{}
	for k, v := range req.Header {
		out.Header[k] = append([]string(nil), v...)
	}
	out.Header.Set("Authorization", "Bearer "+c.token)

	c.backend.log.Debug("sending sheets request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL,
	})
	return c.backend.sender.Send(ctx, &out)
}

func (c *call) dispatch(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	c.last = req
	return c.send(ctx, req)
}

func (c *call) Describe() *models.RequestInfo {
	if c.last == nil {
		return nil
	}
	return &models.RequestInfo{Method: c.last.Method, URL: c.last.URL, Body: string(c.last.Body)}
}

type execution struct {
	call
	key    models.OperationKey
	method ExecutionMethod
	form   formdata.Map
	cfg    *MethodConfig
}

func (e *execution) Name() string {
	return e.key.String()
}

func (e *execution) Validate() error {
	cfg, err := NewMethodConfig(e.form)
	if err != nil {
		return err
	}
	e.cfg = cfg
	return e.method.ValidateRequest(cfg)
}

func (e *execution) ResolvePrerequisites(ctx context.Context) error {
	return e.method.ResolvePrerequisites(ctx, e.cfg, e.send)
}

func (e *execution) Dispatch(ctx context.Context) (*transport.Response, error) {
	req, err := e.method.BuildRequest(e.cfg)
	if err != nil {
		return nil, err
	}
	return e.dispatch(ctx, req)
}

func (e *execution) TransformResponse(body []byte) (interface{}, error) {
	return e.method.TransformResponse(gjson.ParseBytes(body), e.cfg)
}

type trigger struct {
	call
	kind   models.TriggerKind
	method TriggerMethod
	form   formdata.Map
	cfg    *MethodConfig
}

func (t *trigger) Name() string {
	return string(t.kind)
}

func (t *trigger) Validate() error {
	cfg, err := NewMethodConfig(t.form)
	if err != nil {
		return err
	}
	t.cfg = cfg
	return t.method.ValidateTrigger(cfg)
}

func (t *trigger) ResolvePrerequisites(context.Context) error {
	return nil
}

func (t *trigger) Dispatch(ctx context.Context) (*transport.Response, error) {
	req, err := t.method.BuildTriggerRequest(t.cfg)
	if err != nil {
		return nil, err
	}
	return t.dispatch(ctx, req)
}

func (t *trigger) TransformResponse(body []byte) (interface{}, error) {
	return t.method.TransformTrigger(gjson.ParseBytes(body), t.cfg)
}
