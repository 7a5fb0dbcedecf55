// internal/mongo/backend.go
package mongo

import (
	"context"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/common/logger"
	"actionbridge/internal/common/transport"
	"actionbridge/internal/engine"
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"

	"github.com/tidwall/gjson"
	"go.mongodb.org/mongo-driver/bson"
)

const BackendName = "mongo"

type Backend struct {
	runner Runner
	log    logger.Logger
}

func NewBackend(runner Runner, log logger.Logger) *Backend {
	return &Backend{runner: runner, log: log}
}

func (b *Backend) Name() string {
	return BackendName
}

func (b *Backend) JSONFields() []string {
	return JSONFields
}

func (b *Backend) ResolveExecution(form formdata.Map) (engine.Handler, error) {
	key, err := KeyFromForm(form)
	if err != nil {
		return nil, err
	}
	cmd, err := CommandFor(key, form)
	if err != nil {
		return nil, err
	}
	return &execution{cmd: cmd, runner: b.runner, log: b.log}, nil
}

func (b *Backend) ResolveTrigger(kind models.TriggerKind, _ formdata.Map) (engine.Handler, error) {
	return nil, apperrors.NewUnknownOperationError("trigger", string(kind))
}

type execution struct {
	cmd      Command
	runner   Runner
	log      logger.Logger
	rendered bson.D
}

func (e *execution) Name() string {
	return e.cmd.Key().String()
}

// Validate also renders so malformed JSON fails before any network call.
func (e *execution) Validate() error {
	ok, missing := e.cmd.Validate()
	if !ok {
		return apperrors.NewMissingRequiredFieldError(missing...)
	}
	if defaulted := e.cmd.Defaulted(); len(defaulted) > 0 {
		e.log.Debug("optional fields defaulted", map[string]interface{}{
			"operation": e.Name(),
			"fields":    defaulted,
		})
	}
	doc, err := e.cmd.Render()
	if err != nil {
		return err
	}
	e.rendered = doc
	return nil
}

func (e *execution) Authorize(context.Context) error {
	return nil
}

func (e *execution) ResolvePrerequisites(context.Context) error {
	return nil
}

func (e *execution) Dispatch(ctx context.Context) (*transport.Response, error) {
	raw, err := e.runner.RunCommand(ctx, e.rendered)
	if err != nil {
		return nil, err
	}
	body, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, apperrors.NewResponseParseError(raw.String(), err)
	}
	return &transport.Response{StatusCode: 200, Status: "200 OK", Body: body}, nil
}

func (e *execution) TransformResponse(body []byte) (interface{}, error) {
	path := e.cmd.ResultPath()
	if path == "" {
		return gjson.ParseBytes(body).Value(), nil
	}
	return gjson.GetBytes(body, path).Value(), nil
}

func (e *execution) Describe() *models.RequestInfo {
	info := &models.RequestInfo{Method: "RUN_COMMAND", URL: e.Name()}
	if e.rendered != nil {
		if out, err := bson.MarshalExtJSON(e.rendered, false, false); err == nil {
			info.Body = string(out)
		}
	}
	return info
}
