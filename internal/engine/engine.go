// internal/engine/engine.go
package engine

import (
	"context"
	"net/http"
	"time"

	"actionbridge/internal/binding"
	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/common/logger"
	"actionbridge/internal/common/metrics"
	"actionbridge/internal/common/observability"
	"actionbridge/internal/common/transport"
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// FieldSmartSubstitution toggles JSON-aware binding substitution.
const FieldSmartSubstitution = "smartSubstitution"

const noOperationMessage = "No operation was performed"

type State string

const (
	StateIdle                   State = "IDLE"
	StateSubstituting           State = "SUBSTITUTING"
	StateValidating             State = "VALIDATING"
	StateResolvingPrerequisites State = "RESOLVING_PREREQUISITES"
	StateDispatching            State = "DISPATCHING"
	StateTransformingResponse   State = "TRANSFORMING_RESPONSE"
	StateDone                   State = "DONE"
	StateFailed                 State = "FAILED"
)

// Engine drives a handler through its lifecycle and folds every outcome into
// a ResultEnvelope. It holds no per-request state and is safe for concurrent use.
type Engine struct {
	backend Backend
	logger  logger.Logger
	obs     *observability.Observability
}

func New(backend Backend, log logger.Logger, obs *observability.Observability) *Engine {
	return &Engine{
		backend: backend,
		logger:  log.WithFields(map[string]interface{}{"backend": backend.Name()}),
		obs:     obs,
	}
}

// run tracks one execution.
type run struct {
	id        string
	operation string
	state     State
	log       logger.Logger
	started   time.Time
	bound     []models.BoundParam
}

func (r *run) enter(s State) {
	r.log.Debug("execution state changed", map[string]interface{}{
		"from": string(r.state),
		"to":   string(s),
	})
	r.state = s
}

// Execute runs the configured operation. Only UNKNOWN_OPERATION and
// CREDENTIAL_MISSING are returned as errors.
func (e *Engine) Execute(ctx context.Context, form formdata.Map, params []models.Param) (*models.ResultEnvelope, error) {
	r := &run{
		id:        uuid.NewString(),
		operation: "unresolved",
		state:     StateIdle,
		started:   time.Now(),
	}
	r.log = e.logger.WithFields(map[string]interface{}{"executionId": r.id})

	if len(form) == 0 {
		r.log.Info("empty configuration, nothing to execute", nil)
		return &models.ResultEnvelope{
			ExecutionID: r.id,
			StatusCode:  http.StatusOK,
			Status:      http.StatusText(http.StatusOK),
			Body:        map[string]interface{}{"message": noOperationMessage},
			Success:     true,
		}, nil
	}

	metrics.ExecutionsActive.WithLabelValues(e.backend.Name()).Inc()
	defer metrics.ExecutionsActive.WithLabelValues(e.backend.Name()).Dec()

	form = formdata.Clone(form)

	r.enter(StateSubstituting)
	if err := e.substitute(form, params, r); err != nil {
		return e.fail(ctx, r, nil, err), nil
	}

	r.enter(StateValidating)
	h, err := e.backend.ResolveExecution(form)
	if err != nil {
		if apperrors.IsFatal(err) {
			e.abort(r, err)
			return nil, err
		}
		return e.fail(ctx, r, nil, err), nil
	}
	r.operation = h.Name()
	r.log = r.log.WithFields(map[string]interface{}{"operation": r.operation})

	if err := h.Validate(); err != nil {
		return e.fail(ctx, r, h, err), nil
	}
	if err := h.Authorize(ctx); err != nil {
		if apperrors.IsFatal(err) {
			e.abort(r, err)
			return nil, err
		}
		return e.fail(ctx, r, h, err), nil
	}

	r.enter(StateResolvingPrerequisites)
	if err := h.ResolvePrerequisites(ctx); err != nil {
		return e.fail(ctx, r, h, err), nil
	}

	r.enter(StateDispatching)
	resp, err := h.Dispatch(ctx)
	if err != nil {
		return e.fail(ctx, r, h, err), nil
	}
	e.obs.RecordResponseBytes(ctx, r.operation, len(resp.Body))

	r.enter(StateTransformingResponse)
	env := &models.ResultEnvelope{
		ExecutionID: r.id,
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		Headers:     map[string][]string(resp.Header),
		Request:     describe(h, r.bound),
	}

	if !resp.IsSuccess() {
		env.Body = vendorMessage(resp)
		env.ErrorCode = string(apperrors.ErrCodeVendor)
		e.finish(ctx, r, env)
		return env, nil
	}

	if len(resp.Body) > 0 && !gjson.ValidBytes(resp.Body) {
		return e.failWith(ctx, r, env, apperrors.NewResponseParseError(string(resp.Body), nil)), nil
	}
	body, err := h.TransformResponse(resp.Body)
	if err != nil {
		return e.failWith(ctx, r, env, err), nil
	}

	env.Body = body
	env.Success = true
	e.finish(ctx, r, env)
	return env, nil
}

// substitute rewrites every JSON-bearing field of the backend in place.
func (e *Engine) substitute(form formdata.Map, params []models.Param, r *run) error {
	smart, err := formdata.GetBool(form, FieldSmartSubstitution, true)
	if err != nil {
		return err
	}
	if !smart {
		return nil
	}

	for _, field := range e.backend.JSONFields() {
		v, ok := formdata.Lookup(form, field)
		if !ok {
			continue
		}
		text, ok := v.(string)
		if !ok {
			continue
		}
		out, bound, err := binding.Substitute(text, params)
		if err != nil {
			return err
		}
		if len(bound) > 0 {
			formdata.Set(form, field, out)
			r.bound = append(r.bound, bound...)
		}
	}
	return nil
}

// Lookup runs a builder trigger. Failures are returned as errors.
func (e *Engine) Lookup(ctx context.Context, kind models.TriggerKind, form formdata.Map) (*models.TriggerResult, error) {
	log := e.logger.WithFields(map[string]interface{}{
		"executionId": uuid.NewString(),
		"trigger":     string(kind),
	})

	result, err := e.lookup(ctx, kind, formdata.Clone(form))
	if err != nil {
		metrics.LookupsTotal.WithLabelValues(e.backend.Name(), string(kind), "failure").Inc()
		log.Warn("lookup failed", map[string]interface{}{
			"errorCode": string(apperrors.CodeOf(err)),
			"error":     err.Error(),
		})
		return nil, err
	}
	metrics.LookupsTotal.WithLabelValues(e.backend.Name(), string(kind), "success").Inc()
	log.Debug("lookup completed", nil)
	return result, nil
}

func (e *Engine) lookup(ctx context.Context, kind models.TriggerKind, form formdata.Map) (*models.TriggerResult, error) {
	h, err := e.backend.ResolveTrigger(kind, form)
	if err != nil {
		return nil, err
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if err := h.Authorize(ctx); err != nil {
		return nil, err
	}
	if err := h.ResolvePrerequisites(ctx); err != nil {
		return nil, err
	}
	resp, err := h.Dispatch(ctx)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, apperrors.NewVendorError(resp.StatusCode, vendorMessage(resp))
	}
	if len(resp.Body) > 0 && !gjson.ValidBytes(resp.Body) {
		return nil, apperrors.NewResponseParseError(string(resp.Body), nil)
	}
	out, err := h.TransformResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	return &models.TriggerResult{Trigger: out}, nil
}

// vendorMessage prefers the vendor's error.message and falls back to the status text.
func vendorMessage(resp *transport.Response) string {
	if msg := gjson.GetBytes(resp.Body, "error.message"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}

func describe(h Handler, bound []models.BoundParam) *models.RequestInfo {
	var info *models.RequestInfo
	if d, ok := h.(Describer); ok {
		info = d.Describe()
	}
	if info == nil {
		if len(bound) == 0 {
			return nil
		}
		info = &models.RequestInfo{}
	}
	info.BoundParams = bound
	return info
}

func (e *Engine) fail(ctx context.Context, r *run, h Handler, err error) *models.ResultEnvelope {
	env := &models.ResultEnvelope{ExecutionID: r.id}
	if h != nil {
		env.Request = describe(h, r.bound)
	} else if len(r.bound) > 0 {
		env.Request = &models.RequestInfo{BoundParams: r.bound}
	}
	return e.failWith(ctx, r, env, err)
}

func (e *Engine) failWith(ctx context.Context, r *run, env *models.ResultEnvelope, err error) *models.ResultEnvelope {
	se := apperrors.Normalize(err)
	env.Body = se.Message
	env.Success = false
	env.ErrorCode = string(se.Code)
	r.log.Warn("execution failed", map[string]interface{}{
		"state":     string(r.state),
		"errorCode": env.ErrorCode,
		"error":     err.Error(),
	})
	e.finish(ctx, r, env)
	return env
}

func (e *Engine) abort(r *run, err error) {
	r.enter(StateFailed)
	metrics.ExecutionsFailed.WithLabelValues(e.backend.Name(), r.operation, string(apperrors.CodeOf(err))).Inc()
	r.log.Error("execution aborted", map[string]interface{}{
		"errorCode": string(apperrors.CodeOf(err)),
		"error":     err.Error(),
	})
}

func (e *Engine) finish(ctx context.Context, r *run, env *models.ResultEnvelope) {
	elapsed := time.Since(r.started)
	status := "success"
	if env.Success {
		r.enter(StateDone)
		metrics.ExecutionsCompleted.WithLabelValues(e.backend.Name(), r.operation).Inc()
	} else {
		r.enter(StateFailed)
		status = "failure"
		metrics.ExecutionsFailed.WithLabelValues(e.backend.Name(), r.operation, env.ErrorCode).Inc()
	}
	metrics.ExecutionDuration.WithLabelValues(e.backend.Name(), r.operation).Observe(elapsed.Seconds())
	e.obs.RecordExecution(ctx, r.operation, status)
	e.obs.RecordDuration(ctx, r.operation, elapsed, status)

	r.log.Info("execution finished", map[string]interface{}{
		"statusCode": env.StatusCode,
		"success":    env.Success,
		"durationMs": elapsed.Milliseconds(),
	})
}
