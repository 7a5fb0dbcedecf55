// internal/engine/handler.go
package engine

import (
	"context"

	"actionbridge/internal/common/transport"
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"
)

// Handler is one request-scoped operation. It is built for a single execution
// and discarded afterwards.
type Handler interface {
	Name() string
	Validate() error
	// Authorize fails with CREDENTIAL_MISSING when no credential is available.
	Authorize(ctx context.Context) error
	ResolvePrerequisites(ctx context.Context) error
	Dispatch(ctx context.Context) (*transport.Response, error)
	TransformResponse(body []byte) (interface{}, error)
}

// Describer is implemented by handlers that can echo their outbound request.
type Describer interface {
	Describe() *models.RequestInfo
}

// Backend resolves forms into handlers for one backend family.
type Backend interface {
	Name() string
	// JSONFields lists the fields subject to smart substitution.
	JSONFields() []string
	ResolveExecution(form formdata.Map) (Handler, error)
	ResolveTrigger(kind models.TriggerKind, form formdata.Map) (Handler, error)
}
