// internal/models/result.go
package models

// ResultEnvelope is returned for every execution regardless of backend.
type ResultEnvelope struct {
	ExecutionID string              `json:"executionId,omitempty"`
	StatusCode  int                 `json:"statusCode"`
	Status      string              `json:"status,omitempty"`
	Headers     map[string][]string `json:"headers,omitempty"`
	Body        interface{}         `json:"body"`
	Success     bool                `json:"isExecutionSuccess"`
	ErrorCode   string              `json:"errorCode,omitempty"`
	Request     *RequestInfo        `json:"request,omitempty"`
}

// RequestInfo echoes what was sent, minus credentials.
type RequestInfo struct {
	Method      string       `json:"method,omitempty"`
	URL         string       `json:"url,omitempty"`
	Body        string       `json:"body,omitempty"`
	BoundParams []BoundParam `json:"boundParams,omitempty"`
}

// TriggerResult carries the option list for a builder lookup.
type TriggerResult struct {
	Trigger interface{} `json:"trigger"`
}

// Option is one entry of a builder dropdown.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Param is a caller-supplied value for a binding expression.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// BoundParam records one substituted binding occurrence.
type BoundParam struct {
	Placeholder string `json:"placeholder"`
	Value       string `json:"value"`
}

// Template is a ready-to-run example configuration.
type Template struct {
	Title         string                 `json:"title"`
	Configuration map[string]interface{} `json:"configuration"`
	Body          string                 `json:"body,omitempty"`
}

// TemplateHints seeds template generation.
type TemplateHints struct {
	CollectionName   string `json:"collectionName"`
	FilterFieldName  string `json:"filterFieldName,omitempty"`
	FilterFieldValue string `json:"filterFieldValue,omitempty"`
}
