// pkg/catalog/schema.go
package catalog

type Kind string

const (
	KindExecution Kind = "execution"
	KindTrigger   Kind = "trigger"
)

type Catalog struct {
	Version     string      `json:"version"`
	LastUpdated string      `json:"lastUpdated"`
	Operations  []Operation `json:"operations"`
}

type Operation struct {
	ID          string   `json:"id"`
	Backend     string   `json:"backend"`
	Kind        Kind     `json:"kind"`
	Description string   `json:"description"`
	JSONFields  []string `json:"jsonFields,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}
