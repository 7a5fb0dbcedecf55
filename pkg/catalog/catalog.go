// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"time"
)

// New assembles a catalog ordered by backend, kind and id.
func New(version string, groups ...[]Operation) *Catalog {
	var ops []Operation
	for _, g := range groups {
		ops = append(ops, g...)
	}
	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].Backend != ops[j].Backend {
			return ops[i].Backend < ops[j].Backend
		}
		if ops[i].Kind != ops[j].Kind {
			return ops[i].Kind < ops[j].Kind
		}
		return ops[i].ID < ops[j].ID
	})
	return &Catalog{
		Version:     version,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Operations:  ops,
	}
}

// LoadCatalog reads a catalog previously produced by Write.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Catalog
	err = json.Unmarshal(data, &c)
	return &c, err
}

func (c *Catalog) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// Find returns the operation with id for backend.
func (c *Catalog) Find(backend, id string) (Operation, bool) {
	for _, op := range c.Operations {
		if op.Backend == backend && op.ID == id {
			return op, true
		}
	}
	return Operation{}, false
}

// Missing lists the operations of c that other does not declare.
func (c *Catalog) Missing(other *Catalog) []Operation {
	var out []Operation
	for _, op := range c.Operations {
		if _, ok := other.Find(op.Backend, op.ID); !ok {
			out = append(out, op)
		}
	}
	return out
}

// ByBackend filters the catalog to one backend.
func (c *Catalog) ByBackend(backend string) []Operation {
	var out []Operation
	for _, op := range c.Operations {
		if op.Backend == backend {
			out = append(out, op)
		}
	}
	return out
}
