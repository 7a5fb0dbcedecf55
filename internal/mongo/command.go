// internal/mongo/command.go
package mongo

import (
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Command is one document-database operation built from a form snapshot.
type Command interface {
	Key() models.OperationKey
	// Validate reports whether the command can run and which required
	// fields are missing.
	Validate() (bool, []string)
	Render() (bson.D, error)
	GenerateTemplates(hints models.TemplateHints) []models.Template
	// ResultPath is the reply path holding the payload, empty for the whole reply.
	ResultPath() string
	// Defaulted lists optional fields that were absent and fell back to defaults.
	Defaulted() []string
}

type base struct {
	kind       models.CommandKind
	collection string
	defaulted  []string
}

func newBase(form formdata.Map, kind models.CommandKind) (base, error) {
	collection, err := formdata.GetString(form, FieldCollection, "")
	if err != nil {
		return base{}, err
	}
	return base{kind: kind, collection: collection}, nil
}

func (b *base) Key() models.OperationKey {
	return models.OperationKey{Entity: models.EntityCollection, Command: b.kind}
}

func (b *base) Defaulted() []string {
	return b.defaulted
}

func (b *base) ResultPath() string {
	return ""
}

func (b *base) missingBase() []string {
	if b.collection == "" {
		return []string{"Collection"}
	}
	return nil
}

// optionalString reads a field and records it as defaulted when absent.
func (b *base) optionalString(form formdata.Map, field, def string) (string, error) {
	if !formdata.Present(form, field) {
		b.defaulted = append(b.defaulted, field)
		return def, nil
	}
	return formdata.GetString(form, field, def)
}

func (b *base) optionalInt(form formdata.Map, field string, def int) (int, error) {
	if !formdata.Present(form, field) {
		b.defaulted = append(b.defaulted, field)
		return def, nil
	}
	return formdata.GetInt(form, field, def)
}

// templateConfig seeds a builder configuration with the fields every template carries.
func templateConfig(kind models.CommandKind, collection string) formdata.Map {
	m := formdata.Map{}
	formdata.Set(m, FieldSmartSubstitution, true)
	formdata.Set(m, FieldCommand, string(kind))
	formdata.Set(m, FieldCollection, collection)
	return m
}
