// internal/mongo/raw.go
package mongo

import (
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Raw runs the body document as-is. It needs no collection.
type Raw struct {
	base
	body string
}

func newRaw(form formdata.Map) (Command, error) {
	b, err := newBase(form, models.CommandRaw)
	if err != nil {
		return nil, err
	}
	r := &Raw{base: b}
	if r.body, err = formdata.GetString(form, FieldBody, ""); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Raw) Validate() (bool, []string) {
	if r.body == "" {
		return false, []string{"Body"}
	}
	return true, nil
}

func (r *Raw) Render() (bson.D, error) {
	return ParseDocument("Body", r.body)
}

func (r *Raw) GenerateTemplates(hints models.TemplateHints) []models.Template {
	cfg := templateConfig(models.CommandRaw, hints.CollectionName)
	body := renderBody(bson.D{
		{Key: "find", Value: hints.CollectionName},
		{Key: "limit", Value: int32(10)},
	})
	formdata.Set(cfg, FieldBody, body)
	return []models.Template{{Title: "Raw", Configuration: cfg, Body: body}}
}
