// internal/mongo/distinct.go
package mongo

import (
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

type Distinct struct {
	base
	query string
	key   string
}

func newDistinct(form formdata.Map) (Command, error) {
	b, err := newBase(form, models.CommandDistinct)
	if err != nil {
		return nil, err
	}
	d := &Distinct{base: b}
	if d.query, err = d.optionalString(form, FieldDistinctQuery, matchAll); err != nil {
		return nil, err
	}
	if d.key, err = formdata.GetString(form, FieldDistinctKey, ""); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Distinct) Validate() (bool, []string) {
	missing := d.missingBase()
	if d.key == "" {
		missing = append(missing, "Key")
	}
	return len(missing) == 0, missing
}

func (d *Distinct) Render() (bson.D, error) {
	q, err := ParseDocument("Query", d.query)
	if err != nil {
		return nil, err
	}
	return bson.D{
		{Key: "distinct", Value: d.collection},
		{Key: "key", Value: d.key},
		{Key: "query", Value: q},
	}, nil
}

func (d *Distinct) ResultPath() string {
	return "values"
}

func (d *Distinct) GenerateTemplates(hints models.TemplateHints) []models.Template {
	cfg := templateConfig(models.CommandDistinct, hints.CollectionName)
	formdata.Set(cfg, FieldDistinctQuery, `{ "_id": ObjectId("id_of_document_to_distinct") }`)
	formdata.Set(cfg, FieldDistinctKey, "_id")

	body := renderBody(bson.D{
		{Key: "distinct", Value: hints.CollectionName},
		{Key: "query", Value: bson.D{{Key: "_id", Value: oidPlaceholder("id_of_document_to_distinct")}}},
		{Key: "key", Value: "_id"},
	})
	formdata.Set(cfg, FieldBody, body)
	return []models.Template{{Title: "Distinct", Configuration: cfg, Body: body}}
}
