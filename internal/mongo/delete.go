// internal/mongo/delete.go
package mongo

import (
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

type Delete struct {
	base
	query string
	limit int32
}

func newDelete(form formdata.Map) (Command, error) {
	b, err := newBase(form, models.CommandDelete)
	if err != nil {
		return nil, err
	}
	d := &Delete{base: b, limit: 1}

	// no default for the filter: an empty query must fail validation
	if d.query, err = formdata.GetString(form, FieldDeleteQuery, ""); err != nil {
		return nil, err
	}
	limit, err := d.optionalString(form, FieldDeleteLimit, "")
	if err != nil {
		return nil, err
	}
	if limit == limitAll {
		d.limit = 0
	}
	return d, nil
}

func (d *Delete) Validate() (bool, []string) {
	missing := d.missingBase()
	if len(missing) > 0 {
		return false, missing
	}
	if d.query == "" {
		return false, []string{"Query"}
	}
	return true, nil
}

func (d *Delete) Render() (bson.D, error) {
	q, err := ParseDocument("Query", d.query)
	if err != nil {
		return nil, err
	}
	return bson.D{
		{Key: "delete", Value: d.collection},
		{Key: "deletes", Value: bson.A{
			bson.D{{Key: "q", Value: q}, {Key: "limit", Value: d.limit}},
		}},
	}, nil
}

func (d *Delete) GenerateTemplates(hints models.TemplateHints) []models.Template {
	cfg := templateConfig(models.CommandDelete, hints.CollectionName)
	formdata.Set(cfg, FieldDeleteQuery, `{ "_id": ObjectId("id_of_document_to_delete") }`)
	formdata.Set(cfg, FieldDeleteLimit, "SINGLE")

	body := renderBody(bson.D{
		{Key: "delete", Value: hints.CollectionName},
		{Key: "deletes", Value: bson.A{bson.D{
			{Key: "q", Value: bson.D{{Key: "_id", Value: "id_of_document_to_delete"}}},
			{Key: "limit", Value: int32(1)},
		}}},
	})
	formdata.Set(cfg, FieldBody, body)
	return []models.Template{{Title: "Delete", Configuration: cfg, Body: body}}
}
