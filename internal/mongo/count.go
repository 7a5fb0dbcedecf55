// internal/mongo/count.go
package mongo

import (
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

type Count struct {
	base
	query string
}

func newCount(form formdata.Map) (Command, error) {
	b, err := newBase(form, models.CommandCount)
	if err != nil {
		return nil, err
	}
	c := &Count{base: b}
	if c.query, err = c.optionalString(form, FieldCountQuery, matchAll); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Count) Validate() (bool, []string) {
	missing := c.missingBase()
	return len(missing) == 0, missing
}

func (c *Count) Render() (bson.D, error) {
	q, err := ParseDocument("Query", c.query)
	if err != nil {
		return nil, err
	}
	return bson.D{
		{Key: "count", Value: c.collection},
		{Key: "query", Value: q},
	}, nil
}

func (c *Count) GenerateTemplates(hints models.TemplateHints) []models.Template {
	cfg := templateConfig(models.CommandCount, hints.CollectionName)
	formdata.Set(cfg, FieldCountQuery, `{"_id": {"$exists": true}}`)

	body := renderBody(bson.D{
		{Key: "count", Value: hints.CollectionName},
		{Key: "query", Value: bson.D{{Key: "_id", Value: bson.D{{Key: "$exists", Value: true}}}}},
	})
	formdata.Set(cfg, FieldBody, body)
	return []models.Template{{Title: "Count", Configuration: cfg, Body: body}}
}
