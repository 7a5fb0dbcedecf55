// internal/mongo/aggregate.go
package mongo

import (
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

type Aggregate struct {
	base
	pipeline string
	limit    int
}

func newAggregate(form formdata.Map) (Command, error) {
	b, err := newBase(form, models.CommandAggregate)
	if err != nil {
		return nil, err
	}
	a := &Aggregate{base: b}
	if a.pipeline, err = formdata.GetString(form, FieldAggregatePipelines, ""); err != nil {
		return nil, err
	}
	if a.limit, err = a.optionalInt(form, FieldAggregateLimit, defaultAggregateLimit); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Aggregate) Validate() (bool, []string) {
	missing := a.missingBase()
	if a.pipeline == "" {
		missing = append(missing, "Array of Pipelines")
	}
	return len(missing) == 0, missing
}

func (a *Aggregate) Render() (bson.D, error) {
	stages, err := ParseArray("Array of Pipelines", a.pipeline)
	if err != nil {
		return nil, err
	}
	return bson.D{
		{Key: "aggregate", Value: a.collection},
		{Key: "pipeline", Value: stages},
		{Key: "cursor", Value: bson.D{{Key: "batchSize", Value: int32(a.limit)}}},
	}, nil
}

func (a *Aggregate) ResultPath() string {
	return "cursor.firstBatch"
}

func (a *Aggregate) GenerateTemplates(hints models.TemplateHints) []models.Template {
	cfg := templateConfig(models.CommandAggregate, hints.CollectionName)
	formdata.Set(cfg, FieldAggregatePipelines, `[ {"$sort" : {"_id": 1} } ]`)
	formdata.Set(cfg, FieldAggregateLimit, "10")

	body := renderBody(bson.D{
		{Key: "aggregate", Value: hints.CollectionName},
		{Key: "pipeline", Value: bson.A{bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: int32(1)}}}}}},
		{Key: "cursor", Value: bson.D{{Key: "batchSize", Value: int32(10)}}},
	})
	formdata.Set(cfg, FieldBody, body)
	return []models.Template{{Title: "Aggregate", Configuration: cfg, Body: body}}
}
