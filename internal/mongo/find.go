// internal/mongo/find.go
package mongo

import (
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

type Find struct {
	base
	query      string
	sort       string
	projection string
	limit      int
	skip       *int64
}

func newFind(form formdata.Map) (Command, error) {
	b, err := newBase(form, models.CommandFind)
	if err != nil {
		return nil, err
	}
	f := &Find{base: b}

	if f.query, err = f.optionalString(form, FieldFindQuery, ""); err != nil {
		return nil, err
	}
	if f.sort, err = f.optionalString(form, FieldFindSort, ""); err != nil {
		return nil, err
	}
	if f.projection, err = f.optionalString(form, FieldFindProjection, ""); err != nil {
		return nil, err
	}
	if f.limit, err = f.optionalInt(form, FieldFindLimit, defaultFindLimit); err != nil {
		return nil, err
	}
	if formdata.Present(form, FieldFindSkip) {
		skip, err := formdata.GetInt64(form, FieldFindSkip, 0)
		if err != nil {
			return nil, err
		}
		f.skip = &skip
	}
	return f, nil
}

func (f *Find) Validate() (bool, []string) {
	missing := f.missingBase()
	return len(missing) == 0, missing
}

func (f *Find) Render() (bson.D, error) {
	query := f.query
	if query == "" {
		query = matchAll
	}
	filter, err := ParseDocument("Query", query)
	if err != nil {
		return nil, err
	}

	doc := bson.D{
		{Key: "find", Value: f.collection},
		{Key: "filter", Value: filter},
	}
	if f.sort != "" {
		sort, err := ParseDocument("Sort", f.sort)
		if err != nil {
			return nil, err
		}
		doc = append(doc, bson.E{Key: "sort", Value: sort})
	}
	if f.projection != "" {
		projection, err := ParseDocument("Projection", f.projection)
		if err != nil {
			return nil, err
		}
		doc = append(doc, bson.E{Key: "projection", Value: projection})
	}

	doc = append(doc,
		bson.E{Key: "limit", Value: int32(f.limit)},
		bson.E{Key: "batchSize", Value: int32(f.limit)},
	)
	if f.skip != nil {
		doc = append(doc, bson.E{Key: "skip", Value: *f.skip})
	}
	return doc, nil
}

func (f *Find) ResultPath() string {
	return "cursor.firstBatch"
}

func (f *Find) GenerateTemplates(hints models.TemplateHints) []models.Template {
	return []models.Template{
		f.findTemplate(hints),
		f.findByIDTemplate(hints.CollectionName),
	}
}

func (f *Find) findTemplate(hints models.TemplateHints) models.Template {
	cfg := templateConfig(models.CommandFind, hints.CollectionName)
	formdata.Set(cfg, FieldFindSort, `{"_id": 1}`)
	formdata.Set(cfg, FieldFindLimit, "10")

	query := matchAll
	raw := bson.D{{Key: "find", Value: hints.CollectionName}}
	if hints.FilterFieldName != "" {
		filter := bson.D{{Key: hints.FilterFieldName, Value: hints.FilterFieldValue}}
		query = queryText(filter)
		raw = append(raw, bson.E{Key: "filter", Value: filter})
	}
	formdata.Set(cfg, FieldFindQuery, query)
	raw = append(raw,
		bson.E{Key: "sort", Value: bson.D{{Key: "_id", Value: int32(1)}}},
		bson.E{Key: "limit", Value: int32(10)},
	)

	body := renderBody(raw)
	formdata.Set(cfg, FieldBody, body)
	return models.Template{Title: "Find", Configuration: cfg, Body: body}
}

func (f *Find) findByIDTemplate(collection string) models.Template {
	cfg := templateConfig(models.CommandFind, collection)
	formdata.Set(cfg, FieldFindQuery, `{"_id": ObjectId("id_to_query_with")}`)

	body := renderBody(bson.D{
		{Key: "find", Value: collection},
		{Key: "filter", Value: bson.D{{Key: "_id", Value: oidPlaceholder("id_to_query_with")}}},
	})
	formdata.Set(cfg, FieldBody, body)
	return models.Template{Title: "Find by ID", Configuration: cfg, Body: body}
}
