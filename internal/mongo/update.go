// internal/mongo/update.go
package mongo

import (
	"fmt"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

type Update struct {
	base
	query  string
	update string
	multi  bool
}

func newUpdate(form formdata.Map) (Command, error) {
	b, err := newBase(form, models.CommandUpdate)
	if err != nil {
		return nil, err
	}
	u := &Update{base: b}
	if u.query, err = formdata.GetString(form, FieldUpdateQuery, ""); err != nil {
		return nil, err
	}
	if u.update, err = formdata.GetString(form, FieldUpdateOperation, ""); err != nil {
		return nil, err
	}
	limit, err := u.optionalString(form, FieldUpdateLimit, "")
	if err != nil {
		return nil, err
	}
	u.multi = limit == limitAll
	return u, nil
}

func (u *Update) Validate() (bool, []string) {
	missing := u.missingBase()
	if u.query == "" {
		missing = append(missing, "Query")
	}
	if u.update == "" {
		missing = append(missing, "Update")
	}
	return len(missing) == 0, missing
}

func (u *Update) Render() (bson.D, error) {
	q, err := ParseDocument("Query", u.query)
	if err != nil {
		return nil, err
	}
	// either an update document or an aggregation pipeline
	op, err := ParseValue("Update", u.update)
	if err != nil {
		return nil, err
	}
	switch op.(type) {
	case bson.D, bson.A:
	default:
		return nil, apperrors.NewQuerySyntaxError("Update", fragment(u.update),
			fmt.Errorf("expected a document or pipeline, got %T", op))
	}

	return bson.D{
		{Key: "update", Value: u.collection},
		{Key: "updates", Value: bson.A{
			bson.D{{Key: "q", Value: q}, {Key: "u", Value: op}, {Key: "multi", Value: u.multi}},
		}},
	}, nil
}

func (u *Update) GenerateTemplates(hints models.TemplateHints) []models.Template {
	cfg := templateConfig(models.CommandUpdate, hints.CollectionName)
	formdata.Set(cfg, FieldUpdateQuery, `{ "_id": ObjectId("id_of_document_to_update") }`)
	formdata.Set(cfg, FieldUpdateOperation, `{ "$set": { "<fieldName>": "value" } }`)
	formdata.Set(cfg, FieldUpdateLimit, "SINGLE")

	body := renderBody(bson.D{
		{Key: "update", Value: hints.CollectionName},
		{Key: "updates", Value: bson.A{bson.D{
			{Key: "q", Value: bson.D{{Key: "_id", Value: oidPlaceholder("id_of_document_to_update")}}},
			{Key: "u", Value: bson.D{{Key: "$set", Value: bson.D{{Key: "<fieldName>", Value: "value"}}}}},
		}}},
	})
	formdata.Set(cfg, FieldBody, body)
	return []models.Template{{Title: "Update", Configuration: cfg, Body: body}}
}
