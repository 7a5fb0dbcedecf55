// internal/mongo/insert.go
package mongo

import (
	"fmt"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

type Insert struct {
	base
	documents string
}

func newInsert(form formdata.Map) (Command, error) {
	b, err := newBase(form, models.CommandInsert)
	if err != nil {
		return nil, err
	}
	i := &Insert{base: b}
	if i.documents, err = formdata.GetString(form, FieldInsertDocuments, ""); err != nil {
		return nil, err
	}
	return i, nil
}

func (i *Insert) Validate() (bool, []string) {
	missing := i.missingBase()
	if i.documents == "" {
		missing = append(missing, "Documents")
	}
	return len(missing) == 0, missing
}

func (i *Insert) Render() (bson.D, error) {
	docs, err := ParseArray("Documents", i.documents)
	if err != nil {
		return nil, err
	}
	for idx, d := range docs {
		switch d.(type) {
		case bson.D, bson.M:
		default:
			return nil, apperrors.NewQuerySyntaxError("Documents", fragment(i.documents),
				fmt.Errorf("element %d is not a document", idx))
		}
	}
	return bson.D{
		{Key: "insert", Value: i.collection},
		{Key: "documents", Value: docs},
	}, nil
}

func (i *Insert) GenerateTemplates(hints models.TemplateHints) []models.Template {
	cfg := templateConfig(models.CommandInsert, hints.CollectionName)

	sample := bson.D{{Key: "_id", Value: oidPlaceholder("a_valid_object_id_hex")}}
	docsText := `[{ "_id": ObjectId("a_valid_object_id_hex") }]`
	if hints.FilterFieldName != "" {
		field := bson.E{Key: hints.FilterFieldName, Value: "new value"}
		sample = append(sample, field)
		docsText = `[{ "_id": ObjectId("a_valid_object_id_hex"), ` + membersText(bson.D{field}) + ` }]`
	}
	formdata.Set(cfg, FieldInsertDocuments, docsText)

	body := renderBody(bson.D{
		{Key: "insert", Value: hints.CollectionName},
		{Key: "documents", Value: bson.A{sample}},
	})
	formdata.Set(cfg, FieldBody, body)
	return []models.Template{{Title: "Insert", Configuration: cfg, Body: body}}
}
