package mongo

import (
	stderrors "errors"
	"reflect"
	"testing"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCommandFor_EveryDeclaredKeyResolves(t *testing.T) {
	expected := map[models.CommandKind]reflect.Type{
		models.CommandFind:      reflect.TypeOf(&Find{}),
		models.CommandInsert:    reflect.TypeOf(&Insert{}),
		models.CommandUpdate:    reflect.TypeOf(&Update{}),
		models.CommandDelete:    reflect.TypeOf(&Delete{}),
		models.CommandCount:     reflect.TypeOf(&Count{}),
		models.CommandDistinct:  reflect.TypeOf(&Distinct{}),
		models.CommandAggregate: reflect.TypeOf(&Aggregate{}),
		models.CommandRaw:       reflect.TypeOf(&Raw{}),
	}

	keys := OperationKeys()
	require.Len(t, keys, len(expected))
	for _, key := range keys {
		cmd, err := CommandFor(key, formdata.Map{})
		require.NoError(t, err, key.String())
		require.NotNil(t, cmd)
		assert.Equal(t, expected[key.Command], reflect.TypeOf(cmd), key.String())
		assert.Equal(t, key, cmd.Key())
	}
}

func TestCommandFor_UnknownKeys(t *testing.T) {
	tests := []models.OperationKey{
		{Entity: models.EntityCollection, Command: "find"},
		{Entity: models.EntityCollection, Command: "FINDS"},
		{Entity: models.EntityCollection, Command: ""},
		{Entity: models.EntityRow, Command: models.CommandFind},
	}
	for _, key := range tests {
		t.Run(key.String(), func(t *testing.T) {
			_, err := CommandFor(key, formdata.Map{})
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, apperrors.ErrUnknownOperation))
			assert.True(t, apperrors.IsFatal(err))
		})
	}
}

func TestKeyFromForm_DefaultsEntity(t *testing.T) {
	key, err := KeyFromForm(formdata.Map{"command": " FIND "})
	require.NoError(t, err)
	assert.Equal(t, "COLLECTION_FIND", key.String())
}

func TestTemplates_Find(t *testing.T) {
	cmd, err := CommandFor(models.OperationKey{Entity: models.EntityCollection, Command: models.CommandFind}, formdata.Map{})
	require.NoError(t, err)

	tpls := cmd.GenerateTemplates(models.TemplateHints{
		CollectionName:   "users",
		FilterFieldName:  "email",
		FilterFieldValue: "ada@example.com",
	})
	require.Len(t, tpls, 2)
	assert.Equal(t, "Find", tpls[0].Title)
	assert.Equal(t, "Find by ID", tpls[1].Title)

	cfg := formdata.Map(tpls[0].Configuration)
	query, _ := formdata.GetString(cfg, FieldFindQuery, "")
	assert.Equal(t, `{"email":"ada@example.com"}`, query)
	limit, _ := formdata.GetInt(cfg, FieldFindLimit, 0)
	assert.Equal(t, 10, limit)
	smart, _ := formdata.GetBool(cfg, FieldSmartSubstitution, false)
	assert.True(t, smart)

	require.True(t, gjson.Valid(tpls[0].Body), tpls[0].Body)
	assert.Equal(t, "users", gjson.Get(tpls[0].Body, "find").String())
	assert.Equal(t, "ada@example.com", gjson.Get(tpls[0].Body, "filter.email").String())
	assert.Equal(t, int64(1), gjson.Get(tpls[0].Body, "sort._id").Int())

	byID := formdata.Map(tpls[1].Configuration)
	q, _ := formdata.GetString(byID, FieldFindQuery, "")
	assert.Equal(t, `{"_id": ObjectId("id_to_query_with")}`, q)
	assert.Equal(t, "id_to_query_with", gjson.Get(tpls[1].Body, "filter._id.$oid").String())
}

func TestTemplates_FindWithoutFilterHint(t *testing.T) {
	tpls := (&Find{}).GenerateTemplates(models.TemplateHints{CollectionName: "users"})
	query, _ := formdata.GetString(formdata.Map(tpls[0].Configuration), FieldFindQuery, "")
	assert.Equal(t, "{}", query)
	assert.False(t, gjson.Get(tpls[0].Body, "filter").Exists())
}

func TestTemplates_AllCommandsProduceRunnableConfigs(t *testing.T) {
	tpls := Templates(models.TemplateHints{CollectionName: "users", FilterFieldName: "name"})
	titles := map[string]bool{}
	for _, tpl := range tpls {
		titles[tpl.Title] = true
		assert.True(t, gjson.Valid(tpl.Body), tpl.Title)

		cfg := formdata.Map(tpl.Configuration)
		key, err := KeyFromForm(cfg)
		require.NoError(t, err)
		_, err = CommandFor(key, cfg)
		assert.NoError(t, err, tpl.Title)
	}
	for _, want := range []string{"Find", "Find by ID", "Insert", "Update", "Delete", "Count", "Distinct", "Aggregate", "Raw"} {
		assert.True(t, titles[want], want)
	}
}

func TestTemplates_HintsAreEscaped(t *testing.T) {
	hints := models.TemplateHints{
		CollectionName:   "users",
		FilterFieldName:  `last"name`,
		FilterFieldValue: `O"Brien`,
	}
	find := (&Find{}).GenerateTemplates(hints)[0]
	cfg := formdata.Map(find.Configuration)
	cmd, err := CommandFor(models.OperationKey{Entity: models.EntityCollection, Command: models.CommandFind}, cfg)
	require.NoError(t, err)
	doc, err := cmd.Render()
	require.NoError(t, err)
	filter := doc[1].Value.(bson.D)
	require.Len(t, filter, 1)
	assert.Equal(t, `last"name`, filter[0].Key)
	assert.Equal(t, `O"Brien`, filter[0].Value)

	insert := (&Insert{}).GenerateTemplates(hints)[0]
	docs, _ := formdata.GetString(formdata.Map(insert.Configuration), FieldInsertDocuments, "")
	normalized, err := normalizeShell(docs)
	require.NoError(t, err)
	require.True(t, gjson.Valid(normalized), normalized)
	assert.Equal(t, "new value", gjson.Parse(normalized).Get("0").Map()[`last"name`].String())
}

func TestTemplates_DeleteMatchesBuilderDefaults(t *testing.T) {
	tpls := (&Delete{}).GenerateTemplates(models.TemplateHints{CollectionName: "users"})
	require.Len(t, tpls, 1)
	cfg := formdata.Map(tpls[0].Configuration)

	limit, _ := formdata.GetString(cfg, FieldDeleteLimit, "")
	assert.Equal(t, "SINGLE", limit)
	q, _ := formdata.GetString(cfg, FieldDeleteQuery, "")
	assert.Equal(t, `{ "_id": ObjectId("id_of_document_to_delete") }`, q)
	assert.Equal(t, int64(1), gjson.Get(tpls[0].Body, "deletes.0.limit").Int())
}

func TestOperations(t *testing.T) {
	ops := Operations()
	require.Len(t, ops, len(OperationKeys()))
	for _, op := range ops {
		assert.Equal(t, BackendName, op.Backend)
		assert.NotEmpty(t, op.Description)
	}
}
