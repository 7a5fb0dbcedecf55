// internal/mongo/strategy.go
package mongo

import (
	"sort"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"
	"actionbridge/pkg/catalog"
)

type commandEntry struct {
	build       func(formdata.Map) (Command, error)
	description string
}

// commandTable is read-only after init.
var commandTable = map[models.CommandKind]commandEntry{
	models.CommandFind:      {newFind, "Find documents matching a filter"},
	models.CommandInsert:    {newInsert, "Insert one or more documents"},
	models.CommandUpdate:    {newUpdate, "Update one or all documents matching a filter"},
	models.CommandDelete:    {newDelete, "Delete one or all documents matching a filter"},
	models.CommandCount:     {newCount, "Count documents matching a filter"},
	models.CommandDistinct:  {newDistinct, "List distinct values of a field"},
	models.CommandAggregate: {newAggregate, "Run an aggregation pipeline"},
	models.CommandRaw:       {newRaw, "Run a raw database command"},
}

// KeyFromForm reads the operation key. The entity defaults to COLLECTION.
func KeyFromForm(form formdata.Map) (models.OperationKey, error) {
	command, err := formdata.GetString(form, FieldCommand, "")
	if err != nil {
		return models.OperationKey{}, err
	}
	entity, err := formdata.GetString(form, FieldEntity, string(models.EntityCollection))
	if err != nil {
		return models.OperationKey{}, err
	}
	return models.OperationKey{Entity: models.EntityKind(entity), Command: models.CommandKind(command)}, nil
}

// CommandFor builds the command registered for key from form.
func CommandFor(key models.OperationKey, form formdata.Map) (Command, error) {
	if key.Entity != models.EntityCollection {
		return nil, apperrors.NewUnknownOperationError("execution", key.String())
	}
	entry, ok := commandTable[key.Command]
	if !ok {
		return nil, apperrors.NewUnknownOperationError("execution", key.String())
	}
	return entry.build(form)
}

// OperationKeys lists every declared key.
func OperationKeys() []models.OperationKey {
	keys := make([]models.OperationKey, 0, len(commandTable))
	for kind := range commandTable {
		keys = append(keys, models.OperationKey{Entity: models.EntityCollection, Command: kind})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Templates generates example configurations for every command.
func Templates(hints models.TemplateHints) []models.Template {
	var out []models.Template
	for _, key := range OperationKeys() {
		cmd, err := commandTable[key.Command].build(formdata.Map{})
		if err != nil {
			continue
		}
		out = append(out, cmd.GenerateTemplates(hints)...)
	}
	return out
}

func Operations() []catalog.Operation {
	ops := make([]catalog.Operation, 0, len(commandTable))
	for _, key := range OperationKeys() {
		ops = append(ops, catalog.Operation{
			ID:          key.String(),
			Backend:     BackendName,
			Kind:        catalog.KindExecution,
			Description: commandTable[key.Command].description,
			JSONFields:  JSONFields,
		})
	}
	return ops
}
