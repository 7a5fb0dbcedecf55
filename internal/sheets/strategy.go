// internal/sheets/strategy.go
package sheets

import (
	"sort"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/models"
	"actionbridge/pkg/catalog"
)

type executionEntry struct {
	build       func(Endpoints) ExecutionMethod
	description string
}

type triggerEntry struct {
	build       func(Endpoints) TriggerMethod
	description string
}

func opKey(entity models.EntityKind, command models.CommandKind) models.OperationKey {
	return models.OperationKey{Entity: entity, Command: command}
}

// executionTable and triggerTable are read-only after init.
var executionTable = map[models.OperationKey]executionEntry{
	opKey(models.EntityRow, models.CommandInsertOne): {
		func(ep Endpoints) ExecutionMethod { return &appendRows{ep: ep} }, "Append one row"},
	opKey(models.EntityRow, models.CommandInsertMany): {
		func(ep Endpoints) ExecutionMethod { return &appendRows{ep: ep, many: true} }, "Append many rows"},
	opKey(models.EntityRow, models.CommandUpdateOne): {
		func(ep Endpoints) ExecutionMethod { return &updateRow{ep: ep} }, "Update one row by index"},
	opKey(models.EntityRow, models.CommandUpdateMany): {
		func(ep Endpoints) ExecutionMethod { return &updateRows{ep: ep} }, "Update many rows by index"},
	opKey(models.EntityRow, models.CommandDeleteOne): {
		func(ep Endpoints) ExecutionMethod { return &deleteRow{ep: ep} }, "Delete one row by index"},
	opKey(models.EntityRow, models.CommandFetchMany): {
		func(ep Endpoints) ExecutionMethod { return &fetchRows{ep: ep} }, "Fetch rows keyed by the header row"},
	opKey(models.EntitySheet, models.CommandClear): {
		func(ep Endpoints) ExecutionMethod { return &clearSheet{ep: ep} }, "Clear a sheet or range"},
	opKey(models.EntitySheet, models.CommandCopy): {
		func(ep Endpoints) ExecutionMethod { return &copySheet{ep: ep} }, "Copy a sheet to a spreadsheet"},
	opKey(models.EntitySheet, models.CommandDeleteOne): {
		func(ep Endpoints) ExecutionMethod { return &deleteSheet{ep: ep} }, "Delete a sheet"},
	opKey(models.EntitySheet, models.CommandFetchStructure): {
		func(ep Endpoints) ExecutionMethod { return &fetchStructure{ep: ep} }, "Fetch the header row"},
	opKey(models.EntitySpreadsheet, models.CommandInsertOne): {
		func(ep Endpoints) ExecutionMethod { return &createSpreadsheet{ep: ep} }, "Create a spreadsheet"},
	opKey(models.EntitySpreadsheet, models.CommandDeleteOne): {
		func(ep Endpoints) ExecutionMethod { return &deleteSpreadsheet{ep: ep} }, "Delete a spreadsheet"},
	opKey(models.EntitySpreadsheet, models.CommandFetchDetails): {
		func(ep Endpoints) ExecutionMethod { return &fetchDetails{ep: ep} }, "Fetch spreadsheet details and sheets"},
	opKey(models.EntitySpreadsheet, models.CommandFetchMany): {
		func(ep Endpoints) ExecutionMethod { return &listFiles{ep: ep} }, "List spreadsheets"},
}

var triggerTable = map[models.TriggerKind]triggerEntry{
	models.TriggerSpreadsheetSelector: {
		func(ep Endpoints) TriggerMethod { return &listFiles{ep: ep} }, "Spreadsheet dropdown"},
	models.TriggerSheetSelector: {
		func(ep Endpoints) TriggerMethod { return &fetchDetails{ep: ep} }, "Sheet dropdown"},
	models.TriggerColumnsSelector: {
		func(ep Endpoints) TriggerMethod { return &fetchStructure{ep: ep} }, "Column dropdown"},
}

// ExecutionMethodFor returns a fresh method for key. Keys match exactly.
func ExecutionMethodFor(k models.OperationKey, ep Endpoints) (ExecutionMethod, error) {
	entry, ok := executionTable[k]
	if !ok {
		return nil, apperrors.NewUnknownOperationError("execution", k.String())
	}
	return entry.build(ep), nil
}

func TriggerMethodFor(kind models.TriggerKind, ep Endpoints) (TriggerMethod, error) {
	entry, ok := triggerTable[kind]
	if !ok {
		return nil, apperrors.NewUnknownOperationError("trigger", string(kind))
	}
	return entry.build(ep), nil
}

// OperationKeys lists every declared execution key.
func OperationKeys() []models.OperationKey {
	keys := make([]models.OperationKey, 0, len(executionTable))
	for k := range executionTable {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

func TriggerKinds() []models.TriggerKind {
	kinds := make([]models.TriggerKind, 0, len(triggerTable))
	for k := range triggerTable {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func Operations() []catalog.Operation {
	ops := make([]catalog.Operation, 0, len(executionTable)+len(triggerTable))
	for _, k := range OperationKeys() {
		ops = append(ops, catalog.Operation{
			ID:          k.String(),
			Backend:     BackendName,
			Kind:        catalog.KindExecution,
			Description: executionTable[k].description,
			JSONFields:  JSONFields,
			Tags:        []string{string(k.Entity)},
		})
	}
	for _, kind := range TriggerKinds() {
		ops = append(ops, catalog.Operation{
			ID:          string(kind),
			Backend:     BackendName,
			Kind:        catalog.KindTrigger,
			Description: triggerTable[kind].description,
		})
	}
	return ops
}
