// internal/models/operation.go
package models

type EntityKind string

const (
	EntityRow         EntityKind = "ROW"
	EntitySheet       EntityKind = "SHEET"
	EntitySpreadsheet EntityKind = "SPREADSHEET"
	EntityCollection  EntityKind = "COLLECTION"
)

type CommandKind string

const (
	CommandInsertOne      CommandKind = "INSERT_ONE"
	CommandInsertMany     CommandKind = "INSERT_MANY"
	CommandUpdateOne      CommandKind = "UPDATE_ONE"
	CommandUpdateMany     CommandKind = "UPDATE_MANY"
	CommandDeleteOne      CommandKind = "DELETE_ONE"
	CommandFetchMany      CommandKind = "FETCH_MANY"
	CommandFetchDetails   CommandKind = "FETCH_DETAILS"
	CommandFetchStructure CommandKind = "FETCH_STRUCTURE"
	CommandClear          CommandKind = "CLEAR"
	CommandCopy           CommandKind = "COPY"

	CommandFind      CommandKind = "FIND"
	CommandInsert    CommandKind = "INSERT"
	CommandUpdate    CommandKind = "UPDATE"
	CommandDelete    CommandKind = "DELETE"
	CommandCount     CommandKind = "COUNT"
	CommandDistinct  CommandKind = "DISTINCT"
	CommandAggregate CommandKind = "AGGREGATE"
	CommandRaw       CommandKind = "RAW"
)

// OperationKey selects one execution handler.
type OperationKey struct {
	Entity  EntityKind  `json:"entity"`
	Command CommandKind `json:"command"`
}

func (k OperationKey) String() string {
	return string(k.Entity) + "_" + string(k.Command)
}

// TriggerKind selects one lookup handler.
type TriggerKind string

const (
	TriggerSpreadsheetSelector TriggerKind = "SPREADSHEET_SELECTOR"
	TriggerSheetSelector       TriggerKind = "SHEET_SELECTOR"
	TriggerColumnsSelector     TriggerKind = "COLUMNS_SELECTOR"
)

func (k TriggerKind) IsValid() bool {
	switch k {
	case TriggerSpreadsheetSelector, TriggerSheetSelector, TriggerColumnsSelector:
		return true
	}
	return false
}
