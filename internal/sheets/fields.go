// internal/sheets/fields.go
package sheets

const (
	FieldEntity                   = "entity"
	FieldCommand                  = "command"
	FieldSmartSubstitution        = "smartSubstitution"
	FieldSpreadsheetID            = "spreadsheetId"
	FieldSpreadsheetURL           = "spreadsheetUrl"
	FieldSpreadsheetName          = "spreadsheetName"
	FieldSheetTitle               = "sheetTitle"
	FieldRange                    = "range"
	FieldTableHeaderIndex         = "tableHeaderIndex"
	FieldRowIndex                 = "rowIndex"
	FieldRowOffset                = "rowOffset"
	FieldRowLimit                 = "rowLimit"
	FieldRowObject                = "rowObject"
	FieldRowObjects               = "rowObjects"
	FieldFirstRowIsHeader         = "firstRowIsHeader"
	FieldDestinationSpreadsheetID = "destinationSpreadsheetId"
)

// JSONFields lists the fields that carry JSON text and take part in smart substitution.
var JSONFields = []string{FieldRowObject, FieldRowObjects}

const (
	valueInputOption  = "USER_ENTERED"
	spreadsheetMIME   = "application/vnd.google-apps.spreadsheet"
	spreadsheetURLFmt = "https://docs.google.com/spreadsheets/d/%s/edit"
	lastColumn        = "ZZZ"
)
