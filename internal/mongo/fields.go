// internal/mongo/fields.go
package mongo

// form field names as emitted by the query builder
const (
	FieldCommand           = "command"
	FieldEntity            = "entity"
	FieldCollection        = "collection"
	FieldSmartSubstitution = "smartSubstitution"
	FieldBody              = "body"

	FieldFindQuery      = "find.query"
	FieldFindSort       = "find.sort"
	FieldFindProjection = "find.projection"
	FieldFindLimit      = "find.limit"
	FieldFindSkip       = "find.skip"

	FieldInsertDocuments = "insert.documents"

	FieldUpdateQuery     = "updateMany.query"
	FieldUpdateOperation = "updateMany.update"
	FieldUpdateLimit     = "updateMany.limit"

	FieldDeleteQuery = "delete.query"
	FieldDeleteLimit = "delete.limit"

	FieldCountQuery = "count.query"

	FieldDistinctQuery = "distinct.query"
	FieldDistinctKey   = "distinct.key"

	FieldAggregatePipelines = "aggregate.arrayPipelines"
	FieldAggregateLimit     = "aggregate.limit"
)

// JSONFields lists the fields that carry JSON text and take part in smart substitution.
var JSONFields = []string{
	FieldFindQuery,
	FieldFindSort,
	FieldFindProjection,
	FieldInsertDocuments,
	FieldUpdateQuery,
	FieldUpdateOperation,
	FieldDeleteQuery,
	FieldCountQuery,
	FieldDistinctQuery,
	FieldAggregatePipelines,
	FieldBody,
}

const (
	defaultFindLimit      = 10
	defaultAggregateLimit = 10
	limitAll              = "ALL"
	matchAll              = "{}"
)
