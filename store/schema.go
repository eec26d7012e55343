package store

import (
	"fmt"

	"github.com/kbukum/ingestd/docstore"
	"github.com/kbukum/ingestd/errors"
)

// Collection is the control-plane collection holding pipeline definitions.
const Collection = ".ingest-pipelines"

// Definition document attribute names.
const (
	fieldDescription = "description"
	fieldProcessors  = "processors"
	fieldOnFailure   = "on_failure"
)

// CollectionSpec returns the required schema for the control collection:
// one partition, one copy, no dynamic field inference, no match-all field,
// processors and on_failure stored as opaque non-indexed blobs, description
// as plain text.
func CollectionSpec() docstore.CollectionSpec {
	return docstore.CollectionSpec{
		Partitions:    1,
		Copies:        1,
		DynamicFields: false,
		MatchAll:      false,
		Fields: map[string]docstore.FieldSpec{
			fieldDescription: {Type: "text", Indexed: true},
			fieldProcessors:  {Type: "object", Indexed: false, Dynamic: true},
			fieldOnFailure:   {Type: "object", Indexed: false, Dynamic: true},
		},
	}
}

// VerifyCollectionSpec checks an existing control collection against the
// required schema. Any mismatch is fatal: it signals external corruption of
// the control-plane collection, and the store must refuse readiness rather
// than operate against it.
func VerifyCollectionSpec(spec docstore.CollectionSpec) error {
	if spec.Partitions != 1 {
		return errors.SchemaViolation(fmt.Sprintf("[partitions] setting is [%d] while [1] is expected", spec.Partitions))
	}
	if spec.Copies != 1 {
		return errors.SchemaViolation(fmt.Sprintf("[copies] setting is [%d] while [1] is expected", spec.Copies))
	}
	if spec.DynamicFields {
		return errors.SchemaViolation("[dynamic_fields] setting is [true] while [false] is expected")
	}
	if spec.MatchAll {
		return errors.SchemaViolation("[match_all] setting is [true] while [false] is expected")
	}
	for _, name := range []string{fieldProcessors, fieldOnFailure} {
		field, ok := spec.Fields[name]
		if !ok {
			return errors.SchemaViolation(fmt.Sprintf("[%s] field is missing from the schema", name))
		}
		if field.Type != "object" {
			return errors.SchemaViolation(fmt.Sprintf("[%s] field's type is [%s] while [object] is expected", name, field.Type))
		}
		if field.Indexed {
			return errors.SchemaViolation(fmt.Sprintf("[%s] field must not be indexed", name))
		}
		if !field.Dynamic {
			return errors.SchemaViolation(fmt.Sprintf("[%s] field must be dynamic", name))
		}
	}
	description, ok := spec.Fields[fieldDescription]
	if !ok {
		return errors.SchemaViolation("[description] field is missing from the schema")
	}
	if description.Type != "text" {
		return errors.SchemaViolation(fmt.Sprintf("[description] field's type is [%s] while [text] is expected", description.Type))
	}
	return nil
}
