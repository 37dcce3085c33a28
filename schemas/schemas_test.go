package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFiles_ValidJSONSchema(t *testing.T) {
	schemaFiles := map[string]string{
		"posting_batch.schema.json": PostingBatch,
		"blocklist.schema.json":     Blocklist,
	}

	for name, content := range schemaFiles {
		t.Run(name, func(t *testing.T) {
			require.NotEmpty(t, content, "schema should be embedded")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(content), &schemaObj), "schema file should be valid JSON")

			_, hasType := schemaObj["type"]
			_, hasSchema := schemaObj["$schema"]
			assert.True(t, hasType && hasSchema, "schema should declare $schema and type")
		})
	}
}
