// Package schemas holds the JSON Schemas for files jobfiltr reads: posting
// batches and community blocklist imports.
package schemas

import _ "embed"

// PostingBatch is the schema for a {"postings": [...]} batch file.
//
//go:embed posting_batch.schema.json
var PostingBatch string

// Blocklist is the schema for a blocklist import file (a JSON array of entries).
//
//go:embed blocklist.schema.json
var Blocklist string
