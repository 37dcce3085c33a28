package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/jobfiltr/internal/extract"
	"github.com/jonathan/jobfiltr/internal/schemas"
	"github.com/jonathan/jobfiltr/internal/types"
)

// postingSource describes where a command reads postings from.
type postingSource struct {
	files   []string // "-" reads stdin
	pageURL string   // URL of saved HTML pages, used to resolve links and detect the platform
	fetch   string   // public page to download instead of reading files
	stdin   io.Reader
}

func (src postingSource) load(ctx context.Context) ([]types.JobPosting, error) {
	if src.fetch != "" {
		if len(src.files) > 0 {
			return nil, fmt.Errorf("--url cannot be combined with input files")
		}
		return extract.Fetch(ctx, src.fetch, extract.DefaultFetchOptions())
	}
	if len(src.files) == 0 {
		return nil, fmt.Errorf("no input: pass JSON or HTML files, \"-\" for stdin, or --url")
	}

	var all []types.JobPosting
	for _, name := range src.files {
		jobs, err := src.loadOne(name)
		if err != nil {
			return nil, err
		}
		all = append(all, jobs...)
	}
	return all, nil
}

func (src postingSource) loadOne(name string) ([]types.JobPosting, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(src.stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if isJSON(name, data) {
		batch, err := schemas.ParsePostingBatch(data)
		if err != nil {
			return nil, fmt.Errorf("invalid posting batch %s: %w", name, err)
		}
		return batch.Postings, nil
	}

	jobs, err := extract.Postings(bytes.NewReader(data), src.pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract postings from %s: %w", name, err)
	}
	return jobs, nil
}

// isJSON goes by extension, and sniffs the first byte for stdin.
func isJSON(name string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return true
	case ".html", ".htm":
		return false
	}
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
