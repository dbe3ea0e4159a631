// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ProcessCSV reads a CSV export and imports every row through ImportPost.
// The first row is the header and drives column mapping; per-row failures
// are recorded in the result and never abort the batch. Only an unreadable
// or empty header is a batch-level error.
func (im *Importer) ProcessCSV(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv file is empty")
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	headers = normalizeHeaders(headers)
	if len(headers) == 0 {
		return nil, errors.New("csv file has no columns")
	}

	result := &ImportResult{}

	for rowNum := 2; ; rowNum++ {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.AddError("row %d: %v", rowNum, err)
			continue
		}

		if len(cells) != len(headers) {
			im.logger.Warn("row length differs from header",
				"row", rowNum, "cells", len(cells), "columns", len(headers))
		}

		rec := MapRow(headers, cells)
		if rec.Title == "" {
			im.logger.Info("skipping row without title", "row", rowNum, "original_id", rec.OriginalID)
			result.Skipped++
			continue
		}

		id, imported, err := im.ImportPost(ctx, rec, opts)
		if err != nil {
			result.AddError("row %d (%s): %v", rowNum, rec.Title, err)
			continue
		}
		if imported {
			result.Imported++
			result.PostIDs = append(result.PostIDs, id)
		} else {
			result.Skipped++
		}
	}

	im.logger.Info("csv import finished",
		"imported", result.Imported, "skipped", result.Skipped, "errors", len(result.Errors))

	return result, nil
}

// normalizeHeaders lowercases and trims header names and strips a UTF-8
// BOM from the first column, where spreadsheet exports tend to leave one.
func normalizeHeaders(headers []string) []string {
	out := make([]string, 0, len(headers))
	for i, h := range headers {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		out = append(out, strings.ToLower(strings.TrimSpace(h)))
	}
	return out
}
