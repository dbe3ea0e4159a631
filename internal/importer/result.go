// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package importer

import "fmt"

// ImportResult accumulates the outcome of one batch. Operators must be able
// to tell "nothing wrong, just duplicate" (Skipped) from "something failed"
// (Errors), so the three outcome classes are reported separately.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
	PostIDs  []int64  `json:"post_ids"`
}

// AddError appends a formatted message to the error list.
func (r *ImportResult) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// HasErrors returns true if any row failed.
func (r *ImportResult) HasErrors() bool {
	return len(r.Errors) > 0
}
