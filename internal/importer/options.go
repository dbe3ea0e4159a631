// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package importer

// DefaultGalleryFieldKey is the attached-field key galleries are committed
// to when none is configured.
const DefaultGalleryFieldKey = "field_686ea8c997852"

// ImportOptions contains options for one import batch.
type ImportOptions struct {
	// ImportImages downloads featured and in-content images and rewrites
	// content URLs to the locally hosted copies.
	ImportImages bool

	// PreserveDates keeps the original publication dates from the CSV.
	PreserveDates bool

	// ForcePublish publishes every imported post regardless of the status
	// column.
	ForcePublish bool

	// UpdateExisting rewrites posts already imported from the same
	// original id instead of skipping them.
	UpdateExisting bool

	// GalleryFieldKey is the attached-field key the gallery media list is
	// committed to.
	GalleryFieldKey string
}

// DefaultImportOptions returns the option defaults used by the CLI and the
// HTTP API.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		ImportImages:    true,
		PreserveDates:   true,
		ForcePublish:    false,
		UpdateExisting:  false,
		GalleryFieldKey: DefaultGalleryFieldKey,
	}
}
