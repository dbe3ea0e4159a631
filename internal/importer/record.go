// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package importer

// PostRecord is the normalized form of one CSV row. It is built once by
// MapRow and consumed once by ImportPost; nothing mutates it in between.
type PostRecord struct {
	// OriginalID is the external provenance key. Empty when the export
	// carries no id column.
	OriginalID string

	// Title cleaned as plain text. A record with an empty title is a
	// signal to the caller to skip the row; it is not an error.
	Title string

	Content string // cleaned HTML
	Excerpt string // cleaned plain text
	Date    string // ISO-like source date, empty when absent

	PostType string
	Status   string
	Slug     string

	Categories []string
	Tags       []string

	AuthorUsername   string
	FeaturedImageURL string

	// ContentImageURLs are the image URLs referenced by Content,
	// deduplicated in first-seen order.
	ContentImageURLs []string
}
