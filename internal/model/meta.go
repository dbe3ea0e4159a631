// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Provenance and fallback metadata keys. These are the contract that makes
// repeated imports of the same source idempotent.
const (
	// MetaOriginalID links a post back to the external source row it was
	// created from. At most one post exists per original id.
	MetaOriginalID = "_original_import_id"

	// MetaOriginalURL records the remote URL a media item was fetched
	// from. At most one media item exists per distinct URL.
	MetaOriginalURL = "_original_url"

	// MetaGalleryIDs and MetaGalleryList hold the gallery media ids when
	// no attached-fields store is available: a JSON array and a plain
	// comma-joined string, for compatibility with either retrieval style.
	MetaGalleryIDs  = "_gallery_media_ids"
	MetaGalleryList = "_gallery_media_list"
)

// PostUpdate carries the fields rewritten when an existing post is
// re-imported. An empty Status leaves the stored status unchanged.
type PostUpdate struct {
	Title   string
	Content string
	Excerpt string
	Status  string
}

// ImportedPost is a listing row for posts that carry provenance metadata.
type ImportedPost struct {
	ID         int64     `json:"id"`
	OriginalID string    `json:"original_id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
