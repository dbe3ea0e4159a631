// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package importer converts CSV rows exported by a page-builder CMS into
// posts with clean HTML and locally hosted, de-duplicated images.
package importer

import (
	"context"

	"blogport/internal/model"
)

// PostStore persists posts, their metadata and author lookups.
type PostStore interface {
	CreatePost(ctx context.Context, post *model.Post) (int64, error)
	UpdatePost(ctx context.Context, id int64, upd model.PostUpdate) error
	UpdatePostContent(ctx context.Context, id int64, content string) error
	FindPostByMeta(ctx context.Context, key, value string) (int64, bool, error)
	SetFeaturedImage(ctx context.Context, postID, mediaID int64) error
	SetPostMeta(ctx context.Context, postID int64, key, value string) error
	ResolveAuthor(ctx context.Context, username string) (int64, bool, error)
}

// TaxonomyStore resolves and assigns categories and tags.
type TaxonomyStore interface {
	FindOrCreateTerm(ctx context.Context, name, taxonomy string) (int64, error)
	AssignTerms(ctx context.Context, postID int64, termIDs []int64) error
	AssignTags(ctx context.Context, postID int64, names []string) error
}

// MediaStore ingests fetched files and answers provenance lookups.
type MediaStore interface {
	Ingest(ctx context.Context, data []byte, filename, title string, postID int64) (int64, error)
	FindByOriginalURL(ctx context.Context, rawurl string) (int64, bool, error)
	ResolveURL(ctx context.Context, mediaID int64) (string, error)
	SetMediaMeta(ctx context.Context, mediaID int64, key, value string) error
}

// FieldStore commits structured attached fields such as the gallery field.
// It is an optional capability: an importer constructed without one falls
// back to plain post metadata.
type FieldStore interface {
	SetField(ctx context.Context, fieldKey string, postID int64, mediaIDs []int64) (bool, error)
}
