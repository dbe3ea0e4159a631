// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package importer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"blogport/internal/model"
)

// dateLayouts are tried in order when parsing source dates.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// Importer orchestrates post creation: idempotency checks, taxonomy
// assignment, image import, content URL rewriting and provenance metadata.
// It carries the per-run image cache, so use one Importer per batch.
type Importer struct {
	posts  PostStore
	terms  TaxonomyStore
	media  MediaStore
	fields FieldStore // nil when no attached-fields store is available
	images *ImageImporter
	logger *slog.Logger
}

// NewImporter creates an Importer for a single import run.
func NewImporter(posts PostStore, terms TaxonomyStore, media MediaStore, fields FieldStore, logger *slog.Logger) *Importer {
	return &Importer{
		posts:  posts,
		terms:  terms,
		media:  media,
		fields: fields,
		images: NewImageImporter(media, logger),
		logger: logger,
	}
}

// Images exposes the run's image importer, mainly for tests.
func (im *Importer) Images() *ImageImporter {
	return im.images
}

// ImportPost imports one mapped record. The returned boolean reports
// whether the post was created or updated; a duplicate skipped because
// UpdateExisting is off returns the existing id and false. An error is
// fatal for this record only — the batch driver logs it and moves on.
func (im *Importer) ImportPost(ctx context.Context, rec *PostRecord, opts ImportOptions) (int64, bool, error) {
	// Idempotency: at most one post per original id.
	if rec.OriginalID != "" {
		id, found, err := im.posts.FindPostByMeta(ctx, model.MetaOriginalID, rec.OriginalID)
		if err != nil {
			return 0, false, fmt.Errorf("looking up original id %q: %w", rec.OriginalID, err)
		}
		if found {
			if !opts.UpdateExisting {
				im.logger.Info("post already imported, skipping",
					"original_id", rec.OriginalID, "post_id", id)
				return id, false, nil
			}

			upd := model.PostUpdate{Title: rec.Title, Content: rec.Content, Excerpt: rec.Excerpt}
			if opts.ForcePublish {
				upd.Status = model.StatusPublish
			}
			if err := im.posts.UpdatePost(ctx, id, upd); err != nil {
				return 0, false, fmt.Errorf("updating post %d: %w", id, err)
			}
			return id, true, nil
		}
	}

	post, err := im.buildPost(ctx, rec, opts)
	if err != nil {
		return 0, false, err
	}

	postID, err := im.posts.CreatePost(ctx, post)
	if err != nil {
		return 0, false, fmt.Errorf("creating post %q: %w", post.Title, err)
	}

	if err := im.assignTaxonomy(ctx, postID, rec); err != nil {
		return 0, false, err
	}

	featuredID := im.importFeaturedImage(ctx, postID, rec, opts)
	im.importContentImages(ctx, postID, rec, opts, featuredID)

	if rec.OriginalID != "" {
		if err := im.posts.SetPostMeta(ctx, postID, model.MetaOriginalID, rec.OriginalID); err != nil {
			return 0, false, fmt.Errorf("recording provenance for post %d: %w", postID, err)
		}
	}

	return postID, true, nil
}

// buildPost assembles the creation request from a record and the batch
// options.
func (im *Importer) buildPost(ctx context.Context, rec *PostRecord, opts ImportOptions) (*model.Post, error) {
	title := rec.Title
	if title == "" {
		// The driver skips empty titles before import; this guards any
		// other path into this stage.
		title = "Imported post " + time.Now().Format("2006-01-02 15:04:05")
	}

	status := model.NormalizeStatus(rec.Status)
	if opts.ForcePublish {
		status = model.StatusPublish
	}

	postType := rec.PostType
	if postType == "" {
		postType = model.DefaultPostType
	}

	post := &model.Post{
		Title:    title,
		Slug:     rec.Slug,
		Content:  rec.Content,
		Excerpt:  rec.Excerpt,
		Status:   status,
		PostType: postType,
	}

	if opts.PreserveDates && rec.Date != "" {
		if t, ok := parseDate(rec.Date); ok {
			post.CreatedAt = t
			post.CreatedAtUTC = t.UTC()
		} else {
			im.logger.Warn("unparseable source date", "date", rec.Date, "title", title)
		}
	}

	if rec.AuthorUsername != "" {
		authorID, found, err := im.posts.ResolveAuthor(ctx, rec.AuthorUsername)
		if err != nil {
			return nil, fmt.Errorf("resolving author %q: %w", rec.AuthorUsername, err)
		}
		if found {
			post.AuthorID = sql.NullInt64{Int64: authorID, Valid: true}
		}
		// Unknown usernames keep default authorship.
	}

	return post, nil
}

// assignTaxonomy resolves categories and tags with lookup-or-create
// semantics and links them to the post.
func (im *Importer) assignTaxonomy(ctx context.Context, postID int64, rec *PostRecord) error {
	if len(rec.Categories) > 0 {
		var ids []int64
		for _, name := range rec.Categories {
			id, err := im.terms.FindOrCreateTerm(ctx, name, model.TaxonomyCategory)
			if err != nil {
				return fmt.Errorf("resolving category %q: %w", name, err)
			}
			ids = append(ids, id)
		}
		if err := im.terms.AssignTerms(ctx, postID, ids); err != nil {
			return fmt.Errorf("assigning categories to post %d: %w", postID, err)
		}
	}

	if len(rec.Tags) > 0 {
		if err := im.terms.AssignTags(ctx, postID, rec.Tags); err != nil {
			return fmt.Errorf("assigning tags to post %d: %w", postID, err)
		}
	}

	return nil
}

// importFeaturedImage imports the featured image, if any, and attaches it
// to the post. Failures are recoverable: the post simply keeps no featured
// image.
func (im *Importer) importFeaturedImage(ctx context.Context, postID int64, rec *PostRecord, opts ImportOptions) int64 {
	if !opts.ImportImages || rec.FeaturedImageURL == "" {
		return 0
	}

	id, ok := im.images.Import(ctx, rec.FeaturedImageURL, postID, rec.Title+" - featured image")
	if !ok {
		return 0
	}

	if err := im.posts.SetFeaturedImage(ctx, postID, id); err != nil {
		im.logger.Warn("setting featured image failed", "post_id", postID, "error", err)
	}
	return id
}

// importContentImages imports every content image, rewrites its URL in the
// stored content and commits the collected gallery. A content URL equal to
// the featured image reuses its media id; the rewrite still happens.
func (im *Importer) importContentImages(ctx context.Context, postID int64, rec *PostRecord, opts ImportOptions, featuredID int64) {
	if !opts.ImportImages || len(rec.ContentImageURLs) == 0 {
		return
	}

	content := rec.Content
	var gallery []int64

	for _, imgURL := range rec.ContentImageURLs {
		id := featuredID
		if imgURL != rec.FeaturedImageURL || id == 0 {
			var ok bool
			id, ok = im.images.Import(ctx, imgURL, postID, rec.Title+" - content image")
			if !ok {
				continue
			}
		}
		gallery = append(gallery, id)

		newURL, err := im.media.ResolveURL(ctx, id)
		if err != nil {
			im.logger.Warn("resolving media url failed", "media_id", id, "error", err)
			continue
		}
		content = strings.ReplaceAll(content, imgURL, newURL)
	}

	if content != rec.Content {
		if err := im.posts.UpdatePostContent(ctx, postID, content); err != nil {
			im.logger.Warn("persisting rewritten content failed", "post_id", postID, "error", err)
		}
	}

	if len(gallery) > 0 {
		im.commitGallery(ctx, postID, gallery, opts.GalleryFieldKey)
	}
}

// commitGallery writes the gallery media list to the attached-fields store,
// falling back to plain post metadata when that store is unavailable or
// declines the field.
func (im *Importer) commitGallery(ctx context.Context, postID int64, mediaIDs []int64, fieldKey string) {
	if fieldKey == "" {
		fieldKey = DefaultGalleryFieldKey
	}

	if im.fields != nil {
		ok, err := im.fields.SetField(ctx, fieldKey, postID, mediaIDs)
		if err != nil {
			im.logger.Warn("gallery field commit failed, falling back to meta",
				"post_id", postID, "error", err)
		} else if ok {
			return
		}
	}

	encoded, err := json.Marshal(mediaIDs)
	if err == nil {
		if err := im.posts.SetPostMeta(ctx, postID, model.MetaGalleryIDs, string(encoded)); err != nil {
			im.logger.Warn("storing gallery meta failed", "post_id", postID, "error", err)
		}
	}

	parts := make([]string, len(mediaIDs))
	for i, id := range mediaIDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	if err := im.posts.SetPostMeta(ctx, postID, model.MetaGalleryList, strings.Join(parts, ",")); err != nil {
		im.logger.Warn("storing gallery list meta failed", "post_id", postID, "error", err)
	}
}

// parseDate tries the known source date layouts.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
