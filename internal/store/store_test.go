// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogport/internal/model"
)

// onePixelPNG is a 1x1 transparent PNG for media ingestion tests.
const onePixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func TestPostStoreCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	posts := NewPostStore(db)
	ctx := context.Background()

	created := time.Date(2022, 6, 1, 12, 0, 0, 0, time.UTC)
	id, err := posts.CreatePost(ctx, &model.Post{
		Title:        "Hello",
		Slug:         "hello",
		Content:      "<p>body</p>",
		Status:       model.StatusPublish,
		PostType:     model.DefaultPostType,
		CreatedAt:    created,
		CreatedAtUTC: created,
	})
	require.NoError(t, err)

	got, err := posts.GetPostByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "hello", got.Slug)
	assert.Equal(t, model.StatusPublish, got.Status)
	assert.Equal(t, created, got.CreatedAt.UTC())
}

func TestPostStoreDefaultsCreatedAt(t *testing.T) {
	db := openTestDB(t)
	posts := NewPostStore(db)

	id, err := posts.CreatePost(context.Background(), &model.Post{Title: "Undated"})
	require.NoError(t, err)

	got, err := posts.GetPostByID(context.Background(), id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
}

func TestPostStoreUpdate(t *testing.T) {
	db := openTestDB(t)
	posts := NewPostStore(db)
	ctx := context.Background()

	id, err := posts.CreatePost(ctx, &model.Post{Title: "Before", Status: model.StatusDraft})
	require.NoError(t, err)

	// Status stays untouched when the update leaves it empty.
	err = posts.UpdatePost(ctx, id, model.PostUpdate{Title: "After", Content: "<p>new</p>"})
	require.NoError(t, err)

	got, err := posts.GetPostByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, "<p>new</p>", got.Content)
	assert.Equal(t, model.StatusDraft, got.Status)

	err = posts.UpdatePost(ctx, id, model.PostUpdate{Title: "After", Status: model.StatusPublish})
	require.NoError(t, err)

	got, err = posts.GetPostByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublish, got.Status)
}

func TestPostStoreMetaAndProvenance(t *testing.T) {
	db := openTestDB(t)
	posts := NewPostStore(db)
	ctx := context.Background()

	id, err := posts.CreatePost(ctx, &model.Post{Title: "Imported"})
	require.NoError(t, err)

	require.NoError(t, posts.SetPostMeta(ctx, id, model.MetaOriginalID, "451"))

	found, ok, err := posts.FindPostByMeta(ctx, model.MetaOriginalID, "451")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, found)

	_, ok, err = posts.FindPostByMeta(ctx, model.MetaOriginalID, "999")
	require.NoError(t, err)
	assert.False(t, ok)

	// Upsert replaces the previous value.
	require.NoError(t, posts.SetPostMeta(ctx, id, model.MetaOriginalID, "452"))
	v, err := posts.GetPostMeta(ctx, id, model.MetaOriginalID)
	require.NoError(t, err)
	assert.Equal(t, "452", v)

	// Missing keys read as empty.
	v, err = posts.GetPostMeta(ctx, id, "no_such_key")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestPostStoreResolveAuthor(t *testing.T) {
	db := openTestDB(t)
	posts := NewPostStore(db)
	ctx := context.Background()

	userID, err := posts.CreateUser(ctx, "maria", "María G.")
	require.NoError(t, err)

	id, ok, err := posts.ResolveAuthor(ctx, "maria")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, userID, id)

	_, ok, err = posts.ResolveAuthor(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostStoreListImported(t *testing.T) {
	db := openTestDB(t)
	posts := NewPostStore(db)
	ctx := context.Background()

	for _, orig := range []string{"1", "2"} {
		id, err := posts.CreatePost(ctx, &model.Post{Title: "Post " + orig})
		require.NoError(t, err)
		require.NoError(t, posts.SetPostMeta(ctx, id, model.MetaOriginalID, orig))
	}
	// A post without provenance meta stays out of the listing.
	_, err := posts.CreatePost(ctx, &model.Post{Title: "Native"})
	require.NoError(t, err)

	imported, err := posts.ListImported(ctx, 10)
	require.NoError(t, err)
	require.Len(t, imported, 2)
	for _, p := range imported {
		assert.NotEmpty(t, p.OriginalID)
	}
}

func TestTermStoreFindOrCreateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	terms := NewTermStore(db)
	ctx := context.Background()

	first, err := terms.FindOrCreateTerm(ctx, "Educación Infantil", model.TaxonomyCategory)
	require.NoError(t, err)

	// Same slug, different spelling of the name.
	second, err := terms.FindOrCreateTerm(ctx, "educacion infantil", model.TaxonomyCategory)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Same name in another taxonomy is a distinct term.
	other, err := terms.FindOrCreateTerm(ctx, "Educación Infantil", model.TaxonomyTag)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestTermStoreRejectsEmptySlug(t *testing.T) {
	db := openTestDB(t)
	terms := NewTermStore(db)

	_, err := terms.FindOrCreateTerm(context.Background(), "???", model.TaxonomyCategory)
	assert.Error(t, err)
}

func TestTermStoreAssignTerms(t *testing.T) {
	db := openTestDB(t)
	posts := NewPostStore(db)
	terms := NewTermStore(db)
	ctx := context.Background()

	postID, err := posts.CreatePost(ctx, &model.Post{Title: "Categorized"})
	require.NoError(t, err)

	news, err := terms.FindOrCreateTerm(ctx, "News", model.TaxonomyCategory)
	require.NoError(t, err)

	require.NoError(t, terms.AssignTerms(ctx, postID, []int64{news}))
	// Re-assigning is a no-op, not an error.
	require.NoError(t, terms.AssignTerms(ctx, postID, []int64{news}))

	got, err := terms.TermsForPost(ctx, postID, model.TaxonomyCategory)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "News", got[0].Name)
	assert.Equal(t, "news", got[0].Slug)
}

func TestTermStoreAssignTags(t *testing.T) {
	db := openTestDB(t)
	posts := NewPostStore(db)
	terms := NewTermStore(db)
	ctx := context.Background()

	postID, err := posts.CreatePost(ctx, &model.Post{Title: "Tagged"})
	require.NoError(t, err)

	require.NoError(t, terms.AssignTags(ctx, postID, []string{"go", "web", "go"}))

	got, err := terms.TermsForPost(ctx, postID, model.TaxonomyTag)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMediaStoreIngest(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	media := NewMediaStore(db, dir)
	ctx := context.Background()

	data, err := base64.StdEncoding.DecodeString(onePixelPNG)
	require.NoError(t, err)

	id, err := media.Ingest(ctx, data, "pixel.png", "Pixel", 0)
	require.NoError(t, err)

	got, err := media.GetMediaByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "pixel.png", got.Filename)
	assert.Equal(t, model.MimeTypePNG, got.MimeType)
	assert.Equal(t, int64(len(data)), got.Size)
	require.True(t, got.Width.Valid)
	assert.Equal(t, int64(1), got.Width.Int64)

	// The file landed under its UUID directory.
	path := filepath.Join(dir, "originals", got.UUID, "pixel.png")
	_, err = os.Stat(path)
	assert.NoError(t, err)

	url, err := media.ResolveURL(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/originals/"+got.UUID+"/pixel.png", url)
}

func TestMediaStoreIngestUndecodableFile(t *testing.T) {
	db := openTestDB(t)
	media := NewMediaStore(db, t.TempDir())

	id, err := media.Ingest(context.Background(), []byte("<svg/>"), "logo.svg", "Logo", 0)
	require.NoError(t, err)

	got, err := media.GetMediaByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.MimeTypeSVG, got.MimeType)
	assert.False(t, got.Width.Valid)
}

func TestMediaStoreProvenance(t *testing.T) {
	db := openTestDB(t)
	media := NewMediaStore(db, t.TempDir())
	ctx := context.Background()

	id, err := media.Ingest(ctx, []byte("data"), "a.jpg", "A", 0)
	require.NoError(t, err)

	const src = "https://old.example.com/a.jpg"
	require.NoError(t, media.SetMediaMeta(ctx, id, model.MetaOriginalURL, src))

	found, ok, err := media.FindByOriginalURL(ctx, src)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, found)

	_, ok, err = media.FindByOriginalURL(ctx, "https://old.example.com/other.jpg")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFieldStoreSetAndGet(t *testing.T) {
	db := openTestDB(t)
	posts := NewPostStore(db)
	fields := NewFieldStore(db)
	ctx := context.Background()

	postID, err := posts.CreatePost(ctx, &model.Post{Title: "Gallery"})
	require.NoError(t, err)

	ok, err := fields.SetField(ctx, "field_686ea8c997852", postID, []int64{3, 5, 8})
	require.NoError(t, err)
	require.True(t, ok)

	got, err := fields.GetField(ctx, "field_686ea8c997852", postID)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 5, 8}, got)

	// Upsert replaces the previous list.
	ok, err = fields.SetField(ctx, "field_686ea8c997852", postID, []int64{9})
	require.NoError(t, err)
	require.True(t, ok)

	got, err = fields.GetField(ctx, "field_686ea8c997852", postID)
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, got)
}
