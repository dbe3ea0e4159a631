// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blogport/internal/model"
)

// PostStore persists posts, post metadata and author lookups.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// CreatePost inserts a new post and returns its id.
func (s *PostStore) CreatePost(ctx context.Context, post *model.Post) (int64, error) {
	now := time.Now()
	createdAt := post.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	createdAtUTC := post.CreatedAtUTC
	if createdAtUTC.IsZero() {
		createdAtUTC = createdAt.UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (title, slug, content, excerpt, status, post_type, author_id, created_at, created_at_utc, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.Title, post.Slug, post.Content, post.Excerpt, post.Status, post.PostType,
		post.AuthorID, createdAt, createdAtUTC, now,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading post id: %w", err)
	}
	return id, nil
}

// UpdatePost rewrites the re-importable fields of an existing post.
func (s *PostStore) UpdatePost(ctx context.Context, id int64, upd model.PostUpdate) error {
	now := time.Now()

	var err error
	if upd.Status != "" {
		_, err = s.db.ExecContext(ctx, `
			UPDATE posts SET title = ?, content = ?, excerpt = ?, status = ?, updated_at = ? WHERE id = ?`,
			upd.Title, upd.Content, upd.Excerpt, upd.Status, now, id)
	} else {
		_, err = s.db.ExecContext(ctx, `
			UPDATE posts SET title = ?, content = ?, excerpt = ?, updated_at = ? WHERE id = ?`,
			upd.Title, upd.Content, upd.Excerpt, now, id)
	}
	if err != nil {
		return fmt.Errorf("updating post %d: %w", id, err)
	}
	return nil
}

// UpdatePostContent replaces only the stored content of a post.
func (s *PostStore) UpdatePostContent(ctx context.Context, id int64, content string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE posts SET content = ?, updated_at = ? WHERE id = ?`,
		content, time.Now(), id)
	if err != nil {
		return fmt.Errorf("updating post %d content: %w", id, err)
	}
	return nil
}

// GetPostByID returns a single post.
func (s *PostStore) GetPostByID(ctx context.Context, id int64) (*model.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, slug, content, excerpt, status, post_type, author_id, featured_media_id, created_at, created_at_utc, updated_at
		FROM posts WHERE id = ?`, id)

	var p model.Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Status, &p.PostType,
		&p.AuthorID, &p.FeaturedMediaID, &p.CreatedAt, &p.CreatedAtUTC, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting post %d: %w", id, err)
	}
	return &p, nil
}

// FindPostByMeta returns the id of the post carrying the given metadata
// key/value pair. The boolean reports whether such a post exists.
func (s *PostStore) FindPostByMeta(ctx context.Context, key, value string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT post_id FROM post_meta WHERE meta_key = ? AND meta_value = ? LIMIT 1`,
		key, value).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("looking up post by meta %q: %w", key, err)
	}
	return id, true, nil
}

// SetFeaturedImage attaches a media item as the post's featured image.
func (s *PostStore) SetFeaturedImage(ctx context.Context, postID, mediaID int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE posts SET featured_media_id = ?, updated_at = ? WHERE id = ?`,
		mediaID, time.Now(), postID)
	if err != nil {
		return fmt.Errorf("setting featured image on post %d: %w", postID, err)
	}
	return nil
}

// SetPostMeta stores a metadata value on a post, replacing any previous value
// for the same key.
func (s *PostStore) SetPostMeta(ctx context.Context, postID int64, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO post_meta (post_id, meta_key, meta_value) VALUES (?, ?, ?)
		ON CONFLICT (post_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value`,
		postID, key, value)
	if err != nil {
		return fmt.Errorf("setting meta %q on post %d: %w", key, postID, err)
	}
	return nil
}

// GetPostMeta reads a metadata value from a post. Missing keys return an
// empty string.
func (s *PostStore) GetPostMeta(ctx context.Context, postID int64, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT meta_value FROM post_meta WHERE post_id = ? AND meta_key = ?`,
		postID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting meta %q on post %d: %w", key, postID, err)
	}
	return value, nil
}

// ResolveAuthor returns the id of the user with the given username. The
// boolean reports whether the user exists.
func (s *PostStore) ResolveAuthor(ctx context.Context, username string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = ?`, username).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("resolving author %q: %w", username, err)
	}
	return id, true, nil
}

// CreateUser inserts an author account. Used by seeding and tests.
func (s *PostStore) CreateUser(ctx context.Context, username, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, name) VALUES (?, ?)`, username, name)
	if err != nil {
		return 0, fmt.Errorf("creating user %q: %w", username, err)
	}
	return res.LastInsertId()
}

// ListImported returns posts that carry provenance metadata, newest first.
func (s *PostStore) ListImported(ctx context.Context, limit int) ([]model.ImportedPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, m.meta_value, p.title, p.status, p.created_at
		FROM posts p
		JOIN post_meta m ON m.post_id = p.id AND m.meta_key = ?
		ORDER BY p.created_at DESC
		LIMIT ?`, model.MetaOriginalID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing imported posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var posts []model.ImportedPost
	for rows.Next() {
		var p model.ImportedPost
		if err := rows.Scan(&p.ID, &p.OriginalID, &p.Title, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning imported post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating imported posts: %w", err)
	}
	return posts, nil
}
