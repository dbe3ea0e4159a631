// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	_ "golang.org/x/image/webp" // WebP decoder

	"blogport/internal/model"
)

// MediaStore persists media files on disk and their records in the database.
type MediaStore struct {
	db        *sql.DB
	uploadDir string
}

// DefaultUploadDir is where media files land when no directory is configured.
const DefaultUploadDir = "./uploads"

// NewMediaStore creates a new MediaStore writing files under uploadDir.
func NewMediaStore(db *sql.DB, uploadDir string) *MediaStore {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &MediaStore{db: db, uploadDir: uploadDir}
}

// Ingest stores the file bytes under a fresh UUID directory and records the
// media item. Image dimensions are decoded best-effort; files that cannot be
// decoded (e.g. SVG) are stored without dimensions.
func (s *MediaStore) Ingest(ctx context.Context, data []byte, filename, title string, postID int64) (int64, error) {
	if filename == "" {
		return 0, errors.New("media filename is empty")
	}
	filename = filepath.Base(filename)

	fileUUID := uuid.New().String()
	dir := filepath.Join(s.uploadDir, "originals", fileUUID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("creating media directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("writing media file: %w", err)
	}

	var width, height sql.NullInt64
	if img, err := imaging.Decode(bytes.NewReader(data)); err == nil {
		bounds := img.Bounds()
		width = sql.NullInt64{Int64: int64(bounds.Dx()), Valid: true}
		height = sql.NullInt64{Int64: int64(bounds.Dy()), Valid: true}
	}

	var owner sql.NullInt64
	if postID > 0 {
		owner = sql.NullInt64{Int64: postID, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO media (uuid, filename, mime_type, size, width, height, title, post_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fileUUID, filename, mimeTypeForFilename(filename), int64(len(data)),
		width, height, title, owner, time.Now(),
	)
	if err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("inserting media record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading media id: %w", err)
	}
	return id, nil
}

// FindByOriginalURL returns the media item previously ingested from the
// given remote URL. The boolean reports whether such an item exists.
func (s *MediaStore) FindByOriginalURL(ctx context.Context, rawurl string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT media_id FROM media_meta WHERE meta_key = ? AND meta_value = ? LIMIT 1`,
		model.MetaOriginalURL, rawurl).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("looking up media by url: %w", err)
	}
	return id, true, nil
}

// ResolveURL returns the locally hosted URL path of a media item.
func (s *MediaStore) ResolveURL(ctx context.Context, mediaID int64) (string, error) {
	var fileUUID, filename string
	err := s.db.QueryRowContext(ctx,
		`SELECT uuid, filename FROM media WHERE id = ?`, mediaID).Scan(&fileUUID, &filename)
	if err != nil {
		return "", fmt.Errorf("resolving media %d: %w", mediaID, err)
	}
	return fmt.Sprintf("/uploads/originals/%s/%s", fileUUID, filename), nil
}

// SetMediaMeta stores a metadata value on a media item, replacing any
// previous value for the same key.
func (s *MediaStore) SetMediaMeta(ctx context.Context, mediaID int64, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO media_meta (media_id, meta_key, meta_value) VALUES (?, ?, ?)
		ON CONFLICT (media_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value`,
		mediaID, key, value)
	if err != nil {
		return fmt.Errorf("setting meta %q on media %d: %w", key, mediaID, err)
	}
	return nil
}

// GetMediaByID returns a single media record.
func (s *MediaStore) GetMediaByID(ctx context.Context, mediaID int64) (*model.Media, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, uuid, filename, mime_type, size, width, height, title, post_id, created_at
		FROM media WHERE id = ?`, mediaID)

	var m model.Media
	err := row.Scan(&m.ID, &m.UUID, &m.Filename, &m.MimeType, &m.Size,
		&m.Width, &m.Height, &m.Title, &m.PostID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting media %d: %w", mediaID, err)
	}
	return &m, nil
}

// mimeTypeForFilename maps a filename extension to a MIME type.
func mimeTypeForFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return model.MimeTypeJPEG
	case ".png":
		return model.MimeTypePNG
	case ".gif":
		return model.MimeTypeGIF
	case ".webp":
		return model.MimeTypeWebP
	case ".svg":
		return model.MimeTypeSVG
	}
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}
