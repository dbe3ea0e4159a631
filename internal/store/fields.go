// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// FieldStore persists structured attached fields on posts, such as the
// gallery field written by the importer.
type FieldStore struct {
	db *sql.DB
}

// NewFieldStore creates a new FieldStore.
func NewFieldStore(db *sql.DB) *FieldStore {
	return &FieldStore{db: db}
}

// SetField stores a list of media ids under the given field key. The value
// is JSON-encoded so multi-value fields round-trip losslessly. The boolean
// reports whether the field was committed.
func (s *FieldStore) SetField(ctx context.Context, fieldKey string, postID int64, mediaIDs []int64) (bool, error) {
	if fieldKey == "" {
		return false, errors.New("field key is empty")
	}

	value, err := json.Marshal(mediaIDs)
	if err != nil {
		return false, fmt.Errorf("encoding field %q: %w", fieldKey, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO post_fields (post_id, field_key, field_value) VALUES (?, ?, ?)
		ON CONFLICT (post_id, field_key) DO UPDATE SET field_value = excluded.field_value`,
		postID, fieldKey, string(value))
	if err != nil {
		return false, fmt.Errorf("setting field %q on post %d: %w", fieldKey, postID, err)
	}
	return true, nil
}

// GetField reads the media id list stored under the given field key.
// Missing fields return an empty list.
func (s *FieldStore) GetField(ctx context.Context, fieldKey string, postID int64) ([]int64, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT field_value FROM post_fields WHERE post_id = ? AND field_key = ?`,
		postID, fieldKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting field %q on post %d: %w", fieldKey, postID, err)
	}

	var ids []int64
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		return nil, fmt.Errorf("decoding field %q: %w", fieldKey, err)
	}
	return ids, nil
}
