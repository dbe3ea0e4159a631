// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Supported MIME types for imported images
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypeSVG  = "image/svg+xml"
)

// Media represents a locally hosted file in the media library.
type Media struct {
	ID        int64         `json:"id"`
	UUID      string        `json:"uuid"`
	Filename  string        `json:"filename"`
	MimeType  string        `json:"mime_type"`
	Size      int64         `json:"size"`
	Width     sql.NullInt64 `json:"width,omitempty"`
	Height    sql.NullInt64 `json:"height,omitempty"`
	Title     string        `json:"title"`
	PostID    sql.NullInt64 `json:"post_id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
