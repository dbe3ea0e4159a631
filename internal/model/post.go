// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types shared by the stores and the
// import pipeline.
package model

import (
	"database/sql"
	"time"
)

// Post statuses
const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
	StatusPending = "pending"
	StatusPrivate = "private"
)

// DefaultPostType is used when a CSV row carries no explicit post type.
const DefaultPostType = "post"

// ValidStatus reports whether s is one of the recognized post statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPublish, StatusDraft, StatusPending, StatusPrivate:
		return true
	}
	return false
}

// NormalizeStatus returns s if it is a recognized status, otherwise the
// draft default.
func NormalizeStatus(s string) string {
	if ValidStatus(s) {
		return s
	}
	return StatusDraft
}

// Post represents an imported blog post.
type Post struct {
	ID              int64         `json:"id"`
	Title           string        `json:"title"`
	Slug            string        `json:"slug"`
	Content         string        `json:"content"`
	Excerpt         string        `json:"excerpt"`
	Status          string        `json:"status"`
	PostType        string        `json:"post_type"`
	AuthorID        sql.NullInt64 `json:"author_id,omitempty"`
	FeaturedMediaID sql.NullInt64 `json:"featured_media_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	CreatedAtUTC    time.Time     `json:"created_at_utc"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// IsPublished returns true if the post is publicly visible.
func (p *Post) IsPublished() bool {
	return p.Status == StatusPublish
}

// User represents an author account posts can be attributed to.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}
