// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Taxonomy kinds
const (
	TaxonomyCategory = "category"
	TaxonomyTag      = "post_tag"
)

// Term represents a category or tag a post can be assigned to.
type Term struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Taxonomy  string    `json:"taxonomy"`
	CreatedAt time.Time `json:"created_at"`
}
