// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package importer

import (
	"regexp"
	"strings"

	"blogport/internal/cleaner"
	"blogport/internal/model"
	"blogport/internal/util"
)

// termSeparator splits category/tag cells on | or ,.
var termSeparator = regexp.MustCompile(`[|,]`)

// MapRow turns one CSV row into a normalized PostRecord. Columns are
// resolved by header name, case-insensitively; headers must already be
// normalized (trimmed, lowercased, BOM-stripped). Unrecognized headers are
// ignored, and rows shorter than the header list simply leave the trailing
// fields absent.
func MapRow(headers, cells []string) *PostRecord {
	rec := &PostRecord{PostType: model.DefaultPostType}

	// Tracks whether an explicit featured column has claimed the featured
	// image, so ambiguous bare "url" columns cannot override it.
	featuredSet := false

	for i, header := range headers {
		if i >= len(cells) {
			break
		}
		value := cells[i]

		switch header {
		case "id":
			rec.OriginalID = strings.TrimSpace(value)
		case "title":
			rec.Title = cleaner.CleanText(value)
		case "content":
			rec.Content = cleaner.CleanContent(value)
		case "excerpt":
			rec.Excerpt = cleaner.CleanText(value)
		case "date":
			rec.Date = strings.TrimSpace(value)
		case "post type":
			if v := strings.TrimSpace(value); v != "" {
				rec.PostType = v
			}
		case "status":
			rec.Status = strings.TrimSpace(value)
		case "slug":
			rec.Slug = util.Slugify(value)
		case "categorías", "categories":
			rec.Categories = parseTerms(value)
		case "etiquetas", "tags":
			rec.Tags = parseTerms(value)
		case "author username":
			rec.AuthorUsername = strings.TrimSpace(value)
		case "url":
			// Ambiguous column: only honor it when no featured column
			// has set a value. First match wins.
			if !featuredSet && rec.FeaturedImageURL == "" {
				rec.FeaturedImageURL = strings.TrimSpace(value)
			}
		default:
			if strings.Contains(header, "featured") {
				rec.FeaturedImageURL = strings.TrimSpace(value)
				featuredSet = true
			}
		}
	}

	rec.ContentImageURLs = cleaner.ExtractImageURLs(rec.Content)

	return rec
}

// parseTerms splits a raw categories/tags cell into trimmed, non-empty
// names, preserving order. Duplicates are kept; the taxonomy store resolves
// them to one term anyway.
func parseTerms(raw string) []string {
	if raw == "" {
		return nil
	}

	var terms []string
	for _, part := range termSeparator.Split(raw, -1) {
		if t := strings.TrimSpace(part); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
