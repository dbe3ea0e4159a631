// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cleaner

import (
	"regexp"
	"strings"
)

// blockTransform rewrites the payload of one content block.
type blockTransform func(content string) string

// blockTransforms dispatches on the block type name. Types without an entry
// keep their payload and lose the enclosing markers.
var blockTransforms = map[string]blockTransform{
	"paragraph": cleanParagraphBlock,
	"heading":   passthroughBlock,
	"list":      passthroughBlock,
	"image":     transformImageBlock,
	"gallery":   transformGalleryBlock,
}

var (
	// blockRegex matches a paired pair of block-boundary comment markers.
	// The opening marker may carry extra attributes (e.g. a JSON payload).
	blockRegex = regexp.MustCompile(`(?s)<!--\s*block:([a-zA-Z0-9_/-]+)(?:\s.*?)?-->(.*?)<!--\s*/block:([a-zA-Z0-9_/-]+)\s*-->`)

	emptyParagraphRegex = regexp.MustCompile(`^\s*<p[^>]*>\s*</p>\s*$`)
	imgTagRegex         = regexp.MustCompile(`(?i)<img[^>]+>`)
	imgSrcRegex         = regexp.MustCompile(`(?i)<img[^>]+src="([^"]+)"[^>]*>`)
	responsiveAttrRegex = regexp.MustCompile(`(?i)\s+(?:srcset|sizes|loading)="[^"]*"`)
)

// normalizeBlocks interprets paired block-boundary comment markers and
// replaces each region according to its type. Regions whose opening and
// closing type names disagree are left untouched.
func normalizeBlocks(content string) string {
	return blockRegex.ReplaceAllStringFunc(content, func(m string) string {
		sub := blockRegex.FindStringSubmatch(m)
		openType, body, closeType := sub[1], sub[2], sub[3]
		if openType != closeType {
			return m
		}
		if transform, ok := blockTransforms[openType]; ok {
			return transform(body)
		}
		return body
	})
}

func passthroughBlock(content string) string {
	return content
}

// cleanParagraphBlock drops blocks that hold only an empty paragraph.
func cleanParagraphBlock(content string) string {
	if emptyParagraphRegex.MatchString(content) {
		return ""
	}
	return content
}

// transformImageBlock keeps the first image element, strips responsive-hint
// attributes and re-wraps it in a minimal figure.
func transformImageBlock(content string) string {
	img := imgTagRegex.FindString(content)
	if img == "" {
		return content
	}
	img = responsiveAttrRegex.ReplaceAllString(img, "")
	return `<figure class="post-image">` + img + `</figure>`
}

// transformGalleryBlock collects every image source and emits a minimal
// gallery wrapping one figure per image, in source order. A gallery without
// images is dropped entirely.
func transformGalleryBlock(content string) string {
	matches := imgSrcRegex.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<div class="post-gallery">`)
	for _, m := range matches {
		b.WriteString(`<figure class="post-image"><img src="`)
		b.WriteString(m[1])
		b.WriteString(`" alt=""></figure>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}
