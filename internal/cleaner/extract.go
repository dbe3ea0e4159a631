// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cleaner

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// uploadsHrefRegex catches gallery anchors linking straight at an
	// uploaded image file.
	uploadsHrefRegex = regexp.MustCompile(`(?i)href="([^"]*uploads[^"]+\.(?:jpg|jpeg|png|gif|webp))"`)
	srcsetAttrRegex  = regexp.MustCompile(`(?i)srcset="([^"]+)"`)
)

// ExtractImageURLs scans cleaned HTML for image URLs: img src attributes,
// anchor hrefs pointing at uploaded images, and every candidate inside
// srcset attributes. Only syntactically valid absolute URLs are returned,
// emoji-sprite URLs are excluded, and the result is deduplicated in
// first-seen order.
func ExtractImageURLs(content string) []string {
	if content == "" {
		return nil
	}

	var urls []string
	seen := make(map[string]struct{})

	add := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.Contains(raw, emojiSpriteHost) {
			return
		}
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return
		}
		if _, dup := seen[raw]; dup {
			return
		}
		seen[raw] = struct{}{}
		urls = append(urls, raw)
	}

	for _, m := range imgSrcRegex.FindAllStringSubmatch(content, -1) {
		add(m[1])
	}
	for _, m := range uploadsHrefRegex.FindAllStringSubmatch(content, -1) {
		add(m[1])
	}
	for _, m := range srcsetAttrRegex.FindAllStringSubmatch(content, -1) {
		for _, part := range strings.Split(m[1], ",") {
			// Each srcset candidate is "URL descriptor"; keep the URL token.
			fields := strings.Fields(strings.TrimSpace(part))
			if len(fields) > 0 {
				add(fields[0])
			}
		}
	}

	return urls
}
