// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cleaner turns raw page-builder HTML exported by a CMS into clean,
// portable HTML. All functions are pure and never fail: malformed markup
// yields best-effort output instead of an error.
package cleaner

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// builderToken marks page-builder markup in classes and attributes.
const builderToken = "elementor"

// textPolicy strips every tag; safe for concurrent use.
var textPolicy = bluemonday.StrictPolicy()

// builderPatterns match whole builder-generated elements to be removed.
// All are non-greedy, case-insensitive and span newlines.
var builderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<a[^>]*data-elementor[^>]*>.*?</a>`),
	regexp.MustCompile(`(?is)<a[^>]*e-action-hash[^>]*>.*?</a>`),
	regexp.MustCompile(`(?is)<style[^>]*>.*?` + builderToken + `.*?</style>`),
	regexp.MustCompile(`(?is)<img[^>]*class="[^"]*` + builderToken + `[^"]*"[^>]*>`),
	regexp.MustCompile(`(?is)<div[^>]*` + builderToken + `[^>]*>.*?</div>`),
	regexp.MustCompile(`(?is)<section[^>]*` + builderToken + `[^>]*>.*?</section>`),
}

var (
	styleAttrRegex    = regexp.MustCompile(`(?i)\sstyle="[^"]*"`)
	dataAttrRegex     = regexp.MustCompile(`(?i)\sdata-[a-z0-9-]+="[^"]*"`)
	builderClassRegex = regexp.MustCompile(`(?i)\sclass="[^"]*` + builderToken + `[^"]*"`)

	blankLineRuns  = regexp.MustCompile(`\n\s*\n\s*\n`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// CleanText decodes HTML entities and strips all tags from raw text.
// Empty input yields empty output.
func CleanText(raw string) string {
	if raw == "" {
		return ""
	}
	s := textPolicy.Sanitize(raw)
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

// CleanContent runs the full cleaning pipeline over raw builder HTML.
// The stages are order-significant: builder markup must go before block
// normalization, and whitespace collapsing always runs last.
func CleanContent(raw string) string {
	if raw == "" {
		return ""
	}

	// Doubled quotes are an artifact of the CSV export's escaping.
	content := strings.ReplaceAll(raw, `""`, `"`)

	content = removeBuilderMarkup(content)
	content = normalizeBlocks(content)
	content = sanitizeHTML(content)
	content = stripInlineAttributes(content)
	content = replaceEmojiImages(content)
	content = normalizeWhitespace(content)

	return content
}

// removeBuilderMarkup strips elements carrying page-builder markers.
func removeBuilderMarkup(content string) string {
	for _, re := range builderPatterns {
		content = re.ReplaceAllString(content, "")
	}
	return content
}

// sanitizeHTML parses the content leniently, removes script, style and link
// elements, and serializes the document body back to HTML. Any parse or
// render failure returns the input unchanged.
func sanitizeHTML(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}

	doc.Find("script, style, link").Remove()

	out, err := doc.Find("body").Html()
	if err != nil {
		return content
	}

	// The serializer escapes quotes in text nodes; cleaned output must
	// carry them literally, as earlier stages left them.
	out = strings.ReplaceAll(out, "&#34;", `"`)
	out = strings.ReplaceAll(out, "&#39;", "'")
	return out
}

// stripInlineAttributes removes style attributes, data-* attributes and
// class attributes that still contain the builder marker.
func stripInlineAttributes(content string) string {
	content = styleAttrRegex.ReplaceAllString(content, "")
	content = dataAttrRegex.ReplaceAllString(content, "")
	content = builderClassRegex.ReplaceAllString(content, "")
	return content
}

// normalizeWhitespace collapses blank-line runs and whitespace runs, then
// restores a newline between adjacent paragraphs for readability.
// Idempotent: re-applying it to its own output changes nothing.
func normalizeWhitespace(content string) string {
	content = blankLineRuns.ReplaceAllString(content, "\n\n")
	content = whitespaceRuns.ReplaceAllString(content, " ")
	content = strings.TrimSpace(content)
	content = strings.ReplaceAll(content, "</p> <p", "</p>\n<p")
	return content
}
