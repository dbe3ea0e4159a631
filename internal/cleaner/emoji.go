// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cleaner

import (
	"regexp"
	"strings"
)

// emojiSpriteHost identifies the external emoji-sprite CDN whose images are
// substituted with literal emoji characters.
const emojiSpriteHost = "static.xx.fbcdn.net/images/emoji"

var (
	emojiImgRegex  = regexp.MustCompile(`(?i)<img[^>]*src="https://static\.xx\.fbcdn\.net/images/emoji[^"]*"[^>]*>`)
	emojiCodeRegex = regexp.MustCompile(`(?i)/([a-f0-9]+)\.png`)
)

// emojiByCode maps the hexadecimal code embedded in a sprite filename to the
// emoji it renders.
var emojiByCode = map[string]string{
	"1f9d2": "🧒",
	"1f467": "👧",
	"1f94e": "🥎",
	"1f4d8": "📘",
	"1f3b7": "🎷",
	"2728":  "✨",
	"1f331": "🌱",
	"1f4da": "📚",
	"1f680": "🚀",
}

// fallbackEmoji replaces sprite images whose code is not in the table.
const fallbackEmoji = "😊"

// replaceEmojiImages substitutes emoji-sprite images with their literal
// emoji characters.
func replaceEmojiImages(content string) string {
	return emojiImgRegex.ReplaceAllStringFunc(content, func(m string) string {
		if sub := emojiCodeRegex.FindStringSubmatch(m); sub != nil {
			if emoji, ok := emojiByCode[strings.ToLower(sub[1])]; ok {
				return emoji
			}
		}
		return fallbackEmoji
	})
}
