// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"blogport/internal/model"
)

// Image fetch configuration
const (
	fetchTimeout     = 30 * time.Second
	maxRedirects     = 5
	maxImageBytes    = 20 * 1024 * 1024 // 20MB
	defaultExtension = "jpg"
	fetchUserAgent   = "blogport/1.0"
)

// allowedExtensions is the file-type allow-list for imported images. Any
// other detected type is coerced to the default extension.
var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"svg":  true,
}

var mimeToExtension = map[string]string{
	model.MimeTypeJPEG: "jpg",
	"image/jpg":        "jpg",
	model.MimeTypePNG:  "png",
	model.MimeTypeGIF:  "gif",
	model.MimeTypeWebP: "webp",
	model.MimeTypeSVG:  "svg",
}

// ImageImporter downloads remote images and hands them to the media store,
// deduplicating by source URL. The processed map memoizes URL to media id
// within one run; the durable provenance lookup in the media store covers
// earlier runs. One instance serves exactly one batch and is not safe for
// concurrent use.
type ImageImporter struct {
	media     MediaStore
	client    *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
	processed map[string]int64
}

// NewImageImporter creates an ImageImporter for a single import run.
func NewImageImporter(media MediaStore, logger *slog.Logger) *ImageImporter {
	return &ImageImporter{
		media: media,
		client: &http.Client{
			Timeout: fetchTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		limiter:   rate.NewLimiter(rate.Limit(4), 2),
		logger:    logger,
		processed: make(map[string]int64),
	}
}

// SetFetchClient replaces the HTTP client. Intended for tests.
func (ii *ImageImporter) SetFetchClient(c *http.Client) {
	ii.client = c
}

// Import fetches the image at rawurl and returns the id of its locally
// hosted copy. The second return value is false when the image was not
// imported; every failure is converted to that outcome so an image can
// never abort the enclosing post import.
func (ii *ImageImporter) Import(ctx context.Context, rawurl string, postID int64, title string) (int64, bool) {
	if rawurl == "" {
		return 0, false
	}

	if id, ok := ii.processed[rawurl]; ok {
		return id, true
	}

	if id, found, err := ii.media.FindByOriginalURL(ctx, rawurl); err != nil {
		ii.logger.Warn("media provenance lookup failed", "url", rawurl, "error", err)
	} else if found {
		ii.processed[rawurl] = id
		return id, true
	}

	data, filename, ok := ii.fetch(ctx, rawurl)
	if !ok {
		return 0, false
	}

	id, err := ii.media.Ingest(ctx, data, filename, title, postID)
	if err != nil {
		ii.logger.Warn("media ingestion failed", "url", rawurl, "error", err)
		return 0, false
	}

	if err := ii.media.SetMediaMeta(ctx, id, model.MetaOriginalURL, rawurl); err != nil {
		ii.logger.Warn("recording media provenance failed", "url", rawurl, "error", err)
	}

	ii.processed[rawurl] = id
	return id, true
}

// ImportAll imports every URL in order, returning the media id for each URL
// that imported successfully, keyed by source URL.
func (ii *ImageImporter) ImportAll(ctx context.Context, urls []string, postID int64, title string) map[string]int64 {
	imported := make(map[string]int64)
	for _, u := range urls {
		if id, ok := ii.Import(ctx, u, postID, title); ok {
			imported[u] = id
		}
	}
	return imported
}

// fetch downloads the remote resource and derives a filename with a
// validated image extension.
func (ii *ImageImporter) fetch(ctx context.Context, rawurl string) ([]byte, string, bool) {
	u, err := url.Parse(rawurl)
	if err != nil || !u.IsAbs() || u.Host == "" {
		ii.logger.Warn("invalid image url", "url", rawurl)
		return nil, "", false
	}

	if err := ii.limiter.Wait(ctx); err != nil {
		return nil, "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		ii.logger.Warn("building image request failed", "url", rawurl, "error", err)
		return nil, "", false
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := ii.client.Do(req)
	if err != nil {
		ii.logger.Warn("image download failed", "url", rawurl, "error", err)
		return nil, "", false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		ii.logger.Warn("image download returned non-success status",
			"url", rawurl, "status", resp.StatusCode)
		return nil, "", false
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		ii.logger.Warn("reading image body failed", "url", rawurl, "error", err)
		return nil, "", false
	}
	if len(data) > maxImageBytes {
		ii.logger.Warn("image exceeds size limit", "url", rawurl)
		return nil, "", false
	}

	ext := extensionForURL(u, resp.Header.Get("Content-Type"))

	name := strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
	if name == "" || name == "." || name == "/" {
		name = "image"
	}

	return data, name + "." + ext, true
}

// extensionForURL derives the file extension from the URL path, falling back
// to the response content type, falling back to the default, constrained to
// the allow-list.
func extensionForURL(u *url.URL, contentType string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")

	if ext == "" && contentType != "" {
		mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
		ext = mimeToExtension[mediaType]
	}

	if !allowedExtensions[ext] {
		ext = defaultExtension
	}
	return ext
}
