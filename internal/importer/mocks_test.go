// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"blogport/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustParseURL(t *testing.T, rawurl string) *url.URL {
	t.Helper()
	u, err := url.Parse(rawurl)
	if err != nil {
		t.Fatalf("parse %q: %v", rawurl, err)
	}
	return u
}

// fakePostStore is an in-memory PostStore tracking every mutation so tests
// can assert on what the importer did.
type fakePostStore struct {
	nextID    int64
	posts     map[int64]*model.Post
	meta      map[int64]map[string]string
	featured  map[int64]int64
	authors   map[string]int64
	updates   []model.PostUpdate
	updateIDs []int64

	createErr error
	metaErr   error
	authorErr error
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{
		posts:    make(map[int64]*model.Post),
		meta:     make(map[int64]map[string]string),
		featured: make(map[int64]int64),
		authors:  make(map[string]int64),
	}
}

func (s *fakePostStore) CreatePost(_ context.Context, post *model.Post) (int64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.nextID++
	p := *post
	p.ID = s.nextID
	s.posts[s.nextID] = &p
	return s.nextID, nil
}

func (s *fakePostStore) UpdatePost(_ context.Context, id int64, upd model.PostUpdate) error {
	s.updates = append(s.updates, upd)
	s.updateIDs = append(s.updateIDs, id)
	if p, ok := s.posts[id]; ok {
		p.Title = upd.Title
		p.Content = upd.Content
		p.Excerpt = upd.Excerpt
		if upd.Status != "" {
			p.Status = upd.Status
		}
	}
	return nil
}

func (s *fakePostStore) UpdatePostContent(_ context.Context, id int64, content string) error {
	if p, ok := s.posts[id]; ok {
		p.Content = content
	}
	return nil
}

func (s *fakePostStore) FindPostByMeta(_ context.Context, key, value string) (int64, bool, error) {
	for id, m := range s.meta {
		if m[key] == value {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func (s *fakePostStore) SetFeaturedImage(_ context.Context, postID, mediaID int64) error {
	s.featured[postID] = mediaID
	return nil
}

func (s *fakePostStore) SetPostMeta(_ context.Context, postID int64, key, value string) error {
	if s.metaErr != nil {
		return s.metaErr
	}
	if s.meta[postID] == nil {
		s.meta[postID] = make(map[string]string)
	}
	s.meta[postID][key] = value
	return nil
}

func (s *fakePostStore) ResolveAuthor(_ context.Context, username string) (int64, bool, error) {
	if s.authorErr != nil {
		return 0, false, s.authorErr
	}
	id, ok := s.authors[username]
	return id, ok, nil
}

// fakeTermStore records taxonomy assignments keyed by post.
type fakeTermStore struct {
	nextID   int64
	terms    map[string]int64 // taxonomy + "/" + name
	assigned map[int64][]int64
	tags     map[int64][]string

	termErr error
}

func newFakeTermStore() *fakeTermStore {
	return &fakeTermStore{
		terms:    make(map[string]int64),
		assigned: make(map[int64][]int64),
		tags:     make(map[int64][]string),
	}
}

func (s *fakeTermStore) FindOrCreateTerm(_ context.Context, name, taxonomy string) (int64, error) {
	if s.termErr != nil {
		return 0, s.termErr
	}
	key := taxonomy + "/" + name
	if id, ok := s.terms[key]; ok {
		return id, nil
	}
	s.nextID++
	s.terms[key] = s.nextID
	return s.nextID, nil
}

func (s *fakeTermStore) AssignTerms(_ context.Context, postID int64, termIDs []int64) error {
	s.assigned[postID] = append(s.assigned[postID], termIDs...)
	return nil
}

func (s *fakeTermStore) AssignTags(_ context.Context, postID int64, names []string) error {
	s.tags[postID] = append(s.tags[postID], names...)
	return nil
}

// fakeMediaStore ingests into memory and serves provenance lookups,
// counting fetch-independent operations for dedup assertions.
type fakeMediaStore struct {
	nextID   int64
	files    map[int64]string // id -> filename
	byURL    map[string]int64
	ingested int

	ingestErr error
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{
		files: make(map[int64]string),
		byURL: make(map[string]int64),
	}
}

func (s *fakeMediaStore) Ingest(_ context.Context, _ []byte, filename, _ string, _ int64) (int64, error) {
	if s.ingestErr != nil {
		return 0, s.ingestErr
	}
	s.nextID++
	s.files[s.nextID] = filename
	s.ingested++
	return s.nextID, nil
}

func (s *fakeMediaStore) FindByOriginalURL(_ context.Context, rawurl string) (int64, bool, error) {
	id, ok := s.byURL[rawurl]
	return id, ok, nil
}

func (s *fakeMediaStore) ResolveURL(_ context.Context, mediaID int64) (string, error) {
	return fmt.Sprintf("/uploads/originals/%d/%s", mediaID, s.files[mediaID]), nil
}

func (s *fakeMediaStore) SetMediaMeta(_ context.Context, mediaID int64, key, value string) error {
	if key == model.MetaOriginalURL {
		s.byURL[value] = mediaID
	}
	return nil
}

// fakeFieldStore records SetField calls and can decline fields.
type fakeFieldStore struct {
	fields  map[string][]int64 // fieldKey/postID -> media ids
	decline bool
	err     error
}

func newFakeFieldStore() *fakeFieldStore {
	return &fakeFieldStore{fields: make(map[string][]int64)}
}

func (s *fakeFieldStore) SetField(_ context.Context, fieldKey string, postID int64, mediaIDs []int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.decline {
		return false, nil
	}
	s.fields[fmt.Sprintf("%s/%d", fieldKey, postID)] = mediaIDs
	return true, nil
}
